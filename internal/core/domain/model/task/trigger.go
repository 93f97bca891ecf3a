package task

import (
	"encoding/json"
	"fmt"
)

// TriggerMessage is the payload carried through the outbox and the trigger
// topic. It tells the consumer which side effect to schedule for which entity
// and which transition caused it.
type TriggerMessage struct {
	TaskType     string `json:"task_type"`
	EntityID     string `json:"entity_id"`
	TransitionID string `json:"transition_id"`
}

// NewTriggerMessage builds the message for a task scheduled by a transition.
func NewTriggerMessage(taskType Type, entityID string, transitionID string) TriggerMessage {
	return TriggerMessage{
		TaskType:     taskType.String(),
		EntityID:     entityID,
		TransitionID: transitionID,
	}
}

// Encode serializes the message for the outbox payload.
func (m TriggerMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeTriggerMessage parses a trigger payload read from the topic.
func DecodeTriggerMessage(data []byte) (TriggerMessage, error) {
	var m TriggerMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return TriggerMessage{}, fmt.Errorf("decode trigger message: %w", err)
	}
	return m, nil
}
