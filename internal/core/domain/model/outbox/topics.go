package outbox

// Broker topics the engine publishes to.
const (
	// TopicTasks carries trigger messages that schedule background tasks.
	TopicTasks = "workflow.tasks"

	// TopicAlerts carries operator alerts for terminal task failures.
	TopicAlerts = "workflow.alerts"
)
