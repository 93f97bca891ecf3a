package task

import (
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Type identifies the side effect a task instance performs.
type Type string

const (
	// TypeInvoiceGeneration renders and stores the invoice document and
	// emails it to the customer. Created when an order reaches SHIPPED.
	TypeInvoiceGeneration Type = "INVOICE_GENERATION"

	// TypeRefundProcessing calls the payment gateway and records the refund
	// transaction id. Created when a return reaches COMPLETED.
	TypeRefundProcessing Type = "REFUND_PROCESSING"
)

// Validate checks that the type is a known task type.
func (t Type) Validate() error {
	switch t {
	case TypeInvoiceGeneration, TypeRefundProcessing:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("task type",
			fmt.Errorf("%q is not a valid task type", string(t)))
	}
}

func (t Type) String() string {
	return string(t)
}

// EntityKind returns the workflow a task type operates on.
func (t Type) EntityKind() kernel.EntityKind {
	if t == TypeRefundProcessing {
		return kernel.KindReturn
	}
	return kernel.KindOrder
}

// RetryPolicy bounds how often a task type is retried and how the delay
// between attempts grows.
type RetryPolicy struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	CapDelay        time.Duration
	AlertOnTerminal bool
}

// policies is the immutable per-type retry table.
var policies = map[Type]RetryPolicy{
	TypeInvoiceGeneration: {
		MaxAttempts:     3,
		BaseDelay:       60 * time.Second,
		CapDelay:        600 * time.Second,
		AlertOnTerminal: false,
	},
	TypeRefundProcessing: {
		MaxAttempts:     5,
		BaseDelay:       120 * time.Second,
		CapDelay:        1800 * time.Second,
		AlertOnTerminal: true,
	},
}

// Policy returns the retry policy for the task type.
func (t Type) Policy() RetryPolicy {
	return policies[t]
}
