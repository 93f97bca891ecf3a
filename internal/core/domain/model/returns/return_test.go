package returns_test

import (
	"testing"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReturn(t *testing.T) *returns.Return {
	t.Helper()

	amount, err := kernel.NewMoney(4500)
	require.NoError(t, err)

	r, err := returns.NewReturn(kernel.NewUUID(), kernel.NewUUID(), "damaged item", "customer-42", amount)
	require.NoError(t, err)
	return r
}

func TestNewReturn(t *testing.T) {
	t.Run("starts in REQUESTED at version 1", func(t *testing.T) {
		r := newTestReturn(t)

		assert.Equal(t, returns.Requested, r.Status())
		assert.Equal(t, int64(1), r.Version())
		assert.Equal(t, int64(4500), r.RefundAmount().Cents())
		require.NoError(t, r.Validate())
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		_, err := returns.NewReturn(kernel.UUID{}, kernel.NewUUID(), "reason", "who", 0)
		require.Error(t, err)

		_, err = returns.NewReturn(kernel.NewUUID(), kernel.UUID{}, "reason", "who", 0)
		require.Error(t, err)

		_, err = returns.NewReturn(kernel.NewUUID(), kernel.NewUUID(), "", "who", 0)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = returns.NewReturn(kernel.NewUUID(), kernel.NewUUID(), "reason", "", 0)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value fails Validate", func(t *testing.T) {
		var r returns.Return
		require.ErrorIs(t, r.Validate(), returns.ErrReturnIsNotConstructed)
	})
}

func TestReturn_TransitionTo(t *testing.T) {
	t.Run("walks the full happy path", func(t *testing.T) {
		r := newTestReturn(t)

		for _, target := range []returns.Status{
			returns.Approved, returns.InTransit, returns.Received, returns.Completed,
		} {
			require.NoError(t, r.TransitionTo(target))
		}

		assert.Equal(t, returns.Completed, r.Status())
		assert.Equal(t, int64(5), r.Version())
	})

	t.Run("rejected is terminal with empty allowed set", func(t *testing.T) {
		r := newTestReturn(t)
		require.NoError(t, r.TransitionTo(returns.Rejected))

		err := r.TransitionTo(returns.Approved)

		var invalidErr *kernel.InvalidTransitionError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, kernel.KindReturn, invalidErr.Kind)
		assert.Equal(t, "REJECTED", invalidErr.Current)
		assert.Equal(t, "APPROVED", invalidErr.Requested)
		assert.Empty(t, invalidErr.Allowed)
		assert.Equal(t, returns.Rejected, r.Status())
	})

	t.Run("cannot skip states", func(t *testing.T) {
		r := newTestReturn(t)

		err := r.TransitionTo(returns.Completed)

		var invalidErr *kernel.InvalidTransitionError
		require.ErrorAs(t, err, &invalidErr)
		assert.ElementsMatch(t, []string{"APPROVED", "REJECTED"}, invalidErr.Allowed)
	})
}

func TestReturn_Approve(t *testing.T) {
	r := newTestReturn(t)

	require.NoError(t, r.Approve("admin-1"))

	assert.Equal(t, returns.Approved, r.Status())
	assert.Equal(t, "admin-1", r.ReviewedBy())

	t.Run("requires reviewer", func(t *testing.T) {
		r := newTestReturn(t)
		require.ErrorIs(t, r.Approve(""), errs.ErrValueIsRequired)
	})
}

func TestReturn_Reject(t *testing.T) {
	r := newTestReturn(t)

	require.NoError(t, r.Reject("admin-1", "outside return window"))

	assert.Equal(t, returns.Rejected, r.Status())
	assert.Equal(t, "admin-1", r.ReviewedBy())
	assert.Equal(t, "outside return window", r.RejectionReason())

	t.Run("requires reviewer and reason", func(t *testing.T) {
		r := newTestReturn(t)
		require.ErrorIs(t, r.Reject("", "reason"), errs.ErrValueIsRequired)
		require.ErrorIs(t, r.Reject("admin-1", ""), errs.ErrValueIsRequired)
	})
}

func TestReturn_SetShipping(t *testing.T) {
	t.Run("records tracking details and bumps the version", func(t *testing.T) {
		r := newTestReturn(t)
		before := r.Version()

		require.NoError(t, r.SetShipping("RTN-445", "UPS"))
		assert.Equal(t, "RTN-445", r.TrackingNumber())
		assert.Equal(t, "UPS", r.Carrier())
		assert.Equal(t, before+1, r.Version())
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		r := newTestReturn(t)

		require.ErrorIs(t, r.SetShipping("", "UPS"), errs.ErrValueIsRequired)
		require.ErrorIs(t, r.SetShipping("RTN-445", ""), errs.ErrValueIsRequired)
		assert.Empty(t, r.TrackingNumber())
	})
}

func TestReturn_RecordRefundTransaction(t *testing.T) {
	completed := func(t *testing.T) *returns.Return {
		r := newTestReturn(t)
		for _, target := range []returns.Status{
			returns.Approved, returns.InTransit, returns.Received, returns.Completed,
		} {
			require.NoError(t, r.TransitionTo(target))
		}
		return r
	}

	t.Run("records once on a completed return", func(t *testing.T) {
		r := completed(t)

		require.NoError(t, r.RecordRefundTransaction("tx-123"))
		assert.Equal(t, "tx-123", r.RefundTransactionID())
	})

	t.Run("rejects a second recording", func(t *testing.T) {
		r := completed(t)
		require.NoError(t, r.RecordRefundTransaction("tx-123"))

		err := r.RecordRefundTransaction("tx-456")
		require.ErrorIs(t, err, errs.ErrAlreadyExists)
		assert.Equal(t, "tx-123", r.RefundTransactionID())
	})

	t.Run("rejects recording before completion", func(t *testing.T) {
		r := newTestReturn(t)
		require.ErrorIs(t, r.RecordRefundTransaction("tx-123"), errs.ErrValueIsInvalid)
	})
}
