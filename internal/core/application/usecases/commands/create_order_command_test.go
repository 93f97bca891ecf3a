package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

func money(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(cents)
	require.NoError(t, err)
	return m
}

func TestNewCreateOrderCommand(t *testing.T) {
	actor := userActor(t)

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), "cust-7", "1 Elm St", "2 Oak Ave", "card",
		money(t, 1000), money(t, 80), money(t, 120), actor,
	)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "cust-7", cmd.CustomerID())
	assert.Equal(t, "1 Elm St", cmd.ShippingAddress())
	assert.Equal(t, "2 Oak Ave", cmd.BillingAddress())
	assert.Equal(t, int64(1000), cmd.Subtotal().Cents())
	assert.Equal(t, "ops@example.com", cmd.ActorInfo().Actor())
}

func TestNewCreateOrderCommand_Invalid(t *testing.T) {
	actor := userActor(t)
	amount := money(t, 100)

	_, err := commands.NewCreateOrderCommand(
		kernel.UUID{}, "cust-7", "a", "b", "card", amount, amount, amount, actor)
	assert.Error(t, err)

	_, err = commands.NewCreateOrderCommand(
		kernel.NewUUID(), "", "a", "b", "card", amount, amount, amount, actor)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewCreateOrderCommand(
		kernel.NewUUID(), "cust-7", "", "b", "card", amount, amount, amount, actor)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewCreateOrderCommand(
		kernel.NewUUID(), "cust-7", "a", "b", "", amount, amount, amount, actor)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	var cmd commands.CreateOrderCommand
	assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
