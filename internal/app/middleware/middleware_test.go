package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgebook/internal/app/commands"
	"lodgebook/internal/app/middleware"
	"lodgebook/internal/app/uow"
	"lodgebook/internal/infra/storage/memory"
)

type fakeCommand struct {
	ID      string
	IdemKey string
	Fail    bool
}

type fakeResult struct {
	Echo string `json:"echo"`
}

func (c fakeCommand) Key() string { return "test.fake" }

func (c fakeCommand) IdempotencyKey() string { return c.IdemKey }

func (c fakeCommand) ResultPrototype() any { return &fakeResult{} }

func (c fakeCommand) Validate() error {
	if c.ID == "" {
		return errors.New("test: id required")
	}
	return nil
}

func newBus(t *testing.T, calls *int, mws ...middleware.CommandMiddleware) commands.Bus {
	t.Helper()
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, fakeCommand{}.Key(), commands.HandlerFunc[fakeCommand, *fakeResult](
		func(ctx context.Context, cmd fakeCommand) (*fakeResult, error) {
			*calls++
			if cmd.Fail {
				return nil, errors.New("test: handler exploded")
			}
			return &fakeResult{Echo: cmd.ID}, nil
		}))
	return middleware.ChainCommands(base, mws...)
}

func TestValidationRejectsBeforeHandler(t *testing.T) {
	calls := 0
	bus := newBus(t, &calls, middleware.Validation(middleware.SelfValidator{}))

	_, err := commands.Dispatch[fakeCommand, *fakeResult](context.Background(), bus, fakeCommand{})
	require.Error(t, err)
	assert.Zero(t, calls)

	res, err := commands.Dispatch[fakeCommand, *fakeResult](context.Background(), bus, fakeCommand{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, "a", res.Echo)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyReplaysResult(t *testing.T) {
	calls := 0
	store := memory.NewIdempotencyStore()
	bus := newBus(t, &calls, middleware.Idempotency(store, nil))

	cmd := fakeCommand{ID: "a", IdemKey: "key-1"}
	first, err := commands.Dispatch[fakeCommand, *fakeResult](context.Background(), bus, cmd)
	require.NoError(t, err)

	second, err := commands.Dispatch[fakeCommand, *fakeResult](context.Background(), bus, cmd)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "the handler must not run twice for one key")
}

func TestIdempotencyReplaysFailure(t *testing.T) {
	calls := 0
	store := memory.NewIdempotencyStore()
	bus := newBus(t, &calls, middleware.Idempotency(store, nil))

	cmd := fakeCommand{ID: "a", IdemKey: "key-1", Fail: true}
	_, err := commands.Dispatch[fakeCommand, *fakeResult](context.Background(), bus, cmd)
	require.Error(t, err)

	_, err = commands.Dispatch[fakeCommand, *fakeResult](context.Background(), bus, cmd)
	require.EqualError(t, err, "test: handler exploded")
	assert.Equal(t, 1, calls)
}

func TestIdempotencySkipsWithoutKey(t *testing.T) {
	calls := 0
	store := memory.NewIdempotencyStore()
	bus := newBus(t, &calls, middleware.Idempotency(store, nil))

	cmd := fakeCommand{ID: "a"}
	_, err := commands.Dispatch[fakeCommand, *fakeResult](context.Background(), bus, cmd)
	require.NoError(t, err)
	_, err = commands.Dispatch[fakeCommand, *fakeResult](context.Background(), bus, cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTransactionInjectsUnitOfWork(t *testing.T) {
	factory := &memory.Factory{
		LodgingsRepo:       memory.NewLodgingRepository(),
		BookingsRepo:       memory.NewBookingRepository(),
		BlockedDatesRepo:   memory.NewBlockedDateRepository(),
		SeasonalPricesRepo: memory.NewSeasonalPriceRepository(),
	}

	base := commands.NewInMemoryBus()
	var sawUnit bool
	commands.RegisterHandler(base, fakeCommand{}.Key(), commands.HandlerFunc[fakeCommand, *fakeResult](
		func(ctx context.Context, cmd fakeCommand) (*fakeResult, error) {
			_, sawUnit = uow.FromContext(ctx)
			return &fakeResult{Echo: cmd.ID}, nil
		}))
	bus := middleware.ChainCommands(base, middleware.Transaction(factory, nil))

	_, err := commands.Dispatch[fakeCommand, *fakeResult](context.Background(), bus, fakeCommand{ID: "a"})
	require.NoError(t, err)
	assert.True(t, sawUnit, "handlers see the opened unit in context")
}
