package repository

import (
	"context"
	"testing"
	"time"

	"cogbot/events"
	"cogbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeDefconChanged, func(_ context.Context, e events.Event) {
		received <- e
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	uow := factory.CreateForGuild(100)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	defcon, err := uow.DefconRepository().GetOrCreate(ctx)
	require.NoError(t, err)
	defcon.Level = 3
	require.NoError(t, uow.DefconRepository().Save(ctx, defcon))
	require.NoError(t, uow.EventBus().Publish(events.DefconChangedEvent{GuildID: 100, OldLevel: 5, NewLevel: 3, Authority: "Alice"}))

	select {
	case <-received:
		t.Fatal("event delivered before commit")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, uow.Commit())

	select {
	case e := <-received:
		assert.Equal(t, events.EventTypeDefconChanged, e.Type())
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered after commit")
	}

	reloaded, err := NewDefconRepositoryScoped(testDB.DB, 100).GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Level)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.SubscribeAll(func(_ context.Context, e events.Event) {
		received <- e
	})

	uow := NewUnitOfWorkFactory(testDB.DB, bus).CreateForGuild(100)
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.SmartReactionRepository().Add(ctx, "🍕", "pizza")
	require.NoError(t, err)
	require.NoError(t, uow.EventBus().Publish(events.SmartReactionTriggeredEvent{GuildID: 100, Emoji: "🍕"}))
	require.NoError(t, uow.Rollback())

	select {
	case <-received:
		t.Fatal("event delivered after rollback")
	case <-time.After(50 * time.Millisecond):
	}

	set, err := NewSmartReactionRepositoryScoped(testDB.DB, 100).GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestUnitOfWork_AccessorsPanicBeforeBegin(t *testing.T) {
	uow := NewUnitOfWorkFactory(nil, events.NewBus()).CreateForGuild(1)

	assert.PanicsWithValue(t, "unit of work not started - call Begin() first", func() {
		uow.PollRepository()
	})
	assert.Error(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}
