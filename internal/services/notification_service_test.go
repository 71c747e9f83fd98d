package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jadeja143/ghost/internal/domain"
	"github.com/Jadeja143/ghost/internal/repository/memory"
	ghost_errors "github.com/Jadeja143/ghost/pkg/errors"
)

type notifFixture struct {
	users   *memory.UserStore
	store   *memory.NotificationStore
	pusher  *recordingPusher
	service *NotificationService
	alice   uuid.UUID
	bob     uuid.UUID
}

func newNotifFixture(t *testing.T, pageSize int) *notifFixture {
	f := &notifFixture{
		users:  memory.NewUserStore(),
		store:  memory.NewNotificationStore(),
		pusher: newRecordingPusher(),
	}
	f.service = NewNotificationService(f.store, f.users, f.pusher, nil, pageSize)
	f.alice = seedUser(t, f.users, "alice")
	f.bob = seedUser(t, f.users, "bob")
	return f
}

func TestNotifyPersistsAndPushes(t *testing.T) {
	f := newNotifFixture(t, 30)
	target := uuid.NullUUID{UUID: uuid.New(), Valid: true}

	n, err := f.service.Notify(context.Background(), f.bob, f.alice, domain.NotificationLike, target)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, f.bob, n.UserID)
	assert.Equal(t, f.alice, n.ActorID)
	assert.False(t, n.Read)

	pushed := f.pusher.notificationsFor(f.bob)
	require.Len(t, pushed, 1)
	assert.Equal(t, n.ID, pushed[0].ID)
}

func TestNotifySelfSuppressedEntirely(t *testing.T) {
	f := newNotifFixture(t, 30)

	n, err := f.service.Notify(context.Background(), f.alice, f.alice, domain.NotificationLike, uuid.NullUUID{})
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, f.store.All(), "no row persisted")
	assert.Empty(t, f.pusher.notificationsFor(f.alice), "nothing dispatched")
}

func TestNotifyRejectsUnknownKind(t *testing.T) {
	f := newNotifFixture(t, 30)

	_, err := f.service.Notify(context.Background(), f.bob, f.alice, domain.NotificationKind("poke"), uuid.NullUUID{})
	assert.ErrorIs(t, err, ghost_errors.ErrInvalidInput)
}

func TestListNewestFirstPaged(t *testing.T) {
	f := newNotifFixture(t, 2)
	ctx := context.Background()

	// Distinct timestamps so ordering is deterministic.
	for i := 0; i < 5; i++ {
		n := domain.Notification{
			ID:        uuid.New(),
			UserID:    f.bob,
			ActorID:   f.alice,
			Kind:      domain.NotificationComment,
			CreatedAt: time.Unix(int64(1000+i), 0),
		}
		require.NoError(t, f.store.Create(ctx, &n))
	}

	page1, displays, err := f.service.List(ctx, f.bob, 1)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.True(t, page1[0].CreatedAt.After(page1[1].CreatedAt))
	assert.Contains(t, displays, f.alice)

	page3, _, err := f.service.List(ctx, f.bob, 3)
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	page4, _, err := f.service.List(ctx, f.bob, 4)
	require.NoError(t, err)
	assert.Empty(t, page4)
}

func TestMarkReadOwnNotification(t *testing.T) {
	f := newNotifFixture(t, 30)
	ctx := context.Background()

	n, err := f.service.Notify(ctx, f.bob, f.alice, domain.NotificationFollow, uuid.NullUUID{})
	require.NoError(t, err)

	require.NoError(t, f.service.MarkRead(ctx, f.bob, n.ID))

	all := f.store.All()
	require.Len(t, all, 1)
	assert.True(t, all[0].Read)

	// Idempotent.
	require.NoError(t, f.service.MarkRead(ctx, f.bob, n.ID))
}

func TestMarkReadForeignNotificationNotFound(t *testing.T) {
	f := newNotifFixture(t, 30)
	ctx := context.Background()

	n, err := f.service.Notify(ctx, f.bob, f.alice, domain.NotificationFollow, uuid.NullUUID{})
	require.NoError(t, err)

	// Alice cannot acknowledge Bob's notification.
	err = f.service.MarkRead(ctx, f.alice, n.ID)
	assert.ErrorIs(t, err, ghost_errors.ErrNotFound)

	err = f.service.MarkRead(ctx, f.bob, uuid.New())
	assert.ErrorIs(t, err, ghost_errors.ErrNotFound)
}

func TestListDisplaysEveryDistinctActor(t *testing.T) {
	f := newNotifFixture(t, 30)
	ctx := context.Background()

	actors := make([]uuid.UUID, 3)
	for i := range actors {
		actors[i] = seedUser(t, f.users, fmt.Sprintf("actor%d", i))
		_, err := f.service.Notify(ctx, f.bob, actors[i], domain.NotificationLike, uuid.NullUUID{})
		require.NoError(t, err)
	}

	_, displays, err := f.service.List(ctx, f.bob, 1)
	require.NoError(t, err)
	for _, id := range actors {
		assert.Contains(t, displays, id)
	}
}
