package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
	"github.com/Jadeja143/ghost/internal/repository"
)

// EventPusher is the live-push seam the services call into. Pushes are
// best-effort hints; implementations must not block or fail the caller.
type EventPusher interface {
	PushMessage(userID uuid.UUID, m domain.Message, sender domain.UserDisplay)
	PushNotification(userID uuid.UUID, n domain.Notification, actor domain.UserDisplay)
}

// PresenceReader supplies online flags for display payloads.
type PresenceReader interface {
	OnlineSet(ctx context.Context, userIDs []string) (map[string]bool, error)
}

// loadDisplays assembles display data for a set of users, decorated with
// presence hints when a presence reader is available.
func loadDisplays(ctx context.Context, users repository.UserRepository, presence PresenceReader, ids []uuid.UUID) (map[uuid.UUID]domain.UserDisplay, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.UserDisplay{}, nil
	}

	rows, err := users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var online map[string]bool
	if presence != nil {
		strIDs := make([]string, len(ids))
		for i, id := range ids {
			strIDs[i] = id.String()
		}
		// Presence is a hint; a redis failure must not fail the request.
		online, _ = presence.OnlineSet(ctx, strIDs)
	}

	out := make(map[uuid.UUID]domain.UserDisplay, len(rows))
	for _, u := range rows {
		d := domain.UserDisplay{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
		}
		if u.AvatarURL.Valid {
			d.AvatarURL = u.AvatarURL.String
		}
		if online != nil {
			d.IsOnline = online[u.ID.String()]
		}
		out[u.ID] = d
	}
	return out, nil
}
