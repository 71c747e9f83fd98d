package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Redis key patterns for presence
const (
	presenceOnlineSet    = "presence:online"    // Set of online user IDs
	presenceLastSeenHash = "presence:last_seen" // Hash of user ID -> unix seconds
)

// PresenceStore tracks which users hold a live socket. It backs the
// online/offline display hints attached to senders and actors in push
// frames; it carries no delivery semantics.
type PresenceStore struct {
	client *goredis.Client
}

func NewPresenceStore(client *goredis.Client) *PresenceStore {
	return &PresenceStore{client: client}
}

// SetOnline marks a user as online.
func (p *PresenceStore) SetOnline(ctx context.Context, userID string) error {
	pipe := p.client.Pipeline()
	pipe.SAdd(ctx, presenceOnlineSet, userID)
	pipe.HSet(ctx, presenceLastSeenHash, userID, time.Now().Unix())
	_, err := pipe.Exec(ctx)
	return err
}

// SetOffline marks a user as offline, recording the last-seen time.
func (p *PresenceStore) SetOffline(ctx context.Context, userID string) error {
	pipe := p.client.Pipeline()
	pipe.SRem(ctx, presenceOnlineSet, userID)
	pipe.HSet(ctx, presenceLastSeenHash, userID, time.Now().Unix())
	_, err := pipe.Exec(ctx)
	return err
}

// IsOnline reports whether the user currently holds a live socket.
func (p *PresenceStore) IsOnline(ctx context.Context, userID string) (bool, error) {
	return p.client.SIsMember(ctx, presenceOnlineSet, userID).Result()
}

// OnlineSet returns the online flags for a batch of user IDs.
func (p *PresenceStore) OnlineSet(ctx context.Context, userIDs []string) (map[string]bool, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	members := make([]interface{}, len(userIDs))
	for i, id := range userIDs {
		members[i] = id
	}
	flags, err := p.client.SMIsMember(ctx, presenceOnlineSet, members...).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(userIDs))
	for i, id := range userIDs {
		out[id] = flags[i]
	}
	return out, nil
}

// LastSeen returns the recorded last-seen time for a user, zero if unknown.
func (p *PresenceStore) LastSeen(ctx context.Context, userID string) (time.Time, error) {
	value, err := p.client.HGet(ctx, presenceLastSeenHash, userID).Int64()
	if err != nil {
		if err == goredis.Nil {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return time.Unix(value, 0), nil
}
