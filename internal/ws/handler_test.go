package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAuth struct {
	id  uuid.UUID
	err error
}

func (a staticAuth) VerifySocketToken(token string) (uuid.UUID, error) {
	return a.id, a.err
}

type memPresence struct {
	mu     sync.Mutex
	online map[string]bool
}

func newMemPresence() *memPresence {
	return &memPresence{online: make(map[string]bool)}
}

func (p *memPresence) SetOnline(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[userID] = true
	return nil
}

func (p *memPresence) SetOffline(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[userID] = false
	return nil
}

func (p *memPresence) isOnline(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[userID]
}

func TestStaleSocketCloseKeepsFreshPresence(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	registry := NewRegistry()
	presence := newMemPresence()
	h := NewHandler(registry, staticAuth{id: userID}, presence, nil)

	engine := gin.New()
	engine.GET("/ws", h.Connect)
	srv := httptest.NewServer(engine)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=t"

	stale, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	fresh, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer fresh.Close()
	time.Sleep(100 * time.Millisecond)

	winner, ok := registry.Lookup(userID)
	require.True(t, ok)

	// The displaced socket going away must not flip the reconnected user
	// offline or evict the winning handle.
	stale.Close()
	time.Sleep(100 * time.Millisecond)

	got, ok := registry.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, winner, got)
	assert.True(t, presence.isOnline(userID.String()),
		"user should still read as online while the fresh socket lives")

	fresh.Close()
	time.Sleep(100 * time.Millisecond)

	_, ok = registry.Lookup(userID)
	assert.False(t, ok)
	assert.False(t, presence.isOnline(userID.String()))
}
