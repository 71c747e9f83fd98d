package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jadeja143/ghost/config"
	"github.com/Jadeja143/ghost/internal/handler"
	"github.com/Jadeja143/ghost/internal/repository/memory"
	"github.com/Jadeja143/ghost/internal/services"
	"github.com/Jadeja143/ghost/internal/ws"
)

type testEnv struct {
	srv    *httptest.Server
	wsBase string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		AppPort:              "0",
		AppMode:              TestMode,
		JWTSecret:            "test-secret",
		JWTExpiryMin:         60,
		MaxMessageLength:     4000,
		NotificationPageSize: 30,
	}

	users := memory.NewUserStore()
	messages := memory.NewMessageStore()
	convs := memory.NewConversationStore(messages)
	notifications := memory.NewNotificationStore()

	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(registry, nil)

	authService := services.NewAuthService(users, cfg)
	convService := services.NewConversationService(convs, users, nil)
	msgService := services.NewMessageService(messages, convs, users, dispatcher, nil, cfg.MaxMessageLength)
	notifService := services.NewNotificationService(notifications, users, dispatcher, nil, cfg.NotificationPageSize)

	s := New(cfg, nil, nil)
	s.SetupRoutes(&Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Conversations: handler.NewConversationHandler(convService),
		Messages:      handler.NewMessageHandler(msgService),
		Notifications: handler.NewNotificationHandler(notifService),
		Socket:        ws.NewHandler(registry, authService, nil, nil),
	}, authService, nil)

	srv := httptest.NewServer(s.Engine())
	t.Cleanup(srv.Close)

	return &testEnv{
		srv:    srv,
		wsBase: "ws" + strings.TrimPrefix(srv.URL, "http"),
	}
}

type account struct {
	id    string
	token string
}

func (e *testEnv) register(t *testing.T, username string) account {
	t.Helper()
	body := e.postJSON(t, "", "/api/auth/register", map[string]any{
		"username": username,
		"password": "pw-" + username,
	}, http.StatusCreated)

	var data struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &data))
	require.NotEmpty(t, data.AccessToken)
	return account{id: data.User.ID, token: data.AccessToken}
}

// postJSON posts the payload and returns the envelope's data field.
func (e *testEnv) postJSON(t *testing.T, token, path string, payload any, wantStatus int) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return e.do(t, req, wantStatus)
}

func (e *testEnv) getJSON(t *testing.T, token, path string, wantStatus int) json.RawMessage {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(t, req, wantStatus)
}

func (e *testEnv) do(t *testing.T, req *http.Request, wantStatus int) json.RawMessage {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
		Code    string          `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, wantStatus, resp.StatusCode, "unexpected status, error: %s code: %s", envelope.Error, envelope.Code)
	return envelope.Data
}

func (e *testEnv) errorCode(t *testing.T, req *http.Request, wantStatus int) string {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, wantStatus, resp.StatusCode)
	require.False(t, envelope.Success)
	return envelope.Code
}

type conversationBody struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	IsGroup      bool   `json:"is_group"`
	Participants []struct {
		ID string `json:"id"`
	} `json:"participants"`
}

type messageBody struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Sender  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"sender"`
	ReadBy []string `json:"read_by"`
}

func TestPing(t *testing.T) {
	e := newTestEnv(t)
	data := e.getJSON(t, "", "/ping", http.StatusOK)
	assert.JSONEq(t, `{"message":"pong"}`, string(data))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestEnv(t)
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+"/api/conversations", nil)
	require.NoError(t, err)
	assert.Equal(t, "UNAUTHORIZED", e.errorCode(t, req, http.StatusUnauthorized))
}

// Scenario: creating a titled conversation and listing it back.
func TestCreateAndListConversation(t *testing.T) {
	e := newTestEnv(t)
	a := e.register(t, "alice")
	b := e.register(t, "bob")
	c := e.register(t, "carol")

	data := e.postJSON(t, a.token, "/api/conversations", map[string]any{
		"participant_ids": []string{b.id, c.id},
		"title":           "trip",
	}, http.StatusCreated)

	var conv conversationBody
	require.NoError(t, json.Unmarshal(data, &conv))
	assert.Equal(t, "trip", conv.Title)
	assert.True(t, conv.IsGroup)
	assert.Len(t, conv.Participants, 3)

	list := e.getJSON(t, a.token, "/api/conversations", http.StatusOK)
	var listBody struct {
		Conversations []struct {
			conversationBody
			UnreadCount int `json:"unread_count"`
		} `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(list, &listBody))
	require.Len(t, listBody.Conversations, 1)
	assert.Equal(t, conv.ID, listBody.Conversations[0].ID)
	assert.Equal(t, "trip", listBody.Conversations[0].Title)
	assert.Equal(t, 0, listBody.Conversations[0].UnreadCount)
}

func TestCreateConversationInvalidParticipants(t *testing.T) {
	e := newTestEnv(t)
	a := e.register(t, "alice")

	raw, _ := json.Marshal(map[string]any{"participant_ids": []string{}})
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/api/conversations", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)
	assert.Equal(t, "INVALID_PARTICIPANTS", e.errorCode(t, req, http.StatusBadRequest))
}

// Scenario: a live recipient gets the push frame, an offline one catches
// up over REST, and fetching marks the thread read.
func TestMessageFanOutAndReadMarking(t *testing.T) {
	e := newTestEnv(t)
	a := e.register(t, "alice")
	b := e.register(t, "bob")
	c := e.register(t, "carol")

	data := e.postJSON(t, a.token, "/api/conversations", map[string]any{
		"participant_ids": []string{b.id, c.id},
		"title":           "trip",
	}, http.StatusCreated)
	var conv conversationBody
	require.NoError(t, json.Unmarshal(data, &conv))

	// B connects live. C stays offline.
	dialer := websocket.Dialer{}
	sock, resp, err := dialer.Dial(e.wsBase+"/ws?token="+b.token, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer sock.Close()

	// The handshake completes before the server registers the handle.
	time.Sleep(100 * time.Millisecond)

	sent := e.postJSON(t, a.token, "/api/messages", map[string]any{
		"conversation_id": conv.ID,
		"content":         "hi",
	}, http.StatusOK)
	var sentMsg messageBody
	require.NoError(t, json.Unmarshal(sent, &sentMsg))
	assert.Equal(t, []string{a.id}, sentMsg.ReadBy)

	// B receives the tagged frame.
	sock.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frameData, err := sock.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		Type    string `json:"type"`
		Message struct {
			Content  string `json:"content"`
			SenderID string `json:"sender_id"`
		} `json:"message"`
		Sender struct {
			ID string `json:"id"`
		} `json:"sender"`
	}
	require.NoError(t, json.Unmarshal(frameData, &frame))
	assert.Equal(t, "message", frame.Type)
	assert.Equal(t, "hi", frame.Message.Content)
	assert.Equal(t, a.id, frame.Sender.ID)

	// C fetches over REST: the message is there, read only by A.
	cMessages := e.getJSON(t, c.token, "/api/messages/"+conv.ID, http.StatusOK)
	var cList struct {
		Messages []messageBody `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(cMessages, &cList))
	require.Len(t, cList.Messages, 1)
	assert.Equal(t, "hi", cList.Messages[0].Content)
	assert.Equal(t, a.id, cList.Messages[0].Sender.ID)
	assert.Equal(t, []string{a.id}, cList.Messages[0].ReadBy)

	// B fetches; afterwards the read-set includes B and B's unread is 0.
	e.getJSON(t, b.token, "/api/messages/"+conv.ID, http.StatusOK)

	bMessages := e.getJSON(t, b.token, "/api/messages/"+conv.ID, http.StatusOK)
	var bList struct {
		Messages []messageBody `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(bMessages, &bList))
	require.Len(t, bList.Messages, 1)
	assert.Contains(t, bList.Messages[0].ReadBy, b.id)

	list := e.getJSON(t, b.token, "/api/conversations", http.StatusOK)
	var listBody struct {
		Conversations []struct {
			UnreadCount int `json:"unread_count"`
		} `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(list, &listBody))
	require.Len(t, listBody.Conversations, 1)
	assert.Equal(t, 0, listBody.Conversations[0].UnreadCount)
}

// Scenario: an outsider can neither send into nor read the conversation.
func TestNonParticipantRejected(t *testing.T) {
	e := newTestEnv(t)
	a := e.register(t, "alice")
	b := e.register(t, "bob")
	d := e.register(t, "dave")

	data := e.postJSON(t, a.token, "/api/conversations", map[string]any{
		"participant_ids": []string{b.id},
	}, http.StatusCreated)
	var conv conversationBody
	require.NoError(t, json.Unmarshal(data, &conv))

	raw, _ := json.Marshal(map[string]any{"conversation_id": conv.ID, "content": "hi"})
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/api/messages", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.token)
	assert.Equal(t, "NOT_PARTICIPANT", e.errorCode(t, req, http.StatusForbidden))

	req, err = http.NewRequest(http.MethodGet, e.srv.URL+"/api/messages/"+conv.ID, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+d.token)
	assert.Equal(t, "NOT_PARTICIPANT", e.errorCode(t, req, http.StatusForbidden))
}

func TestSocketRejectsBadToken(t *testing.T) {
	e := newTestEnv(t)

	dialer := websocket.Dialer{}
	_, resp, err := dialer.Dial(e.wsBase+"/ws?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSocketLastWriterWins(t *testing.T) {
	e := newTestEnv(t)
	a := e.register(t, "alice")
	b := e.register(t, "bob")

	data := e.postJSON(t, a.token, "/api/conversations", map[string]any{
		"participant_ids": []string{b.id},
	}, http.StatusCreated)
	var conv conversationBody
	require.NoError(t, json.Unmarshal(data, &conv))

	dialer := websocket.Dialer{}
	first, resp1, err := dialer.Dial(e.wsBase+"/ws?token="+b.token, nil)
	require.NoError(t, err)
	if resp1 != nil {
		resp1.Body.Close()
	}
	defer first.Close()

	second, resp2, err := dialer.Dial(e.wsBase+"/ws?token="+b.token, nil)
	require.NoError(t, err)
	if resp2 != nil {
		resp2.Body.Close()
	}
	defer second.Close()

	// Give the server a moment to register the second socket.
	time.Sleep(100 * time.Millisecond)

	e.postJSON(t, a.token, "/api/messages", map[string]any{
		"conversation_id": conv.ID,
		"content":         "where did you go",
	}, http.StatusOK)

	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frameData, err := second.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(frameData), "where did you go")
}

func TestMuteAndReadReceiptToggleEndpoints(t *testing.T) {
	e := newTestEnv(t)
	a := e.register(t, "alice")
	b := e.register(t, "bob")

	data := e.postJSON(t, a.token, "/api/conversations", map[string]any{
		"participant_ids": []string{b.id},
	}, http.StatusCreated)
	var conv conversationBody
	require.NoError(t, json.Unmarshal(data, &conv))

	muted := e.postJSON(t, a.token, "/api/conversations/mute", map[string]any{
		"conversation_id":  conv.ID,
		"duration_minutes": 30,
	}, http.StatusOK)
	assert.Contains(t, string(muted), `"is_muted":true`)

	toggled := e.postJSON(t, a.token, "/api/conversations/read-receipt-toggle", map[string]any{
		"conversation_id": conv.ID,
	}, http.StatusOK)
	var toggleBody struct {
		ReadReceiptEnabled bool `json:"read_receipt_enabled"`
	}
	require.NoError(t, json.Unmarshal(toggled, &toggleBody))
	assert.False(t, toggleBody.ReadReceiptEnabled)
}

func TestNotificationFlow(t *testing.T) {
	e := newTestEnv(t)
	a := e.register(t, "alice")
	b := e.register(t, "bob")

	// B connects live and receives the notification frame.
	dialer := websocket.Dialer{}
	sock, resp, err := dialer.Dial(e.wsBase+"/ws?token="+b.token, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer sock.Close()

	time.Sleep(100 * time.Millisecond)

	created := e.postJSON(t, a.token, "/api/notifications", map[string]any{
		"recipient_id": b.id,
		"kind":         "like",
	}, http.StatusCreated)
	var createdBody struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(created, &createdBody))

	sock.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frameData, err := sock.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(frameData), `"type":"notification"`)

	// Self-notification is suppressed.
	suppressed := e.postJSON(t, a.token, "/api/notifications", map[string]any{
		"recipient_id": a.id,
		"kind":         "like",
	}, http.StatusOK)
	assert.Contains(t, string(suppressed), `"suppressed":true`)

	// B lists and acknowledges.
	list := e.getJSON(t, b.token, "/api/notifications?page=1", http.StatusOK)
	var listBody struct {
		Notifications []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
			Read bool   `json:"read"`
		} `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(list, &listBody))
	require.Len(t, listBody.Notifications, 1)
	assert.Equal(t, "like", listBody.Notifications[0].Kind)
	assert.False(t, listBody.Notifications[0].Read)

	e.postJSON(t, b.token, fmt.Sprintf("/api/notifications/%s/read", createdBody.ID), map[string]any{}, http.StatusOK)

	// A cannot acknowledge B's notification.
	raw, _ := json.Marshal(map[string]any{})
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+fmt.Sprintf("/api/notifications/%s/read", createdBody.ID), bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)
	assert.Equal(t, "NOT_FOUND", e.errorCode(t, req, http.StatusNotFound))
}
