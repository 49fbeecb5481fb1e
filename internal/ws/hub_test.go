package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startHubServer(t *testing.T, hub *Hub, userID uuid.UUID) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, hub, userID)
		hub.Register(client)
		client.Run()
	}))
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHub_NotifyDeliversToUser(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	runDone := make(chan error, 1)
	go func() { runDone <- hub.Run(ctx) }()

	userID := uuid.New()
	srv, url := startHubServer(t, hub, userID)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(userID, EventDocumentGenerated, map[string]string{"id": "doc-1"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventDocumentGenerated, msg.Type)
	assert.Equal(t, "doc-1", msg.Data["id"])

	cancel()
	require.NoError(t, <-runDone)
	_ = conn.Close()
	srv.Close()
}

func TestHub_NotifyUnknownUserIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	runDone := make(chan error, 1)
	go func() { runDone <- hub.Run(ctx) }()

	hub.Notify(uuid.New(), EventSubscriptionUpdated, nil)
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))

	cancel()
	require.NoError(t, <-runDone)

	// после остановки уведомления не блокируются
	hub.Notify(uuid.New(), EventSubscriptionUpdated, nil)
}
