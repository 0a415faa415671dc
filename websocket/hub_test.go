package websocket

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dialAdmin stands up a server that registers every connection with the
// hub as an admin and returns a client-side connection to it
func dialAdmin(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.register <- &Client{
			UserID:  primitive.NewObjectID(),
			IsAdmin: true,
			Conn:    conn,
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Wait for the hub to pick up the registration
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		registered := len(hub.clients) > 0
		hub.mu.RUnlock()
		if registered {
			return conn
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("client never registered with the hub")
	return nil
}

func TestBroadcastToAdminsConcurrentWriters(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialAdmin(t, hub)

	const broadcasts = 16
	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hub.BroadcastToAdmins(Notification{
				Type:    NotificationTypeEntitySubmitted,
				Message: fmt.Sprintf("submission %d", i),
			})
		}(i)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	seen := make(map[string]bool)
	for len(seen) < broadcasts {
		var n Notification
		require.NoError(t, conn.ReadJSON(&n), "read failed after %d messages", len(seen))
		assert.Equal(t, NotificationTypeEntitySubmitted, n.Type)
		seen[n.Message] = true
	}
	wg.Wait()
}

func TestSendToUserUnknownUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	err := hub.SendToUser(primitive.NewObjectID(), Notification{Type: "x"})
	assert.Error(t, err)
}
