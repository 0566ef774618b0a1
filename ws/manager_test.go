package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postItem(authorID string) algorithms.FeedItem {
	return algorithms.FeedItem{
		Kind:      algorithms.KindPost,
		ID:        "post-1",
		Author:    algorithms.FeedAuthor{ID: authorID, Role: models.UserRoleStudent},
		Content:   "hello",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func receive(t *testing.T, c *Client) FeedEvent {
	t.Helper()
	select {
	case msg := <-c.Send:
		event, ok := msg.(FeedEvent)
		require.True(t, ok, "unexpected message %T", msg)
		return event
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return FeedEvent{}
}

func TestManager_BroadcastPersonalizesCanDelete(t *testing.T) {
	manager := NewWebSocketManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go manager.Run(ctx)

	author := &Client{ID: "a", Actor: auth.Student{ID: "u1", ProfileID: "p1"}, Send: make(chan any, 4), Manager: manager}
	reader := &Client{ID: "b", Actor: auth.Company{ID: "u2", ProfileID: "p2"}, Send: make(chan any, 4), Manager: manager}
	manager.add(author)
	manager.add(reader)
	assert.Equal(t, 2, manager.GetClientCount())

	manager.Publish(postItem("u1"))

	got := receive(t, author)
	assert.Equal(t, EventFeedItem, got.Type)
	assert.True(t, got.Item.CanDelete)
	assert.False(t, receive(t, reader).Item.CanDelete)
}

func TestManager_DropsSlowClients(t *testing.T) {
	manager := NewWebSocketManager()
	slow := &Client{ID: "slow", Actor: auth.Admin{ID: "adm"}, Send: make(chan any), Manager: manager}
	manager.add(slow)

	manager.broadcastItem(postItem("u1"))

	assert.Equal(t, 0, manager.GetClientCount())
	_, open := <-slow.Send
	assert.False(t, open)
	assert.False(t, manager.sendTo(slow, "late"))
}

func TestManager_RunClosesClientsOnShutdown(t *testing.T) {
	manager := NewWebSocketManager()
	client := &Client{ID: "c", Actor: auth.Admin{ID: "adm"}, Send: make(chan any, 1), Manager: manager}
	manager.add(client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	assert.Equal(t, 0, manager.GetClientCount())
}

func TestHandler_StreamsPublishedItems(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := NewWebSocketManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go manager.Run(ctx)

	viewer := auth.Student{ID: "u1", ProfileID: "p1"}
	handler := NewWebSocketHandler(manager, func(*gin.Context) (auth.Actor, error) { return viewer, nil }, nil)
	router := gin.New()
	router.GET("/ws/feed", handler.ServeWS)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return manager.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)
	manager.Publish(postItem("u1"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event FeedEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventFeedItem, event.Type)
	assert.Equal(t, "post-1", event.Item.ID)
	assert.True(t, event.Item.CanDelete)
}

func TestHandler_RejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewWebSocketHandler(NewWebSocketManager(), func(*gin.Context) (auth.Actor, error) { return auth.Anonymous{}, nil }, []string{"https://campus.example"})
	router := gin.New()
	router.GET("/ws/feed", handler.ServeWS)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ws/feed", nil))
	assert.Equal(t, 401, w.Code)
}
