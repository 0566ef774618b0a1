package ws

import (
	"net/http"
	"strings"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ActorFunc достает актора запроса (после auth middleware)
type ActorFunc func(c *gin.Context) (auth.Actor, error)

type WebSocketHandler struct {
	Manager  *WebSocketManager
	actor    ActorFunc
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(manager *WebSocketManager, actor ActorFunc, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		Manager: manager,
		actor:   actor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker: пустой список или "*" разрешают любой origin
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(set) == 0 || origin == "" || set[origin]
	}
}

// ServeWS - GET /ws/feed, поток новых элементов ленты
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	if auth.IsAnonymous(actor) {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		ID:      uuid.NewString(),
		Actor:   actor,
		Conn:    conn,
		Send:    make(chan any, 64),
		Manager: h.Manager,
	}
	h.Manager.add(client)

	go client.readPump()
	go client.writePump()
}
