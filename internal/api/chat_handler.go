package api

import (
	"fmt"
	"net/http"
	"time"

	"fitvibe/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// writeWait is how long a single websocket write may take.
	writeWait = 10 * time.Second
	// pongWait bounds how long we wait for a pong before dropping the peer.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens in the JWT middleware; the relationship check happens in
	// the chat service. Origin is not part of the trust model here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatHandler exposes the per-relationship message channel: history, send,
// seen receipts and the live websocket feed.
type ChatHandler struct {
	chatService service.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// GetHistory returns every message of the relationship ascending by send
// time. Both parties keep read access after the relationship is canceled.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), callerID, c.Param("relationshipId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessage stores a message and fans it out to live subscribers.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	msg, err := h.chatService.Send(c.Request.Context(), callerID, c.Param("relationshipId"), req.Text)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkSeen flips a counterpart's message to seen.
func (h *ChatHandler) MarkSeen(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	messageID, err := primitive.ObjectIDFromHex(c.Param("messageId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid message ID format")
		return
	}

	if err := h.chatService.MarkSeen(c.Request.Context(), callerID, c.Param("relationshipId"), messageID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Live upgrades to a websocket, replays the full history and then streams
// new messages as they arrive. The hub subscription is attached before the
// history read so nothing sent in between is lost; the client deduplicates
// by message ID.
func (h *ChatHandler) Live(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	relationshipID := c.Param("relationshipId")

	sub, err := h.chatService.Subscribe(c.Request.Context(), callerID, relationshipID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sub.Close()
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	defer sub.Close()

	history, err := h.chatService.History(c.Request.Context(), callerID, relationshipID)
	if err != nil {
		h.logger.Warn("chat history replay failed", zap.String("relationshipId", relationshipID), zap.Error(err))
		return
	}
	for _, msg := range history {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}

	// Reader goroutine: the peer never sends application data, but reading
	// is what surfaces close frames and feeds the pong handler.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				// Detached by the hub, most likely for falling behind.
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "resubscribe"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
