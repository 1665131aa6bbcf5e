package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"room-service/internal/middleware"
	"room-service/internal/models"
	"room-service/internal/observability"
	"room-service/internal/repositories"
	"room-service/internal/sanitize"
	"room-service/internal/telemetry"
)

// MessageHandler manages message log endpoints.
type MessageHandler struct {
	participantRepo repositories.ParticipantRepository
	messageRepo     repositories.MessageRepository
	emitter         *telemetry.EventEmitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(participantRepo repositories.ParticipantRepository, messageRepo repositories.MessageRepository, emitter *telemetry.EventEmitter) *MessageHandler {
	return &MessageHandler{
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		emitter:         emitter,
	}
}

type messageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// bindMessage sanitizes and validates the message body shared by post and
// edit, and checks that the sender is currently registered. Validation runs
// before any write.
func (h *MessageHandler) bindMessage(c *gin.Context) (messageRequest, bool) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid body"})
		return messageRequest{}, false
	}

	req.To = sanitize.Clean(req.To)
	req.Text = sanitize.Clean(req.Text)
	req.Type = sanitize.Clean(req.Type)

	if req.To == "" || req.Text == "" || !models.IsClientType(req.Type) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid message"})
		return messageRequest{}, false
	}

	sender := middleware.Sender(c)
	registered, err := h.participantRepo.Exists(c.Request.Context(), sender)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify sender"})
		return messageRequest{}, false
	}
	if !registered {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown sender"})
		return messageRequest{}, false
	}
	return req, true
}

// PostMessage appends a message with from forced to the authenticated sender.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	req, ok := h.bindMessage(c)
	if !ok {
		return
	}
	sender := middleware.Sender(c)

	msg, err := h.messageRepo.Append(c.Request.Context(), sender, req.To, req.Text, req.Type, clockTime())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}
	observability.IncMessageCreated(msg.Type)

	h.emitter.Emit(c.Request.Context(), telemetry.RouteMessagePosted, "message_posted",
		requestIDFromContext(c), telemetry.EventPayload{Participant: sender, MessageID: msg.ID, MessageType: msg.Type})

	c.JSON(http.StatusCreated, msg)
}

// ListMessages returns the messages visible to the caller in insertion order.
// A non-numeric or non-positive limit means no limit.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	viewer := middleware.Sender(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	msgs, err := h.messageRepo.ListVisibleTo(c.Request.Context(), viewer, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, msgs)
}

// EditMessage mutates the text of a message owned by the caller. Recipient
// and type are revalidated like a post but never persisted.
func (h *MessageHandler) EditMessage(c *gin.Context) {
	messageID := c.Param("id")

	req, ok := h.bindMessage(c)
	if !ok {
		return
	}
	sender := middleware.Sender(c)

	msg, err := h.messageRepo.Get(c.Request.Context(), messageID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "message not found"})
		return
	}
	if msg.From != sender {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not the message author"})
		return
	}

	if err := h.messageRepo.UpdateText(c.Request.Context(), messageID, req.Text, clockTime()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not edit message"})
		return
	}

	c.Status(http.StatusOK)
}

// DeleteMessage removes a message owned by the caller.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID := c.Param("id")
	sender := middleware.Sender(c)

	msg, err := h.messageRepo.Get(c.Request.Context(), messageID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "message not found"})
		return
	}
	if msg.From != sender {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not the message author"})
		return
	}

	if err := h.messageRepo.Delete(c.Request.Context(), messageID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete message"})
		return
	}

	c.Status(http.StatusNoContent)
}

// clockTime renders the wall-clock display timestamp stored on messages.
func clockTime() string {
	return time.Now().Format("15:04:05")
}
