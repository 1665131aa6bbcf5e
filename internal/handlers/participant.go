package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"room-service/internal/middleware"
	"room-service/internal/models"
	"room-service/internal/observability"
	"room-service/internal/repositories"
	"room-service/internal/sanitize"
	"room-service/internal/telemetry"
)

const arrivalText = "entered the room..."

// ParticipantHandler manages presence endpoints.
type ParticipantHandler struct {
	participantRepo repositories.ParticipantRepository
	messageRepo     repositories.MessageRepository
	emitter         *telemetry.EventEmitter
}

// NewParticipantHandler builds a ParticipantHandler.
func NewParticipantHandler(participantRepo repositories.ParticipantRepository, messageRepo repositories.MessageRepository, emitter *telemetry.EventEmitter) *ParticipantHandler {
	return &ParticipantHandler{
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		emitter:         emitter,
	}
}

// Join registers a new participant and appends the arrival status message.
func (h *ParticipantHandler) Join(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid body"})
		return
	}

	name := sanitize.Clean(req.Name)
	if name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name is required"})
		return
	}

	err := h.participantRepo.Register(c.Request.Context(), name, time.Now().UnixMilli())
	if err != nil {
		if errors.Is(err, repositories.ErrNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "name already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register participant"})
		return
	}

	// Registry write and log append are two steps, not one transaction. If
	// the append fails the participant becomes a ghost until the next sweep
	// removes it, so the request still reports failure.
	if _, err := h.messageRepo.Append(c.Request.Context(), name, models.BroadcastTarget, arrivalText, models.TypeStatus, clockTime()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record arrival"})
		return
	}
	observability.IncMessageCreated(models.TypeStatus)

	h.emitter.Emit(c.Request.Context(), telemetry.RouteParticipantJoined, "participant_joined",
		requestIDFromContext(c), telemetry.EventPayload{Participant: name})

	c.Status(http.StatusCreated)
}

// ListParticipants returns a snapshot of everyone currently in the room.
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	participants, err := h.participantRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load participants"})
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	observability.SetActiveParticipants(len(participants))

	c.JSON(http.StatusOK, participants)
}

// Heartbeat refreshes the caller's last-heartbeat timestamp.
func (h *ParticipantHandler) Heartbeat(c *gin.Context) {
	name := middleware.Sender(c)
	if name == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "participant not found"})
		return
	}

	err := h.participantRepo.Heartbeat(c.Request.Context(), name, time.Now().UnixMilli())
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not refresh status"})
		return
	}

	c.Status(http.StatusOK)
}
