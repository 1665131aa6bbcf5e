package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"room-service/internal/middleware"
	"room-service/internal/mocks"
	"room-service/internal/models"
	"room-service/internal/repositories"
)

func setupParticipantRouter(handler *ParticipantHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity())
	r.POST("/participants", handler.Join)
	r.GET("/participants", handler.ListParticipants)
	r.POST("/status", handler.Heartbeat)
	return r
}

func TestJoinSuccess(t *testing.T) {
	participantRepo := new(mocks.ParticipantRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewParticipantHandler(participantRepo, messageRepo, nil)
	router := setupParticipantRouter(handler)

	participantRepo.On("Register", mock.Anything, "Ana", mock.AnythingOfType("int64")).Return(nil).Once()
	messageRepo.On("Append", mock.Anything, "Ana", models.BroadcastTarget, arrivalText, models.TypeStatus, mock.AnythingOfType("string")).
		Return(models.Message{ID: "m1", From: "Ana"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(`{"name":"Ana"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	participantRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestJoinSanitizesName(t *testing.T) {
	participantRepo := new(mocks.ParticipantRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewParticipantHandler(participantRepo, messageRepo, nil)
	router := setupParticipantRouter(handler)

	participantRepo.On("Register", mock.Anything, "Ana", mock.AnythingOfType("int64")).Return(nil).Once()
	messageRepo.On("Append", mock.Anything, "Ana", models.BroadcastTarget, arrivalText, models.TypeStatus, mock.AnythingOfType("string")).
		Return(models.Message{}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(`{"name":" <b>Ana</b> "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	participantRepo.AssertExpectations(t)
}

func TestJoinNameTaken(t *testing.T) {
	participantRepo := new(mocks.ParticipantRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewParticipantHandler(participantRepo, messageRepo, nil)
	router := setupParticipantRouter(handler)

	participantRepo.On("Register", mock.Anything, "Ana", mock.AnythingOfType("int64")).
		Return(repositories.ErrNameTaken).Once()

	req := httptest.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(`{"name":"Ana"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	participantRepo.AssertExpectations(t)
	messageRepo.AssertNotCalled(t, "Append")
}

func TestJoinEmptyNameAfterSanitize(t *testing.T) {
	participantRepo := new(mocks.ParticipantRepositoryMock)
	handler := NewParticipantHandler(participantRepo, new(mocks.MessageRepositoryMock), nil)
	router := setupParticipantRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(`{"name":"<script></script>"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	participantRepo.AssertNotCalled(t, "Register")
}

func TestJoinInvalidBody(t *testing.T) {
	handler := NewParticipantHandler(new(mocks.ParticipantRepositoryMock), new(mocks.MessageRepositoryMock), nil)
	router := setupParticipantRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(`{"name":5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListParticipantsSuccess(t *testing.T) {
	participantRepo := new(mocks.ParticipantRepositoryMock)
	handler := NewParticipantHandler(participantRepo, new(mocks.MessageRepositoryMock), nil)
	router := setupParticipantRouter(handler)

	participantRepo.On("List", mock.Anything).
		Return([]models.Participant{{Name: "Ana", LastHeartbeat: 1000}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/participants", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []models.Participant
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Ana", resp[0].Name)
	participantRepo.AssertExpectations(t)
}

func TestListParticipantsEmpty(t *testing.T) {
	participantRepo := new(mocks.ParticipantRepositoryMock)
	handler := NewParticipantHandler(participantRepo, new(mocks.MessageRepositoryMock), nil)
	router := setupParticipantRouter(handler)

	participantRepo.On("List", mock.Anything).Return(([]models.Participant)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/participants", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHeartbeatSuccess(t *testing.T) {
	participantRepo := new(mocks.ParticipantRepositoryMock)
	handler := NewParticipantHandler(participantRepo, new(mocks.MessageRepositoryMock), nil)
	router := setupParticipantRouter(handler)

	participantRepo.On("Heartbeat", mock.Anything, "Ana", mock.AnythingOfType("int64")).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	req.Header.Set("User", "Ana")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	participantRepo.AssertExpectations(t)
}

func TestHeartbeatUnknownParticipant(t *testing.T) {
	participantRepo := new(mocks.ParticipantRepositoryMock)
	handler := NewParticipantHandler(participantRepo, new(mocks.MessageRepositoryMock), nil)
	router := setupParticipantRouter(handler)

	participantRepo.On("Heartbeat", mock.Anything, "Bob", mock.AnythingOfType("int64")).
		Return(repositories.ErrParticipantNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	req.Header.Set("User", "Bob")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	participantRepo.AssertExpectations(t)
}

func TestHeartbeatMissingIdentity(t *testing.T) {
	participantRepo := new(mocks.ParticipantRepositoryMock)
	handler := NewParticipantHandler(participantRepo, new(mocks.MessageRepositoryMock), nil)
	router := setupParticipantRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	participantRepo.AssertNotCalled(t, "Heartbeat")
}
