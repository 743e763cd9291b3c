package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/weichenhsu/tutorchat/internal/chat"
	"github.com/weichenhsu/tutorchat/internal/greeting"
)

// Chatter is the orchestrator surface the handlers depend on.
type Chatter interface {
	Handle(ctx context.Context, conversationID, message string) (string, error)
}

type Handler struct {
	chat   Chatter
	logger *zap.SugaredLogger
}

func NewHandler(chat Chatter, logger *zap.SugaredLogger) *Handler {
	return &Handler{chat: chat, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.handleIndex)
	router.GET("/init", h.handleInit)
	router.POST("/chat", h.handleChat)
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

func (h *Handler) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": chat.ErrEmptyMessage.Error()})
		return
	}

	reply, err := h.chat.Handle(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Errorw("chat request failed", "user_id", req.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) handleInit(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reply": greeting.Pick()})
}

func (h *Handler) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}
