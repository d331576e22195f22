package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/store"
	apperrors "talent-nest/backend/pkg/errors"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func bindStatus(c *gin.Context) (model.Status, error) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", apperrors.BadRequest("invalid request body: %v", err)
	}
	status, ok := model.ParseStatus(req.Status)
	if !ok {
		return "", apperrors.BadRequest("invalid status type: %s", req.Status)
	}
	return status, nil
}

func (h *Handler) sendRequest(c *gin.Context) {
	ctx := c.Request.Context()
	fromUserID := currentUser(c)

	status, err := bindStatus(c)
	if err != nil {
		h.respondError(c, err, "Failed to send connection request")
		return
	}

	actor := model.PublicProfile{ID: fromUserID}
	if u, err := h.svc.Users.FindByID(ctx, fromUserID); err == nil {
		actor = u.Public()
	} else if !errors.Is(err, store.ErrNotFound) {
		h.logger.Warn("Failed to load acting user profile", zap.String("user_id", fromUserID), zap.Error(err))
	}

	result, err := h.svc.Connections.SendRequest(ctx, fromUserID, c.Param("userId"), status, actor)
	if err != nil {
		h.respondError(c, err, "Failed to send connection request")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) respondRequest(c *gin.Context) {
	status, err := bindStatus(c)
	if err != nil {
		h.respondError(c, err, "Failed to respond to connection request")
		return
	}

	req, err := h.svc.Connections.RespondRequest(c.Request.Context(), status, c.Param("requestId"), currentUser(c))
	if err != nil {
		h.respondError(c, err, "Failed to respond to connection request")
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) receivedRequests(c *gin.Context) {
	pending, err := h.svc.Connections.GetReceivedPending(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err, "Failed to list connection requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": pending})
}

func (h *Handler) acceptedConnections(c *gin.Context) {
	ids, err := h.svc.Connections.GetAcceptedNeighbors(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err, "Failed to list connections")
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": ids})
}

func (h *Handler) connectionStatus(c *gin.Context) {
	state, err := h.svc.Connections.ConnectionStatus(c.Request.Context(), currentUser(c), c.Param("userId"))
	if err != nil {
		h.respondError(c, err, "Failed to look up connection status")
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) matchingPeers(c *gin.Context) {
	matches, err := h.svc.Matching.FindMatchingPeers(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err, "Failed to find matching peers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
