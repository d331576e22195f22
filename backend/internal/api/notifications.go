package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "talent-nest/backend/pkg/errors"
)

type pageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

func (h *Handler) listNotifications(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, apperrors.BadRequest("invalid paging parameters: %v", err), "Failed to list notifications")
		return
	}

	page, err := h.svc.Notifications.List(c.Request.Context(), currentUser(c), q.Page, q.PageSize)
	if err != nil {
		h.respondError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) unreadCount(c *gin.Context) {
	count, err := h.svc.Notifications.CountUnread(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err, "Failed to count notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) markRead(c *gin.Context) {
	n, err := h.svc.Notifications.MarkRead(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		h.respondError(c, err, "Failed to mark notification read")
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) markAllRead(c *gin.Context) {
	updated, err := h.svc.Notifications.MarkAllRead(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err, "Failed to mark notifications read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *Handler) deleteNotification(c *gin.Context) {
	if err := h.svc.Notifications.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		h.respondError(c, err, "Failed to delete notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
