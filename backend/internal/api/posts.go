package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talent-nest/backend/internal/social"
	apperrors "talent-nest/backend/pkg/errors"
)

func (h *Handler) feed(c *gin.Context) {
	items, err := h.svc.Feed.GenerateFeed(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err, "Failed to generate feed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": items})
}

func (h *Handler) userPosts(c *gin.Context) {
	items, err := h.svc.Feed.GetUserPosts(c.Request.Context(), c.Param("userId"), currentUser(c))
	if err != nil {
		h.respondError(c, err, "Failed to list posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": items})
}

func (h *Handler) publishPost(c *gin.Context) {
	var in social.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, apperrors.BadRequest("invalid request body: %v", err), "Failed to publish post")
		return
	}

	post, err := h.svc.Feed.PublishPost(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.respondError(c, err, "Failed to publish post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) removePost(c *gin.Context) {
	if err := h.svc.Feed.RemovePost(c.Request.Context(), c.Param("postId"), currentUser(c)); err != nil {
		h.respondError(c, err, "Failed to delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
