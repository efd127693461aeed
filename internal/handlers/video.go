package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/j-bridge/volunteerhub.com/internal/dto"
	"github.com/j-bridge/volunteerhub.com/internal/middleware"
	"github.com/j-bridge/volunteerhub.com/internal/services"
)

// VideoHandler serves video submissions.
type VideoHandler struct {
	videoService *services.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// ListVideos returns approved submissions, or any status for admins.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	videos, err := h.videoService.List(c.Request.Context(), viewerID, c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": dto.ToVideoDTOs(videos)})
}

// ListMyVideos returns the caller's submissions.
func (h *VideoHandler) ListMyVideos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	videos, err := h.videoService.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": dto.ToVideoDTOs(videos)})
}

// CreateVideo stores a new submission.
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateVideoRequest struct {
		Title         string  `json:"title" binding:"required"`
		Description   string  `json:"description"`
		VideoURL      string  `json:"video_url" binding:"required"`
		OpportunityID *uint64 `json:"opportunity_id"`
	}

	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	video, err := h.videoService.Create(c.Request.Context(), userID, services.CreateVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoURL:      req.VideoURL,
		OpportunityID: req.OpportunityID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToVideoDTO(*video))
}

// UpdateVideoStatus records an admin review.
func (h *VideoHandler) UpdateVideoStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "video")
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	video, err := h.videoService.UpdateStatus(c.Request.Context(), userID, id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVideoDTO(*video))
}
