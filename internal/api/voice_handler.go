package api

import (
	"hiroonarita/practice-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VoiceHandler struct {
	voiceService service.VoiceService
}

func NewVoiceHandler(voiceService service.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService}
}

// RequestUploadURL godoc
// @Summary Get a presigned URL for uploading a voice clip
// @Tags Voice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UploadURLRequest true "Audio content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 503 {object} gin.H "Voice storage not configured"
// @Router /voice/uploads [post]
func (h *VoiceHandler) RequestUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	resp, err := h.voiceService.RequestUpload(c.Request.Context(), ownerFromContext(c), req.ContentType)
	if err != nil {
		respondWithServiceError(c, "request upload URL", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload godoc
// @Summary Record a finished voice clip upload
// @Tags Voice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConfirmUploadRequest true "Uploaded object"
// @Success 201 {object} domain.VoiceClip
// @Router /voice/clips [post]
func (h *VoiceHandler) ConfirmUpload(c *gin.Context) {
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clip, err := h.voiceService.ConfirmUpload(c.Request.Context(), ownerFromContext(c), req.ObjectKey, req.ContentType, req.Size)
	if err != nil {
		respondWithServiceError(c, "confirm upload", err)
		return
	}
	c.JSON(http.StatusCreated, clip)
}

// GetDownloadURL godoc
// @Summary Get a presigned URL for playing back a voice clip
// @Tags Voice
// @Produce json
// @Security BearerAuth
// @Param id path string true "Clip ID"
// @Success 200 {object} DownloadURLResponse
// @Router /voice/clips/{id} [get]
func (h *VoiceHandler) GetDownloadURL(c *gin.Context) {
	url, err := h.voiceService.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithServiceError(c, "generate download URL", err)
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: url})
}

// DeleteClip godoc
// @Summary Delete a voice clip and its object
// @Tags Voice
// @Security BearerAuth
// @Param id path string true "Clip ID"
// @Success 204
// @Router /voice/clips/{id} [delete]
func (h *VoiceHandler) DeleteClip(c *gin.Context) {
	if err := h.voiceService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWithServiceError(c, "delete voice clip", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownerFromContext names clips after the key label, or the role when unlabeled.
func ownerFromContext(c *gin.Context) string {
	if label := getLabelFromContext(c); label != "" {
		return label
	}
	role, _ := getRoleFromContext(c)
	return string(role)
}
