package handler

import (
	"github.com/Thanhbi2612/Dreamlens/internal/config"
	"github.com/Thanhbi2612/Dreamlens/internal/dto"
	"github.com/Thanhbi2612/Dreamlens/internal/middleware"
	"github.com/Thanhbi2612/Dreamlens/internal/service"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ImageHandler image generation endpoints
type ImageHandler struct {
	imageService *service.ImageService
	dreamService *service.DreamService
	imageCfg     *config.ImageConfig
	logger       logrus.FieldLogger
}

// NewImageHandler creates the image handler
func NewImageHandler(imageService *service.ImageService, dreamService *service.DreamService, imageCfg *config.ImageConfig, logger logrus.FieldLogger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		dreamService: dreamService,
		imageCfg:     imageCfg,
		logger:       logger,
	}
}

// GenerateImage renders an image for one of the user's dreams
// @Summary Generate image
// @Tags images
// @Accept json
// @Produce json
// @Param request body dto.GenerateImageRequest true "prompt"
// @Success 201 {object} dto.ImageGenerationResponse
// @Router /api/images/generate [post]
func (h *ImageHandler) GenerateImage(c *gin.Context) {
	var req dto.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	userID, _ := middleware.GetUserID(c)

	if err := h.dreamService.Exists(ctx, req.DreamID, userID); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	resp, err := h.imageService.Generate(ctx, userID, &service.GenerateInput{
		Prompt:         req.Prompt,
		DreamID:        req.DreamID,
		NegativePrompt: req.NegativePrompt,
	})
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.Created(c, resp)
}

// MyImages lists the user's latest images
func (h *ImageHandler) MyImages(c *gin.Context) {
	var q dto.ListImagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	images, err := h.imageService.ListMine(c.Request.Context(), userID, q.Limit)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.OK(c, images)
}

// TestConnection reports whether the image API is configured
func (h *ImageHandler) TestConnection(c *gin.Context) {
	utils.OK(c, service.ConnectionStatus(h.imageCfg))
}
