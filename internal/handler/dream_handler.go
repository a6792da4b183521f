package handler

import (
	"net/http"

	"github.com/Thanhbi2612/Dreamlens/internal/dto"
	"github.com/Thanhbi2612/Dreamlens/internal/middleware"
	"github.com/Thanhbi2612/Dreamlens/internal/service"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DreamHandler dream endpoints
type DreamHandler struct {
	dreamService   *service.DreamService
	accountService *service.AccountService
	logger         logrus.FieldLogger
}

// NewDreamHandler creates the dream handler
func NewDreamHandler(dreamService *service.DreamService, accountService *service.AccountService, logger logrus.FieldLogger) *DreamHandler {
	return &DreamHandler{
		dreamService:   dreamService,
		accountService: accountService,
		logger:         logger,
	}
}

// CreateDream starts a dream
// @Summary Create dream
// @Tags dreams
// @Accept json
// @Produce json
// @Param request body dto.CreateDreamRequest true "dream"
// @Success 201 {object} dto.DreamResponse
// @Router /api/dreams [post]
func (h *DreamHandler) CreateDream(c *gin.Context) {
	var req dto.CreateDreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	dream, err := h.dreamService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.Created(c, dto.NewDreamResponse(dream))
}

// ListDreams returns a page of dreams
// @Summary List dreams
// @Tags dreams
// @Produce json
// @Param include_archived query bool false "include archived"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {object} dto.DreamsPaginatedResponse
// @Router /api/dreams [get]
func (h *DreamHandler) ListDreams(c *gin.Context) {
	var q dto.ListDreamsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	page, err := h.dreamService.List(c.Request.Context(), userID, q.IncludeArchived, q.Page, q.Limit)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.OK(c, page)
}

// GetDream returns a dream with its images
func (h *DreamHandler) GetDream(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	dream, err := h.dreamService.Get(c.Request.Context(), id, userID)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.OK(c, dto.NewDreamDetailResponse(dream))
}

// UpdateDream applies a partial update
func (h *DreamHandler) UpdateDream(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	var req dto.UpdateDreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	dream, err := h.dreamService.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.OK(c, dto.NewDreamResponse(dream))
}

// TogglePin flips the pinned flag
func (h *DreamHandler) TogglePin(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	dream, err := h.dreamService.TogglePin(c.Request.Context(), id, userID)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.OK(c, dto.NewDreamResponse(dream))
}

// DeleteDream removes a dream and its images
func (h *DreamHandler) DeleteDream(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	if err := h.dreamService.Delete(c.Request.Context(), id, userID); err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAllDreams removes every dream and image of the current user
func (h *DreamHandler) DeleteAllDreams(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	resp, err := h.accountService.DeleteAllDreams(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}

	utils.OK(c, resp)
}
