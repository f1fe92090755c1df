package handler

import (
	"errors"

	"deeperweave/internal/api/dto"
	"deeperweave/internal/api/middleware"
	"deeperweave/internal/api/response"
	"deeperweave/internal/service"
	"deeperweave/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SavedHandler struct {
	savedService *service.SavedService
}

func NewSavedHandler(savedService *service.SavedService) *SavedHandler {
	return &SavedHandler{savedService: savedService}
}

// Toggle 翻转收藏状态
// @Summary 翻转收藏状态
// @Description 收藏/取消收藏指定媒体；同一媒体上已有进行中的操作时返回 409
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param media_type path string true "媒体类型" Enums(movie, tv)
// @Param media_id path int true "外部媒体ID"
// @Success 200 {object} response.Response "操作成功"
// @Failure 409 {object} response.ErrorResponse "操作太频繁"
// @Failure 502 {object} response.ErrorResponse "媒体同步失败"
// @Router /saved/{media_type}/{media_id}/toggle [post]
func (h *SavedHandler) Toggle(c *gin.Context) {
	mediaType := c.Param("media_type")
	mediaID, ok := parseIDParam(c, "media_id")
	if !ok {
		response.BadRequest(c, "无效的媒体ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	saved, err := h.savedService.Toggle(c.Request.Context(), userID, mediaType, mediaID)
	if err != nil {
		handleSavedError(c, err)
		return
	}

	response.OK(c, "操作成功", gin.H{
		"media_type": mediaType,
		"media_id":   mediaID,
		"is_saved":   saved,
	})
}

// GetStatus 查询收藏状态
// @Summary 查询收藏状态
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param media_type path string true "媒体类型" Enums(movie, tv)
// @Param media_id path int true "外部媒体ID"
// @Success 200 {object} response.Response "查询成功"
// @Router /saved/{media_type}/{media_id}/status [get]
func (h *SavedHandler) GetStatus(c *gin.Context) {
	mediaType := c.Param("media_type")
	mediaID, ok := parseIDParam(c, "media_id")
	if !ok {
		response.BadRequest(c, "无效的媒体ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	saved, err := h.savedService.GetStatus(c.Request.Context(), userID, mediaType, mediaID)
	if err != nil {
		handleSavedError(c, err)
		return
	}

	response.OK(c, "查询成功", gin.H{
		"media_type": mediaType,
		"media_id":   mediaID,
		"is_saved":   saved,
	})
}

// ListMy 获取我的收藏列表
// @Summary 获取我的收藏列表
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.SavedListData} "获取成功"
// @Router /saved/my [get]
func (h *SavedHandler) ListMy(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	data, err := h.savedService.ListByUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		logger.Error("List saved items failed",
			zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "获取收藏列表失败")
		return
	}

	response.OK(c, "获取成功", data)
}

// BatchStatus 批量查询收藏状态
// @Summary 批量查询收藏状态
// @Description 批量查询对多个媒体的收藏状态（列表页用）
// @Tags 收藏
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BatchSavedStatusRequest true "媒体ID列表"
// @Success 200 {object} response.Response "查询成功"
// @Router /saved/batch/status [post]
func (h *SavedHandler) BatchStatus(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.BatchSavedStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	statusMap, err := h.savedService.BatchStatus(c.Request.Context(), userID, req.MediaType, req.MediaIDs)
	if err != nil {
		handleSavedError(c, err)
		return
	}

	response.OK(c, "查询成功", gin.H{
		"saved_status": statusMap,
	})
}

func handleSavedError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrToggleInFlight):
		response.Fail(c, 409, "Conflict", err.Error())
	case errors.Is(err, service.ErrInvalidMediaType):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrMediaNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrMediaSyncFailed):
		response.Fail(c, 502, "BadGateway", err.Error())
	default:
		logger.Error("Saved operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
