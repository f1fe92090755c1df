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

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// GetDetail 获取媒体详情
// @Summary 获取媒体详情
// @Description 获取媒体镜像详情，附带收藏/观看统计；镜像缺失时自动从外部源同步
// @Tags 媒体
// @Produce json
// @Security BearerAuth
// @Param media_type path string true "媒体类型" Enums(movie, tv)
// @Param media_id path int true "外部媒体ID"
// @Success 200 {object} response.Response{data=dto.MediaDetailData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "媒体不存在"
// @Failure 502 {object} response.ErrorResponse "媒体同步失败"
// @Router /media/{media_type}/{media_id} [get]
func (h *MediaHandler) GetDetail(c *gin.Context) {
	mediaType := c.Param("media_type")
	mediaID, ok := parseIDParam(c, "media_id")
	if !ok {
		response.BadRequest(c, "无效的媒体ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.mediaService.GetDetail(c.Request.Context(), userID, mediaType, mediaID)
	if err != nil {
		handleMediaError(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// SearchRemote 搜索外部元数据源
// @Summary 搜索外部元数据源
// @Description 按关键词搜索外部影视元数据（结果有短期缓存），仅返回电影与剧集
// @Tags 媒体
// @Produce json
// @Security BearerAuth
// @Param q query string true "搜索关键词"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=dto.RemoteSearchData} "搜索成功"
// @Router /media/remote-search [get]
func (h *MediaHandler) SearchRemote(c *gin.Context) {
	var req dto.RemoteSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}

	data, err := h.mediaService.SearchRemote(c.Request.Context(), req.Q, req.Page)
	if err != nil {
		logger.Error("Remote media search failed",
			zap.String("query", req.Q), zap.Error(err))
		response.Fail(c, 502, "BadGateway", "元数据源暂时不可用，请稍后重试")
		return
	}

	response.OK(c, "搜索成功", data)
}

// Sync 手动同步媒体镜像
// @Summary 手动同步媒体镜像
// @Description 立即从外部元数据源刷新本地镜像（绕过详情缓存，幂等）
// @Tags 媒体
// @Produce json
// @Security BearerAuth
// @Param media_type path string true "媒体类型" Enums(movie, tv)
// @Param media_id path int true "外部媒体ID"
// @Success 200 {object} response.Response "同步成功"
// @Failure 404 {object} response.ErrorResponse "媒体不存在"
// @Failure 502 {object} response.ErrorResponse "媒体同步失败"
// @Router /media/{media_type}/{media_id}/sync [post]
func (h *MediaHandler) Sync(c *gin.Context) {
	mediaType := c.Param("media_type")
	mediaID, ok := parseIDParam(c, "media_id")
	if !ok {
		response.BadRequest(c, "无效的媒体ID")
		return
	}

	if err := h.mediaService.ForceSync(c.Request.Context(), mediaType, mediaID); err != nil {
		handleMediaError(c, err)
		return
	}

	response.OK(c, "同步成功", nil)
}

func handleMediaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMediaNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidMediaType):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrMediaSyncFailed):
		response.Fail(c, 502, "BadGateway", err.Error())
	default:
		logger.Error("Media operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
