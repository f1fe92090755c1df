package handler

import (
	"deeperweave/internal/api/dto"
	"deeperweave/internal/api/response"
	"deeperweave/internal/service"
	"deeperweave/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchMedia 搜索本地媒体库
// @Summary 搜索本地媒体库
// @Description 在已镜像的媒体中搜索，优先使用全文索引，降级时走数据库模糊匹配
// @Tags 搜索
// @Produce json
// @Security BearerAuth
// @Param q query string true "搜索关键词"
// @Param media_type query string false "媒体类型筛选" Enums(movie, tv)
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.SearchMediaData} "搜索成功"
// @Router /search/media [get]
func (h *SearchHandler) SearchMedia(c *gin.Context) {
	var req dto.SearchMediaRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	data, err := h.searchService.SearchMedia(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Media search failed",
			zap.String("query", req.Q), zap.Error(err))
		response.InternalError(c, "搜索失败，请稍后重试")
		return
	}

	response.OK(c, "搜索成功", data)
}
