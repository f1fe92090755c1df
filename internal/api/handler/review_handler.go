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

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create 创建观影记录
// @Summary 创建观影记录
// @Description 记录一次观影：评分、评论、观看日期、同行提及，可附带一张图片附件（字段名 attachment）
// @Tags 观影记录
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param media_type formData string true "媒体类型" Enums(movie, tv)
// @Param media_id formData int true "外部媒体ID"
// @Param rating formData number true "评分 0-5"
// @Param content formData string false "影评内容"
// @Param watched_on formData string true "观看日期 YYYY-MM-DD"
// @Param spoiler formData bool false "是否剧透"
// @Param viewing_method formData string false "观看方式"
// @Param viewing_service formData string false "观看平台"
// @Param watched_with formData []int false "同行用户ID列表"
// @Param attachment formData file false "图片附件（最大 5MB）"
// @Success 201 {object} response.Response{data=dto.ReviewInfo} "创建成功"
// @Failure 400 {object} response.ErrorResponse "附件不符合要求"
// @Failure 502 {object} response.ErrorResponse "媒体同步失败"
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.ReviewCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	var attachment *service.ReviewAttachment
	if fileHeader, err := c.FormFile("attachment"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.BadRequest(c, "附件文件读取失败")
			return
		}
		defer file.Close()

		attachment = &service.ReviewAttachment{
			Reader:      file,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Filename:    fileHeader.Filename,
		}
	}

	info, err := h.reviewService.Create(c.Request.Context(), userID, &req, attachment)
	if err != nil {
		handleReviewError(c, err)
		return
	}

	response.Created(c, "创建成功", info)
}

// Get 获取观影记录详情
// @Summary 获取观影记录详情
// @Tags 观影记录
// @Produce json
// @Security BearerAuth
// @Param review_id path int true "记录ID"
// @Success 200 {object} response.Response{data=dto.ReviewInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "记录不存在"
// @Router /reviews/{review_id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		response.BadRequest(c, "无效的记录ID")
		return
	}

	info, err := h.reviewService.Get(c.Request.Context(), reviewID)
	if err != nil {
		handleReviewError(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// Delete 删除观影记录
// @Summary 删除观影记录
// @Description 删除自己的观影记录，重看计数随之回退
// @Tags 观影记录
// @Produce json
// @Security BearerAuth
// @Param review_id path int true "记录ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权操作"
// @Failure 404 {object} response.ErrorResponse "记录不存在"
// @Router /reviews/{review_id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		response.BadRequest(c, "无效的记录ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.reviewService.Delete(c.Request.Context(), userID, reviewID); err != nil {
		handleReviewError(c, err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// ListByUser 获取用户的观影日记
// @Summary 获取用户的观影日记
// @Description 按观看日期倒序返回指定用户的观影记录
// @Tags 观影记录
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.ReviewListData} "获取成功"
// @Router /users/{user_id}/reviews [get]
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.reviewService.ListByUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		logger.Error("List user reviews failed",
			zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "获取观影记录失败")
		return
	}

	response.OK(c, "获取成功", data)
}

// ListMy 获取我的观影日记
// @Summary 获取我的观影日记
// @Tags 观影记录
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.ReviewListData} "获取成功"
// @Router /reviews/my [get]
func (h *ReviewHandler) ListMy(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	data, err := h.reviewService.ListByUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		logger.Error("List my reviews failed",
			zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "获取观影记录失败")
		return
	}

	response.OK(c, "获取成功", data)
}

// ListByMedia 获取媒体下的观影记录
// @Summary 获取媒体下的观影记录
// @Tags 观影记录
// @Produce json
// @Security BearerAuth
// @Param media_type path string true "媒体类型" Enums(movie, tv)
// @Param media_id path int true "外部媒体ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.ReviewListData} "获取成功"
// @Router /media/{media_type}/{media_id}/reviews [get]
func (h *ReviewHandler) ListByMedia(c *gin.Context) {
	mediaType := c.Param("media_type")
	mediaID, ok := parseIDParam(c, "media_id")
	if !ok {
		response.BadRequest(c, "无效的媒体ID")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.reviewService.ListByMedia(c.Request.Context(), mediaType, mediaID, page, pageSize)
	if err != nil {
		handleReviewError(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

func handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrReviewNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrMediaNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidMediaType),
		errors.Is(err, service.ErrInvalidWatchedOn),
		errors.Is(err, service.ErrAttachmentTooLarge),
		errors.Is(err, service.ErrAttachmentBadType):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrMediaSyncFailed):
		response.Fail(c, 502, "BadGateway", err.Error())
	default:
		logger.Error("Review operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
