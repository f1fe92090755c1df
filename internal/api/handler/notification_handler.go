package handler

import (
	"errors"

	"deeperweave/internal/api/middleware"
	"deeperweave/internal/api/response"
	"deeperweave/internal/service"
	"deeperweave/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List 获取通知列表
// @Summary 获取通知列表
// @Description 获取当前用户的通知列表，附带未读数
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.NotificationListData} "获取成功"
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	data, err := h.notificationService.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		logger.Error("List notifications failed",
			zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "获取通知列表失败")
		return
	}

	response.OK(c, "获取成功", data)
}

// MarkRead 标记通知已读
// @Summary 标记通知已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param notification_id path int true "通知ID"
// @Success 200 {object} response.Response "标记成功"
// @Failure 404 {object} response.ErrorResponse "通知不存在"
// @Router /notifications/{notification_id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := parseIDParam(c, "notification_id")
	if !ok {
		response.BadRequest(c, "无效的通知ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Mark notification read failed",
			zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
		return
	}

	response.OK(c, "标记成功", nil)
}

// MarkAllRead 全部标记已读
// @Summary 全部标记已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "标记成功"
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		logger.Error("Mark all notifications read failed",
			zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
		return
	}

	response.OK(c, "标记成功", nil)
}
