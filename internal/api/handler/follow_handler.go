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

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Toggle 翻转关注状态
// @Summary 翻转关注状态
// @Description 关注/取消关注指定用户；同一用户上已有进行中的操作时返回 409
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "目标用户ID"
// @Success 200 {object} response.Response{data=dto.FollowResult} "操作成功"
// @Failure 400 {object} response.ErrorResponse "不能关注自己"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Failure 409 {object} response.ErrorResponse "操作太频繁"
// @Router /follows/{user_id}/toggle [post]
func (h *FollowHandler) Toggle(c *gin.Context) {
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	result, err := h.followService.Toggle(c.Request.Context(), userID, targetID)
	if err != nil {
		handleFollowError(c, err)
		return
	}

	response.OK(c, "操作成功", result)
}

// GetStatus 查询关注状态
// @Summary 查询关注状态
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "目标用户ID"
// @Success 200 {object} response.Response "查询成功"
// @Router /follows/{user_id}/status [get]
func (h *FollowHandler) GetStatus(c *gin.Context) {
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	following, err := h.followService.GetStatus(c.Request.Context(), userID, targetID)
	if err != nil {
		handleFollowError(c, err)
		return
	}

	response.OK(c, "查询成功", gin.H{
		"user_id":      targetID,
		"is_following": following,
	})
}

// GetFollowing 获取关注列表
// @Summary 获取关注列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.FollowListData} "获取成功"
// @Router /users/{user_id}/following [get]
func (h *FollowHandler) GetFollowing(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.followService.GetFollowing(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		handleFollowError(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// GetFollowers 获取粉丝列表
// @Summary 获取粉丝列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.FollowListData} "获取成功"
// @Router /users/{user_id}/followers [get]
func (h *FollowHandler) GetFollowers(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.followService.GetFollowers(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		handleFollowError(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// GetMutual 获取互关列表
// @Summary 获取互相关注列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.FollowListData} "获取成功"
// @Router /follows/mutual [get]
func (h *FollowHandler) GetMutual(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	data, err := h.followService.GetMutualFollows(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		handleFollowError(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// BatchStatus 批量查询关注状态
// @Summary 批量查询关注状态
// @Tags 关注
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BatchFollowStatusRequest true "用户ID列表"
// @Success 200 {object} response.Response "查询成功"
// @Router /follows/batch/status [post]
func (h *FollowHandler) BatchStatus(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.BatchFollowStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	statusMap, err := h.followService.BatchStatus(c.Request.Context(), userID, req.UserIDs)
	if err != nil {
		logger.Error("Batch follow status failed", zap.Error(err))
		response.InternalError(c, "批量查询关注状态失败")
		return
	}

	response.OK(c, "查询成功", gin.H{
		"follow_status": statusMap,
	})
}

func handleFollowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCannotFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrToggleInFlight):
		response.Fail(c, 409, "Conflict", err.Error())
	default:
		logger.Error("Follow operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
