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

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile 获取用户公开资料
// @Summary 获取用户公开资料
// @Description 根据用户 ID 获取公开资料（不含邮箱）
// @Tags 用户
// @Produce json
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.UserInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{user_id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	info, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// GetProfileByUsername 按用户名获取用户公开资料
// @Summary 按用户名获取用户公开资料
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=dto.UserInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/by-username/{username} [get]
func (h *UserHandler) GetProfileByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.BadRequest(c, "无效的用户名")
		return
	}

	info, err := h.userService.GetProfileByUsername(c.Request.Context(), username)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// UpdateProfile 更新个人资料
// @Summary 更新个人资料
// @Description 更新昵称、简介，可同时上传头像文件（字段名 avatar）
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param display_name formData string false "昵称"
// @Param bio formData string false "个人简介"
// @Param avatar formData file false "头像文件（图片，最大 5MB）"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更新成功"
// @Failure 400 {object} response.ErrorResponse "头像格式或大小不符合要求"
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.UserUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	var avatar *service.AvatarUpload
	if fileHeader, err := c.FormFile("avatar"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.BadRequest(c, "头像文件读取失败")
			return
		}
		defer file.Close()

		avatar = &service.AvatarUpload{
			Reader:      file,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Filename:    fileHeader.Filename,
		}
	}

	info, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req, avatar)
	if err != nil {
		if errors.Is(err, service.ErrAvatarTooLarge) || errors.Is(err, service.ErrAvatarBadType) {
			response.BadRequest(c, err.Error())
			return
		}
		handleUserError(c, err)
		return
	}

	response.OK(c, "更新成功", info)
}

// CompleteOnboarding 完成初始引导
// @Summary 完成初始引导
// @Description 标记当前用户已完成初始引导（幂等）
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "操作成功"
// @Router /users/me/onboarding [post]
func (h *UserHandler) CompleteOnboarding(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.userService.CompleteOnboarding(c.Request.Context(), userID); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "操作成功", nil)
}

// ListUsers 管理员查询用户列表
// @Summary 查询用户列表
// @Description 管理员分页查询用户，可按用户名和角色筛选
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param username query string false "用户名模糊匹配"
// @Param user_role query string false "角色筛选"
// @Success 200 {object} response.Response{data=dto.UserListData} "获取成功"
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	var username, userRole *string
	if v := c.Query("username"); v != "" {
		username = &v
	}
	if v := c.Query("user_role"); v != "" {
		userRole = &v
	}

	data, err := h.userService.ListUsers(c.Request.Context(), page, pageSize, username, userRole)
	if err != nil {
		logger.Error("List users failed", zap.Error(err))
		response.InternalError(c, "获取用户列表失败")
		return
	}

	response.OK(c, "获取成功", data)
}

// DeleteUser 管理员软删除用户
// @Summary 删除用户
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response "删除成功"
// @Router /admin/users/{user_id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	if err := h.userService.SoftDeleteUser(c.Request.Context(), userID); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// RestoreUser 管理员恢复用户
// @Summary 恢复已删除用户
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response "恢复成功"
// @Router /admin/users/{user_id}/restore [post]
func (h *UserHandler) RestoreUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	if err := h.userService.RestoreUser(c.Request.Context(), userID); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "恢复成功", nil)
}

// SetUserRole 管理员设置用户角色
// @Summary 设置用户角色
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Param request body dto.UserRoleUpdateRequest true "角色信息"
// @Success 200 {object} response.Response "设置成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /admin/users/{user_id}/role [patch]
func (h *UserHandler) SetUserRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	var req dto.UserRoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	if err := h.userService.SetUserRole(c.Request.Context(), userID, req.UserRole); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "设置成功", nil)
}

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("User operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
