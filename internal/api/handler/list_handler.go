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

type ListHandler struct {
	listService *service.ListService
}

func NewListHandler(listService *service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

// Create 创建片单
// @Summary 创建片单
// @Tags 片单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ListCreateRequest true "片单信息"
// @Success 201 {object} response.Response{data=dto.ListInfo} "创建成功"
// @Router /lists [post]
func (h *ListHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.ListCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	info, err := h.listService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleListError(c, err)
		return
	}

	response.Created(c, "创建成功", info)
}

// Get 获取片单详情
// @Summary 获取片单详情
// @Description 获取片单及其按序排列的条目；私有片单仅本人可见
// @Tags 片单
// @Produce json
// @Security BearerAuth
// @Param list_id path int true "片单ID"
// @Success 200 {object} response.Response{data=dto.ListInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "片单不存在"
// @Router /lists/{list_id} [get]
func (h *ListHandler) Get(c *gin.Context) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		response.BadRequest(c, "无效的片单ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	info, err := h.listService.Get(c.Request.Context(), userID, listID)
	if err != nil {
		handleListError(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// Update 更新片单
// @Summary 更新片单
// @Tags 片单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param list_id path int true "片单ID"
// @Param request body dto.ListUpdateRequest true "更新内容"
// @Success 200 {object} response.Response{data=dto.ListInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "无权操作"
// @Router /lists/{list_id} [patch]
func (h *ListHandler) Update(c *gin.Context) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		response.BadRequest(c, "无效的片单ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.ListUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	info, err := h.listService.Update(c.Request.Context(), userID, listID, &req)
	if err != nil {
		handleListError(c, err)
		return
	}

	response.OK(c, "更新成功", info)
}

// Delete 删除片单
// @Summary 删除片单
// @Tags 片单
// @Produce json
// @Security BearerAuth
// @Param list_id path int true "片单ID"
// @Success 200 {object} response.Response "删除成功"
// @Router /lists/{list_id} [delete]
func (h *ListHandler) Delete(c *gin.Context) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		response.BadRequest(c, "无效的片单ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.listService.Delete(c.Request.Context(), userID, listID); err != nil {
		handleListError(c, err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// ListByUser 获取用户的片单列表
// @Summary 获取用户的片单列表
// @Description 查看他人时仅返回公开片单
// @Tags 片单
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.ListListData} "获取成功"
// @Router /users/{user_id}/lists [get]
func (h *ListHandler) ListByUser(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	viewerID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	data, err := h.listService.ListByUser(c.Request.Context(), viewerID, ownerID, page, pageSize)
	if err != nil {
		logger.Error("List user lists failed",
			zap.Int64("user_id", ownerID), zap.Error(err))
		response.InternalError(c, "获取片单列表失败")
		return
	}

	response.OK(c, "获取成功", data)
}

// AddItem 向片单添加媒体
// @Summary 向片单添加媒体
// @Tags 片单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param list_id path int true "片单ID"
// @Param request body dto.ListItemRequest true "媒体信息"
// @Success 201 {object} response.Response{data=dto.ListItemInfo} "添加成功"
// @Failure 400 {object} response.ErrorResponse "媒体已在片单中"
// @Router /lists/{list_id}/items [post]
func (h *ListHandler) AddItem(c *gin.Context) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		response.BadRequest(c, "无效的片单ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.ListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	item, err := h.listService.AddItem(c.Request.Context(), userID, listID, &req)
	if err != nil {
		handleListError(c, err)
		return
	}

	response.Created(c, "添加成功", item)
}

// RemoveItem 从片单删除媒体
// @Summary 从片单删除媒体
// @Tags 片单
// @Produce json
// @Security BearerAuth
// @Param list_id path int true "片单ID"
// @Param media_type path string true "媒体类型" Enums(movie, tv)
// @Param media_id path int true "外部媒体ID"
// @Success 200 {object} response.Response "删除成功"
// @Router /lists/{list_id}/items/{media_type}/{media_id} [delete]
func (h *ListHandler) RemoveItem(c *gin.Context) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		response.BadRequest(c, "无效的片单ID")
		return
	}
	mediaID, ok := parseIDParam(c, "media_id")
	if !ok {
		response.BadRequest(c, "无效的媒体ID")
		return
	}
	mediaType := c.Param("media_type")

	userID, _ := middleware.GetCurrentUserID(c)

	if err := h.listService.RemoveItem(c.Request.Context(), userID, listID, mediaType, mediaID); err != nil {
		handleListError(c, err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// Reorder 重排片单条目
// @Summary 重排片单条目
// @Description 按给定的条目 ID 顺序重排整个片单
// @Tags 片单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param list_id path int true "片单ID"
// @Param request body dto.ListReorderRequest true "条目ID顺序"
// @Success 200 {object} response.Response "重排成功"
// @Router /lists/{list_id}/reorder [put]
func (h *ListHandler) Reorder(c *gin.Context) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		response.BadRequest(c, "无效的片单ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.ListReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	if err := h.listService.Reorder(c.Request.Context(), userID, listID, &req); err != nil {
		handleListError(c, err)
		return
	}

	response.OK(c, "重排成功", nil)
}

func handleListError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrListNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrListNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrListItemExists),
		errors.Is(err, service.ErrListItemMissing),
		errors.Is(err, service.ErrInvalidMediaType):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrMediaNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrMediaSyncFailed):
		response.Fail(c, 502, "BadGateway", err.Error())
	default:
		logger.Error("List operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
