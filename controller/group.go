package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/meetup_hub/middleware"
	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/models/vo"
	"github.com/Xushengqwer/meetup_hub/service/group"
)

// GroupController 处理群组（俱乐部与闪电聚会）管理的 HTTP 请求。
// 两种群组共用同一组路由，由 :type 路径参数区分。
type GroupController struct {
	groupService group.GroupService // 群组管理服务的实例
	logger       *core.ZapLogger    // 日志记录器
}

// NewGroupController 创建一个新的 GroupController 实例。
func NewGroupController(groupService group.GroupService, logger *core.ZapLogger) *GroupController {
	return &GroupController{
		groupService: groupService,
		logger:       logger,
	}
}

// parseGroupPath 解析 :type 与 :groupID 路径参数。解析失败时已写入响应。
func parseGroupPath(c *gin.Context) (enums.GroupType, uint, bool) {
	groupType, err := enums.GroupTypeFromString(c.Param("type"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
		return "", 0, false
	}
	groupID, err := strconv.ParseUint(c.Param("groupID"), 10, 32)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的群组 ID")
		return "", 0, false
	}
	return groupType, uint(groupID), true
}

// parseGroupType 只解析 :type 路径参数。
func parseGroupType(c *gin.Context) (enums.GroupType, bool) {
	groupType, err := enums.GroupTypeFromString(c.Param("type"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
		return "", false
	}
	return groupType, true
}

// respondGroupError 将群组管理的业务错误映射为 HTTP 响应。
func (ctrl *GroupController) respondGroupError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, group.ErrGroupNotFound):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, err.Error())
	case errors.Is(err, group.ErrNotOwner):
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientForbidden, err.Error())
	case errors.Is(err, group.ErrGroupNameTaken):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, err.Error())
	case errors.Is(err, group.ErrBadTimeFormat):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
	default:
		ctrl.logger.Error("群组服务返回系统错误",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
	}
}

// CreateHandler 创建群组，创建者自动成为管理员。
// @Summary 创建群组
// @Description 创建俱乐部或闪电聚会。俱乐部请求体为 CreateClubData，闪电聚会为 CreateThunderData（须含 RFC3339 聚会时间）。
// @Tags 群组管理
// @Accept json
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Success 200 {object} docs.SwaggerAPICreatedGroupResponse "创建成功，返回群组 ID"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数无效"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未认证"
// @Failure 409 {object} docs.SwaggerAPIErrorResponseString "同类型下已存在同名群组"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/groups/{type} [post]
func (ctrl *GroupController) CreateHandler(c *gin.Context) {
	const operation = "GroupController.CreateHandler"

	groupType, ok := parseGroupType(c)
	if !ok {
		return
	}
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	var (
		created *vo.CreatedGroup
		err     error
	)
	switch groupType {
	case enums.GroupTypeClub:
		var data dto.CreateClubData
		if bindErr := c.ShouldBindJSON(&data); bindErr != nil {
			ctrl.logger.Warn("创建俱乐部请求参数绑定失败",
				zap.String("operation", operation),
				zap.Error(bindErr),
			)
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
			return
		}
		created, err = ctrl.groupService.CreateClub(c.Request.Context(), member.MemberID, &data)
	case enums.GroupTypeThunder:
		var data dto.CreateThunderData
		if bindErr := c.ShouldBindJSON(&data); bindErr != nil {
			ctrl.logger.Warn("创建闪电聚会请求参数绑定失败",
				zap.String("operation", operation),
				zap.Error(bindErr),
			)
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
			return
		}
		created, err = ctrl.groupService.CreateThunder(c.Request.Context(), member.MemberID, &data)
	}
	if err != nil {
		ctrl.respondGroupError(c, operation, err)
		return
	}

	response.RespondSuccess(c, created, "创建成功")
}

// ListHandler 按类型列出群组。
// @Summary 群组列表
// @Description 按类型列出群组，支持分类、地区、日期（仅闪电聚会）筛选。
// @Tags 群组管理
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Param category query string false "分类"
// @Param region query string false "地区"
// @Param date query string false "聚会日期，格式 2006-01-02，仅闪电聚会有效"
// @Success 200 {object} docs.SwaggerAPIGroupListResponse "群组列表"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数无效"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/meetup-hub/groups/{type} [get]
func (ctrl *GroupController) ListHandler(c *gin.Context) {
	const operation = "GroupController.ListHandler"

	groupType, ok := parseGroupType(c)
	if !ok {
		return
	}
	var query dto.GroupListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	summaries, err := ctrl.groupService.ListGroups(c.Request.Context(), groupType, &query)
	if err != nil {
		ctrl.respondGroupError(c, operation, err)
		return
	}
	response.RespondSuccess(c, summaries, "查询成功")
}

// DetailHandler 查看群组详情。
// @Summary 群组详情
// @Tags 群组管理
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Param groupID path int true "群组 ID"
// @Success 200 {object} docs.SwaggerAPIGroupDetailResponse "群组详情"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "群组不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/meetup-hub/groups/{type}/{groupID} [get]
func (ctrl *GroupController) DetailHandler(c *gin.Context) {
	const operation = "GroupController.DetailHandler"

	groupType, groupID, ok := parseGroupPath(c)
	if !ok {
		return
	}

	detail, err := ctrl.groupService.GetGroupDetail(c.Request.Context(), groupType, groupID)
	if err != nil {
		ctrl.respondGroupError(c, operation, err)
		return
	}
	response.RespondSuccess(c, detail, "查询成功")
}

// ModifyHandler 修改群组信息，仅创建者可操作。
// @Summary 修改群组
// @Tags 群组管理
// @Accept json
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Param groupID path int true "群组 ID"
// @Param body body dto.ModifyGroupData true "待更新的字段，零值字段不更新"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "修改成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "仅创建者可操作"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "群组不存在"
// @Failure 409 {object} docs.SwaggerAPIErrorResponseString "同类型下已存在同名群组"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/groups/{type}/{groupID} [put]
func (ctrl *GroupController) ModifyHandler(c *gin.Context) {
	const operation = "GroupController.ModifyHandler"

	groupType, groupID, ok := parseGroupPath(c)
	if !ok {
		return
	}
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	var data dto.ModifyGroupData
	if err := c.ShouldBindJSON(&data); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	if err := ctrl.groupService.ModifyGroup(c.Request.Context(), groupType, groupID, member.MemberID, &data); err != nil {
		ctrl.respondGroupError(c, operation, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "修改成功")
}

// DeleteHandler 解散群组，仅创建者可操作。
// @Summary 解散群组
// @Tags 群组管理
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Param groupID path int true "群组 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "解散成功"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "仅创建者可操作"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "群组不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/groups/{type}/{groupID} [delete]
func (ctrl *GroupController) DeleteHandler(c *gin.Context) {
	const operation = "GroupController.DeleteHandler"

	groupType, groupID, ok := parseGroupPath(c)
	if !ok {
		return
	}
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	if err := ctrl.groupService.DeleteGroup(c.Request.Context(), groupType, groupID, member.MemberID); err != nil {
		ctrl.respondGroupError(c, operation, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "解散成功")
}

// RegisterPublicRoutes 注册无需登录的群组路由。
func (ctrl *GroupController) RegisterPublicRoutes(group *gin.RouterGroup) {
	group.GET("/groups/:type", ctrl.ListHandler)
	group.GET("/groups/:type/:groupID", ctrl.DetailHandler)
}

// RegisterProtectedRoutes 注册需要登录的群组路由。
func (ctrl *GroupController) RegisterProtectedRoutes(group *gin.RouterGroup) {
	group.POST("/groups/:type", ctrl.CreateHandler)
	group.PUT("/groups/:type/:groupID", ctrl.ModifyHandler)
	group.DELETE("/groups/:type/:groupID", ctrl.DeleteHandler)
}
