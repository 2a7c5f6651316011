package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/meetup_hub/middleware"
	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/vo"
	"github.com/Xushengqwer/meetup_hub/service/group"
	"github.com/Xushengqwer/meetup_hub/service/membership"
)

// MembershipController 处理成员资格相关的 HTTP 请求：
// 加入、退出、名册、审批与踢出。
type MembershipController struct {
	membershipService membership.MembershipService // 成员资格服务的实例
	logger            *core.ZapLogger              // 日志记录器
}

// NewMembershipController 创建一个新的 MembershipController 实例。
func NewMembershipController(membershipService membership.MembershipService, logger *core.ZapLogger) *MembershipController {
	return &MembershipController{
		membershipService: membershipService,
		logger:            logger,
	}
}

// respondMembershipError 将成员资格的业务错误映射为 HTTP 响应。
func (ctrl *MembershipController) respondMembershipError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, group.ErrGroupNotFound), errors.Is(err, membership.ErrMembershipNotFound):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, err.Error())
	case errors.Is(err, membership.ErrAlreadyJoined):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, err.Error())
	case errors.Is(err, membership.ErrNotAuthorized):
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientForbidden, err.Error())
	case errors.Is(err, membership.ErrNotPending),
		errors.Is(err, membership.ErrNotApproved),
		errors.Is(err, membership.ErrSelfTarget),
		errors.Is(err, membership.ErrUnknownAction):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
	default:
		ctrl.logger.Error("成员资格服务返回系统错误",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
	}
}

// JoinHandler 申请加入群组。
// @Summary 加入群组
// @Description 俱乐部的申请进入待审批状态，闪电聚会直接加入成功。重复申请返回 409。
// @Tags 成员资格
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Param groupID path int true "群组 ID"
// @Success 200 {object} docs.SwaggerAPIJoinResponse "受理成功，返回成员状态 (pending / approved)"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "群组不存在"
// @Failure 409 {object} docs.SwaggerAPIErrorResponseString "已提交过申请或已是成员"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/groups/{type}/{groupID}/join [post]
func (ctrl *MembershipController) JoinHandler(c *gin.Context) {
	const operation = "MembershipController.JoinHandler"

	groupType, groupID, ok := parseGroupPath(c)
	if !ok {
		return
	}
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	status, err := ctrl.membershipService.Join(c.Request.Context(), groupType, groupID, member.MemberID)
	if err != nil {
		ctrl.respondMembershipError(c, operation, err)
		return
	}
	response.RespondSuccess(c, gin.H{"status": status}, "加入请求已受理")
}

// LeaveHandler 主动退出群组。
// @Summary 退出群组
// @Description 删除本人的成员行。没有成员行（含重复退出）返回 404。
// @Tags 成员资格
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Param groupID path int true "群组 ID"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "退出成功"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "群组或成员资格不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/groups/{type}/{groupID}/leave [delete]
func (ctrl *MembershipController) LeaveHandler(c *gin.Context) {
	const operation = "MembershipController.LeaveHandler"

	groupType, groupID, ok := parseGroupPath(c)
	if !ok {
		return
	}
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	if err := ctrl.membershipService.Leave(c.Request.Context(), groupType, groupID, member.MemberID); err != nil {
		ctrl.respondMembershipError(c, operation, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "退出成功")
}

// MembersHandler 查看群组成员名册，需要管理权限。
// @Summary 成员名册
// @Tags 成员资格
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Param groupID path int true "群组 ID"
// @Success 200 {object} docs.SwaggerAPIMemberListResponse "成员名册"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "没有管理权限"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "群组不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/groups/{type}/{groupID}/members [get]
func (ctrl *MembershipController) MembersHandler(c *gin.Context) {
	const operation = "MembershipController.MembersHandler"

	groupType, groupID, ok := parseGroupPath(c)
	if !ok {
		return
	}
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	items, err := ctrl.membershipService.ListMembers(c.Request.Context(), groupType, groupID, member.MemberID)
	if err != nil {
		ctrl.respondMembershipError(c, operation, err)
		return
	}
	response.RespondSuccess(c, items, "查询成功")
}

// ManageHandler 管理员审批或调整成员。
// @Summary 管理成员资格
// @Description 对成员行执行 approve / reject / promote / demote。approve 与 reject 仅对待审批行生效。
// @Tags 成员资格
// @Accept json
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Param groupID path int true "群组 ID"
// @Param body body dto.ManageMemberData true "目标成员与操作"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "操作成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "目标行不在期望状态，或对自己操作"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "没有管理权限"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "群组不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/groups/{type}/{groupID}/manage [post]
func (ctrl *MembershipController) ManageHandler(c *gin.Context) {
	const operation = "MembershipController.ManageHandler"

	groupType, groupID, ok := parseGroupPath(c)
	if !ok {
		return
	}
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	var data dto.ManageMemberData
	if err := c.ShouldBindJSON(&data); err != nil {
		ctrl.logger.Warn("管理成员请求参数绑定失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	if err := ctrl.membershipService.Manage(c.Request.Context(), groupType, groupID, member.MemberID, &data); err != nil {
		ctrl.respondMembershipError(c, operation, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "操作成功")
}

// BanHandler 管理员踢出成员。
// @Summary 踢出成员
// @Description 删除目标成员的成员行，之后允许其重新申请加入。
// @Tags 成员资格
// @Accept json
// @Produce json
// @Param type path string true "群组类型" Enums(club, thunder)
// @Param groupID path int true "群组 ID"
// @Param body body dto.BanMemberData true "目标成员"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "踢出成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "对自己操作"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "没有管理权限"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "群组或成员资格不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/groups/{type}/{groupID}/ban [post]
func (ctrl *MembershipController) BanHandler(c *gin.Context) {
	const operation = "MembershipController.BanHandler"

	groupType, groupID, ok := parseGroupPath(c)
	if !ok {
		return
	}
	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	var data dto.BanMemberData
	if err := c.ShouldBindJSON(&data); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	if err := ctrl.membershipService.Ban(c.Request.Context(), groupType, groupID, member.MemberID, data.MemberID); err != nil {
		ctrl.respondMembershipError(c, operation, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "踢出成功")
}

// MyGroupsHandler 查看本人加入的全部群组。
// @Summary 我的群组
// @Tags 成员资格
// @Produce json
// @Success 200 {object} docs.SwaggerAPIMyGroupListResponse "我的群组列表"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未认证"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/members/me/groups [get]
func (ctrl *MembershipController) MyGroupsHandler(c *gin.Context) {
	const operation = "MembershipController.MyGroupsHandler"

	member, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	items, err := ctrl.membershipService.ListMyGroups(c.Request.Context(), member.MemberID)
	if err != nil {
		ctrl.respondMembershipError(c, operation, err)
		return
	}
	response.RespondSuccess(c, items, "查询成功")
}

// RegisterRoutes 注册成员资格相关的路由，全部需要登录。
func (ctrl *MembershipController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/groups/:type/:groupID/join", ctrl.JoinHandler)
	group.DELETE("/groups/:type/:groupID/leave", ctrl.LeaveHandler)
	group.GET("/groups/:type/:groupID/members", ctrl.MembersHandler)
	group.POST("/groups/:type/:groupID/manage", ctrl.ManageHandler)
	group.POST("/groups/:type/:groupID/ban", ctrl.BanHandler)
	group.GET("/members/me/groups", ctrl.MyGroupsHandler)
}
