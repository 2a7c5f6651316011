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
	"github.com/Xushengqwer/meetup_hub/service/member"
)

// MemberController 处理会员本人资料与注销的 HTTP 请求。
type MemberController struct {
	memberService member.MemberService // 会员资料服务的实例
	logger        *core.ZapLogger      // 日志记录器
}

// NewMemberController 创建一个新的 MemberController 实例。
func NewMemberController(memberService member.MemberService, logger *core.ZapLogger) *MemberController {
	return &MemberController{
		memberService: memberService,
		logger:        logger,
	}
}

// respondMemberError 将会员资料的业务错误映射为 HTTP 响应。
func (ctrl *MemberController) respondMemberError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, member.ErrMemberNotFound):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, err.Error())
	case errors.Is(err, member.ErrNicknameTaken):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, err.Error())
	default:
		ctrl.logger.Error("会员资料服务返回系统错误",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
	}
}

// ProfileHandler 查看本人资料。
// @Summary 本人资料
// @Tags 会员资料
// @Produce json
// @Success 200 {object} docs.SwaggerAPIProfileResponse "本人资料"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未认证"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "会员不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/members/me [get]
func (ctrl *MemberController) ProfileHandler(c *gin.Context) {
	const operation = "MemberController.ProfileHandler"

	authed, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	profile, err := ctrl.memberService.GetProfile(c.Request.Context(), authed.MemberID)
	if err != nil {
		ctrl.respondMemberError(c, operation, err)
		return
	}
	response.RespondSuccess(c, profile, "查询成功")
}

// UpdateProfileHandler 更新本人资料。
// @Summary 更新本人资料
// @Tags 会员资料
// @Accept json
// @Produce json
// @Param body body dto.UpdateProfileData true "待更新的字段，零值字段不更新"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "更新成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数无效"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未认证"
// @Failure 409 {object} docs.SwaggerAPIErrorResponseString "昵称已被占用"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/members/me [put]
func (ctrl *MemberController) UpdateProfileHandler(c *gin.Context) {
	const operation = "MemberController.UpdateProfileHandler"

	authed, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	var data dto.UpdateProfileData
	if err := c.ShouldBindJSON(&data); err != nil {
		ctrl.logger.Warn("更新资料请求参数绑定失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	if err := ctrl.memberService.UpdateProfile(c.Request.Context(), authed.MemberID, &data); err != nil {
		ctrl.respondMemberError(c, operation, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "更新成功")
}

// WithdrawHandler 注销本人账号。
// @Summary 注销账号
// @Description 删除本人的成员关系、第三方身份与会员记录。本人创建的群组保留。
// @Tags 会员资料
// @Produce json
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "注销成功"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未认证"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Security SessionAuth
// @Router /api/v1/meetup-hub/members/me [delete]
func (ctrl *MemberController) WithdrawHandler(c *gin.Context) {
	const operation = "MemberController.WithdrawHandler"

	authed, ok := middleware.CurrentMember(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
		return
	}

	if err := ctrl.memberService.Withdraw(c.Request.Context(), authed.MemberID); err != nil {
		ctrl.respondMemberError(c, operation, err)
		return
	}
	response.RespondSuccess(c, vo.Empty{}, "注销成功")
}

// RegisterRoutes 注册会员资料相关的路由，全部需要登录。
func (ctrl *MemberController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/members/me", ctrl.ProfileHandler)
	group.PUT("/members/me", ctrl.UpdateProfileHandler)
	group.DELETE("/members/me", ctrl.WithdrawHandler)
}
