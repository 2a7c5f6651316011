package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/meetup_hub/config"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/models/vo"
	"github.com/Xushengqwer/meetup_hub/service/login/oAuth"
)

// SocialController 处理第三方（Google/Kakao/Naver）登录的 HTTP 请求。
type SocialController struct {
	socialService oAuth.SocialLoginService // 第三方登录服务的实例
	logger        *core.ZapLogger          // 日志记录器
	cookieConfig  config.CookieConfig      // Cookie 配置
}

// NewSocialController 创建一个新的 SocialController 实例。
func NewSocialController(
	socialService oAuth.SocialLoginService,
	logger *core.ZapLogger,
	cookieCfg config.CookieConfig,
) *SocialController {
	return &SocialController{
		socialService: socialService,
		logger:        logger,
		cookieConfig:  cookieCfg,
	}
}

// BeginHandler 发起第三方登录，重定向到提供商的授权页面。
// @Summary 发起第三方登录
// @Description 生成一次性 state 并 302 重定向到对应提供商的授权页面。
// @Tags 第三方登录
// @Param provider path string true "提供商" Enums(google, kakao, naver)
// @Success 302 "重定向到提供商授权页面"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "不支持的提供商"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/meetup-hub/auth/{provider} [get]
func (ctrl *SocialController) BeginHandler(c *gin.Context) {
	const operation = "SocialController.BeginHandler"

	provider, err := enums.ProviderFromString(c.Param("provider"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
		return
	}

	authURL, err := ctrl.socialService.BeginLogin(c.Request.Context(), provider)
	if err != nil {
		if errors.Is(err, oAuth.ErrProviderNotSupported) {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
			return
		}
		ctrl.logger.Error("发起第三方登录失败",
			zap.String("operation", operation),
			zap.String("provider", string(provider)),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// CallbackHandler 处理提供商的授权回调，完成登录或自动注册。
// 回调来自浏览器跳转，会话令牌同时写入 HttpOnly Cookie 与响应体。
// @Summary 第三方登录回调
// @Description 校验一次性 state，换取提供商资料并登录（首次登录自动注册）。
// @Tags 第三方登录
// @Produce json
// @Param provider path string true "提供商" Enums(google, kakao, naver)
// @Param state query string true "发起登录时颁发的一次性随机串"
// @Param code query string true "提供商返回的授权码"
// @Success 200 {object} docs.SwaggerAPILoginResponse "登录成功，返回会员摘要及会话令牌"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "state 过期/重放，或缺少授权码"
// @Failure 502 {object} docs.SwaggerAPIErrorResponseString "提供商接口调用失败"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/meetup-hub/auth/{provider}/callback [get]
func (ctrl *SocialController) CallbackHandler(c *gin.Context) {
	const operation = "SocialController.CallbackHandler"

	provider, err := enums.ProviderFromString(c.Param("provider"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少 state 或授权码")
		return
	}

	memberInfo, sessionToken, err := ctrl.socialService.HandleCallback(c.Request.Context(), provider, state, code)
	if err != nil {
		switch {
		case errors.Is(err, oAuth.ErrStateInvalid), errors.Is(err, oAuth.ErrProviderNotSupported):
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
		case errors.Is(err, oAuth.ErrProviderUnavailable):
			ctrl.logger.Error("提供商接口调用失败",
				zap.String("operation", operation),
				zap.String("provider", string(provider)),
				zap.Error(err),
			)
			response.RespondError(c, http.StatusBadGateway, response.ErrCodeServerInternal, oAuth.ErrProviderUnavailable.Error())
		default:
			ctrl.logger.Error("第三方登录回调处理失败",
				zap.String("operation", operation),
				zap.String("provider", string(provider)),
				zap.Error(err),
			)
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
		}
		return
	}

	// 回调来自浏览器，始终写入会话 Cookie
	writeSessionCookie(c, ctrl.cookieConfig, sessionToken.Token)

	ctrl.logger.Info("第三方登录回调处理成功",
		zap.String("operation", operation),
		zap.String("memberID", memberInfo.MemberID),
		zap.String("provider", string(provider)),
	)
	response.RespondSuccess(c, vo.LoginResponse{Member: memberInfo, Session: sessionToken}, "登录成功")
}

// RegisterRoutes 注册第三方登录相关的路由到指定的 Gin 路由组。
// 注意顺序: callback 路由须先于 :provider 通配路由之外单独声明。
func (ctrl *SocialController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/auth/:provider/callback", ctrl.CallbackHandler)
	group.GET("/auth/:provider", ctrl.BeginHandler)
}
