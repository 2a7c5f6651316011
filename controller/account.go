package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/models/enums"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/meetup_hub/config"
	"github.com/Xushengqwer/meetup_hub/constants"
	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/vo"
	"github.com/Xushengqwer/meetup_hub/service/login/auth"
	"github.com/Xushengqwer/meetup_hub/utils"
)

// AccountController 处理与账号密码认证相关的 HTTP 请求。
// 依赖于 auth.AccountService 来执行核心业务逻辑。
type AccountController struct {
	accountService auth.AccountService // 账号密码认证服务的实例
	logger         *core.ZapLogger     // 日志记录器
	cookieConfig   config.CookieConfig // Cookie 配置
}

// NewAccountController 创建一个新的 AccountController 实例。
func NewAccountController(
	accountService auth.AccountService,
	logger *core.ZapLogger,
	cookieCfg config.CookieConfig,
) *AccountController {
	return &AccountController{
		accountService: accountService,
		logger:         logger,
		cookieConfig:   cookieCfg,
	}
}

// RegisterHandler 处理用户使用登录名和密码进行注册的请求。
// @Summary 账号密码注册
// @Description 用户通过提供登录名、密码、确认密码和昵称来创建新账户。
// @Tags 账号密码认证
// @Accept json
// @Produce json
// @Param body body dto.AccountRegisterData true "注册信息 (登录名、密码、确认密码、昵称)"
// @Success 200 {object} docs.SwaggerAPIMemberInfoResponse "注册成功，返回会员摘要"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数无效 或 业务逻辑错误 (如登录名已存在、密码不一致)"
// @Failure 409 {object} docs.SwaggerAPIErrorResponseString "昵称已被占用"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/meetup-hub/auth/register [post]
func (ctrl *AccountController) RegisterHandler(c *gin.Context) {
	const operation = "AccountController.RegisterHandler"

	// 1. 绑定并校验请求体中的 JSON 数据到 DTO 结构体。
	var accountRegisterData dto.AccountRegisterData
	if err := c.ShouldBindJSON(&accountRegisterData); err != nil {
		ctrl.logger.Warn("注册请求参数绑定失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	// 2. 调用服务层执行注册逻辑。
	memberInfo, err := ctrl.accountService.Register(c.Request.Context(), accountRegisterData)
	if err != nil {
		switch {
		case errors.Is(err, commonerrors.ErrSystemError):
			ctrl.logger.Error("账号注册服务返回系统错误",
				zap.String("operation", operation),
				zap.String("loginKey", accountRegisterData.LoginKey),
				zap.Error(err),
			)
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
		case errors.Is(err, auth.ErrNicknameTaken):
			response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, err.Error())
		default:
			ctrl.logger.Warn("账号注册服务返回业务错误",
				zap.String("operation", operation),
				zap.String("loginKey", accountRegisterData.LoginKey),
				zap.Error(err),
			)
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
		}
		return
	}

	// 3. 注册成功，记录日志并返回会员摘要。
	ctrl.logger.Info("账号注册成功",
		zap.String("operation", operation),
		zap.String("memberID", memberInfo.MemberID),
	)
	response.RespondSuccess(c, memberInfo, "注册成功")
}

// LoginHandler 处理用户使用登录名和密码进行登录的请求。
// @Summary 账号密码登录
// @Description 用户通过提供登录名和密码来获取会话令牌。
// @Tags 账号密码认证
// @Accept json
// @Produce json
// @Param body body dto.AccountLoginData true "登录信息 (登录名、密码)"
// @Param X-Platform header string true "客户端平台类型" Enums(web, wechat, app) default(web)
// @Success 200 {object} docs.SwaggerAPILoginResponse "登录成功，返回会员摘要及会话令牌"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数无效 或 登录名/密码错误"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/meetup-hub/auth/login [post]
func (ctrl *AccountController) LoginHandler(c *gin.Context) {
	const operation = "AccountController.LoginHandler"

	// 1. 绑定并校验请求体中的 JSON 数据。
	var accountLoginData dto.AccountLoginData
	if err := c.ShouldBindJSON(&accountLoginData); err != nil {
		ctrl.logger.Warn("登录请求参数绑定失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	// 2. 获取并验证请求头中的 X-Platform 参数。
	platformStr := c.GetHeader("X-Platform")
	platform, err := enums.PlatformFromString(platformStr)
	if err != nil {
		ctrl.logger.Warn("无效的平台类型",
			zap.String("operation", operation),
			zap.String("platformHeader", platformStr),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的平台类型")
		return
	}

	// 3. 调用服务层执行登录逻辑。
	memberInfo, sessionToken, err := ctrl.accountService.Login(c.Request.Context(), accountLoginData)
	if err != nil {
		if errors.Is(err, commonerrors.ErrSystemError) {
			ctrl.logger.Error("账号登录服务返回系统错误",
				zap.String("operation", operation),
				zap.Error(err),
			)
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
		} else {
			// 登录名不存在与密码错误走同一分支，响应对外不可区分
			ctrl.logger.Warn("账号登录服务返回业务错误",
				zap.String("operation", operation),
				zap.Error(err),
			)
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
		}
		return
	}

	// 4. 根据平台处理令牌响应。Web 平台额外写入 HttpOnly Cookie。
	if platform == enums.PlatformWeb {
		writeSessionCookie(c, ctrl.cookieConfig, sessionToken.Token)
	}
	responseData := vo.LoginResponse{
		Member:  memberInfo,
		Session: sessionToken,
	}
	ctrl.logger.Info("账号登录成功",
		zap.String("operation", operation),
		zap.String("memberID", memberInfo.MemberID),
		zap.Any("platform", platform),
	)
	response.RespondSuccess(c, responseData, "登录成功")
}

// LogoutHandler 处理登出请求。
// 会话令牌是无状态的，服务端不维护黑名单；登出只负责清掉浏览器端的
// 会话 Cookie，已签发的令牌到期自然失效。
// @Summary 登出
// @Description 清除会话 Cookie。已签发的令牌在有效期内仍可使用，到期自动失效。
// @Tags 账号密码认证
// @Produce json
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "登出成功"
// @Router /api/v1/meetup-hub/auth/logout [post]
func (ctrl *AccountController) LogoutHandler(c *gin.Context) {
	const operation = "AccountController.LogoutHandler"

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     ctrl.cookieConfig.SessionTokenName,
		Value:    "",
		MaxAge:   -1,
		Path:     ctrl.cookieConfig.Path,
		Domain:   ctrl.cookieConfig.Domain,
		Secure:   ctrl.cookieConfig.Secure,
		HttpOnly: ctrl.cookieConfig.HttpOnly,
		SameSite: utils.ParseSameSiteString(ctrl.cookieConfig.SameSite),
	})

	ctrl.logger.Info("登出成功", zap.String("operation", operation))
	response.RespondSuccess(c, vo.Empty{}, "登出成功")
}

// writeSessionCookie 将会话令牌写入 HttpOnly Cookie。
// Cookie 生命周期故意长于令牌有效期，令牌过期后请求会收到统一的 401。
func writeSessionCookie(c *gin.Context, cfg config.CookieConfig, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.SessionTokenName,
		Value:    token,
		MaxAge:   int(constants.SessionCookieTTL.Seconds()),
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Secure:   cfg.Secure,
		HttpOnly: cfg.HttpOnly,
		SameSite: utils.ParseSameSiteString(cfg.SameSite),
	})
}

// RegisterRoutes 注册与账号密码认证相关的路由到指定的 Gin 路由组。
func (ctrl *AccountController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/auth/register", ctrl.RegisterHandler)
	group.POST("/auth/login", ctrl.LoginHandler)
	group.POST("/auth/logout", ctrl.LogoutHandler)
}
