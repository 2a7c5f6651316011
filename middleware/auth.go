package middleware

import (
	"net/http"
	"strings"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/meetup_hub/config"
	"github.com/Xushengqwer/meetup_hub/dependencies"
)

// contextKeyMember 经过认证的会员身份在 gin 上下文中的键。
const contextKeyMember = "meetup_hub/authenticated_member"

// AuthenticatedMember 会话校验通过后写入上下文的会员引用。
// 未认证的请求在上下文中没有该值——"未认证 / 已认证为某会员"
// 只有这两种形态，处理器不需要再做任何形状判断。
type AuthenticatedMember struct {
	MemberID string // 会员ID
	LoginKey string // 登录键
	Nickname string // 昵称
}

// RequireSession 会话令牌校验中间件。
// - 依次尝试 Authorization: Bearer 头与会话 Cookie，头优先；
// - 任何校验失败（缺失、签名错误、过期、格式损坏）统一返回 401，
//   不向调用方泄露具体原因。
func RequireSession(sessionToken dependencies.SessionTokenInterface, cookieCfg config.CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, cookieCfg.SessionTokenName)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
			c.Abort()
			return
		}

		claims, err := sessionToken.ParseSessionToken(tokenString)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "未认证的请求")
			c.Abort()
			return
		}

		c.Set(contextKeyMember, AuthenticatedMember{
			MemberID: claims.MemberID,
			LoginKey: claims.LoginKey,
			Nickname: claims.Nickname,
		})
		c.Next()
	}
}

// extractToken 提取会话令牌：Authorization 头优先于 Cookie。
func extractToken(c *gin.Context, cookieName string) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		const bearerPrefix = "Bearer "
		if strings.HasPrefix(authHeader, bearerPrefix) {
			return strings.TrimPrefix(authHeader, bearerPrefix)
		}
		return authHeader
	}
	if cookieName != "" {
		if cookieToken, err := c.Cookie(cookieName); err == nil {
			return cookieToken
		}
	}
	return ""
}

// CurrentMember 读取上下文中的会员身份。
// - ok 为 false 表示请求未经过 RequireSession 或校验未通过。
func CurrentMember(c *gin.Context) (AuthenticatedMember, bool) {
	value, exists := c.Get(contextKeyMember)
	if !exists {
		return AuthenticatedMember{}, false
	}
	member, ok := value.(AuthenticatedMember)
	return member, ok
}
