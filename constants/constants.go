package constants

import (
	"time"
)

const (
	// ServiceName 是本服务在追踪和日志中使用的统一名称
	ServiceName = "meetup-hub"

	// ServiceVersion 服务版本号
	ServiceVersion = "1.0.0"
)

const (
	// SessionTokenTTL 会话令牌（JWT）的有效期。
	// 令牌自然过期后客户端需要重新登录。
	SessionTokenTTL = 1 * time.Hour

	// SessionCookieTTL 会话 Cookie 的生命周期。
	// 故意长于令牌有效期："记住会话，但需要重新认证"——
	// Cookie 存在期间浏览器会继续携带令牌，令牌过期后服务端统一返回 401。
	SessionCookieTTL = 7 * 24 * time.Hour

	// OAuthStateTTL 第三方登录 state 随机串在 Redis 中的有效期。
	OAuthStateTTL = 5 * time.Minute
)
