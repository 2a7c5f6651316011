package config

// CookieConfig 定义用于设置 HTTP Cookie 的相关参数
type CookieConfig struct {
	// Domain 指定 Cookie 对哪些域名有效。
	// 例如: "example.com" (对 example.com 生效，但不包括 www.example.com)
	//      ".example.com" (对 example.com 及其所有子域名生效)
	//      留空则表示仅对当前请求的主机生效（不包括子域名）。
	Domain string `mapstructure:"domain" json:"domain" yaml:"domain"`

	// Path 指定 Cookie 在哪些路径下有效。
	// 通常设为 "/" 使其对整个域名下的所有路径都有效。
	Path string `mapstructure:"path" json:"path" yaml:"path"`

	// Secure 标记指示浏览器仅通过 HTTPS 连接发送 Cookie。
	// 会话令牌属于敏感凭证，生产环境应始终设为 true。
	Secure bool `mapstructure:"secure" json:"secure" yaml:"secure"`

	// HttpOnly 标记指示浏览器不允许通过 JavaScript (如 document.cookie) 访问 Cookie。
	// 这是防止 XSS 攻击窃取会话令牌的关键安全措施，必须设为 true。
	HttpOnly bool `mapstructure:"http_only" json:"http_only" yaml:"http_only"`

	// SameSite 控制 Cookie 是否随跨站请求发送，有助于缓解 CSRF 攻击。
	// 可选值: "Lax" (默认), "Strict", "None"。
	// 前后端分离部署在不同站点时需要 "None"（此时必须同时 Secure=true）。
	SameSite string `mapstructure:"same_site" json:"same_site" yaml:"same_site"`

	// SessionTokenName 定义了存储会话令牌的 Cookie 的名称。
	SessionTokenName string `mapstructure:"session_token_name" json:"session_token_name" yaml:"session_token_name"`

	// 注意: 会话 Cookie 的 MaxAge (生命周期) 从 constants.SessionCookieTTL 获取并转换为秒，
	// 它长于令牌本身的有效期，见 constants 包中的说明。
}
