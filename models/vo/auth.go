package vo

// MemberInfo 登录/注册成功后返回的会员摘要。
type MemberInfo struct {
	MemberID string `json:"memberId"`
	Nickname string `json:"nickname"`
}

// SessionToken 会话令牌载体。Web 平台令牌同时写入 HttpOnly Cookie，
// 响应体中仍然返回一份供 Authorization 头使用。
type SessionToken struct {
	Token string `json:"token"`
}

// LoginResponse 登录响应。
type LoginResponse struct {
	Member  MemberInfo   `json:"member"`
	Session SessionToken `json:"session"`
}

type Empty struct{}
