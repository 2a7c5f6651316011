package vo

// ProfileVO 本人资料。
type ProfileVO struct {
	MemberID  string  `json:"memberId"`
	LoginKey  string  `json:"loginKey"`
	LoginType string  `json:"loginType"`
	Nickname  string  `json:"nickname"`
	Email     *string `json:"email"`

	// LinkedProviders 已关联的第三方提供商列表，本地账号未绑定时为空。
	LinkedProviders []string `json:"linkedProviders"`
}
