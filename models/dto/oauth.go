package dto

import "github.com/Xushengqwer/meetup_hub/models/enums"

// SocialProfile 第三方提供商回调后取回的标准化资料。
// - ProviderID 是提供商作用域内的稳定标识，必填；
//   Email 与 DisplayName 因提供商而异，均可缺失。
type SocialProfile struct {
	Provider    enums.LoginType // 提供商
	ProviderID  string          // 提供商内的稳定用户 ID
	DisplayName string          // 显示名，可能为空
	Email       *string         // 邮箱，可能缺失
	AccessToken string          // 提供商颁发的不透明令牌
}
