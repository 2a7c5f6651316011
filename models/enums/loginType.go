package enums

import "fmt"

// LoginType 登录方式枚举。
// - 本地账号使用自选的登录名，第三方账号的登录键为 "{provider}-{providerID}"。
type LoginType string

const (
	LoginTypeLocal  LoginType = "local"  // 本地账号密码
	LoginTypeGoogle LoginType = "google" // Google OAuth
	LoginTypeKakao  LoginType = "kakao"  // Kakao OAuth
	LoginTypeNaver  LoginType = "naver"  // Naver OAuth
)

// ProviderFromString 将回调路径中的 provider 字符串转换为 LoginType。
// - 仅接受受支持的第三方提供商，本地登录不经过此入口。
func ProviderFromString(s string) (LoginType, error) {
	switch LoginType(s) {
	case LoginTypeGoogle, LoginTypeKakao, LoginTypeNaver:
		return LoginType(s), nil
	default:
		return "", fmt.Errorf("不支持的登录提供商: %q", s)
	}
}
