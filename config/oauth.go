package config

// OAuthProviderConfig 单个第三方身份提供商的接入配置。
type OAuthProviderConfig struct {
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`         // 提供商分配的应用 ID
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret"` // 提供商分配的应用密钥
	RedirectURL  string `mapstructure:"redirect_url" yaml:"redirect_url"`   // 授权完成后的回调地址
}

// OAuthConfig 汇总所有支持的第三方登录提供商配置。
// - 当前支持 Google、Kakao、Naver 三家，与前端登录入口一一对应。
type OAuthConfig struct {
	Google OAuthProviderConfig `mapstructure:"google" yaml:"google"`
	Kakao  OAuthProviderConfig `mapstructure:"kakao" yaml:"kakao"`
	Naver  OAuthProviderConfig `mapstructure:"naver" yaml:"naver"`
}
