package config

// JWTConfig 定义会话令牌的签发配置，用于生成和验证 JWT。
type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"` // 用于签名会话令牌的密钥
	Issuer    string `mapstructure:"issuer" yaml:"issuer"`         // JWT的签发者
}
