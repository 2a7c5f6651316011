package dependencies

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // 引入 v5 版本的 JWT 包
	"github.com/google/uuid"

	"github.com/Xushengqwer/meetup_hub/config"
	"github.com/Xushengqwer/meetup_hub/constants"
)

// SessionTokenInterface 定义会话令牌工具的接口
// - 用于生成和解析承载会员身份的 JWT 会话令牌
type SessionTokenInterface interface {
	// GenerateSessionToken 生成会话令牌
	// - 输入: memberID 会员ID, loginKey 登录键, nickname 昵称
	// - 输出: 会话令牌字符串和可能的错误
	GenerateSessionToken(memberID, loginKey, nickname string) (string, error)

	// ParseSessionToken 解析并验证会话令牌
	// - 签名错误、过期、格式损坏一律返回错误，不区分原因
	// - 输出: 解析后的 SessionClaims 和可能的错误
	ParseSessionToken(tokenString string) (*SessionClaims, error)
}

// SessionClaims 定义会话令牌的声明结构体，包含标准字段和自定义字段
type SessionClaims struct {
	MemberID             string `json:"member_id"` // 会员ID
	LoginKey             string `json:"login_key"` // 登录键
	Nickname             string `json:"nickname"`  // 昵称
	jwt.RegisteredClaims        // 嵌入 JWT v5 的标准声明字段
}

// SessionTokenUtility 实现 SessionTokenInterface 接口的结构体
type SessionTokenUtility struct {
	cfg *config.JWTConfig // JWT 配置，包含密钥、发行者等信息
}

// NewSessionTokenUtility 创建 SessionTokenUtility 实例，通过依赖注入初始化
func NewSessionTokenUtility(cfg *config.JWTConfig) SessionTokenInterface {
	return &SessionTokenUtility{cfg: cfg}
}

// GenerateSessionToken 生成会话令牌
// - 有效期取 constants.SessionTokenTTL（1小时），使用 HS256 签名
func (su *SessionTokenUtility) GenerateSessionToken(memberID, loginKey, nickname string) (string, error) {
	now := time.Now()

	// 创建自定义声明
	claims := &SessionClaims{
		MemberID: memberID,
		LoginKey: loginKey,
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    su.cfg.Issuer,                                           // 令牌发行者，从配置中获取
			IssuedAt:  jwt.NewNumericDate(now),                                 // 签发时间
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.SessionTokenTTL)), // 过期时间，使用常量定义的 TTL
			ID:        uuid.New().String(),                                     // 唯一 JTI
		},
	}

	// 创建令牌，使用 HS256 签名算法
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := []byte(su.cfg.SecretKey)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("签名令牌失败: %v", err)
	}
	return signedToken, nil
}

// ParseSessionToken 解析并验证会话令牌
func (su *SessionTokenUtility) ParseSessionToken(tokenString string) (*SessionClaims, error) {
	secret := []byte(su.cfg.SecretKey)

	// 创建解析器，启用 v5 的严格验证选项
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),  // 强制要求令牌包含过期时间
		jwt.WithIssuer(su.cfg.Issuer), // 验证发行者是否匹配配置中的值
	)

	// 使用 v5 的 Parser 解析令牌
	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法是否为 HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("签名算法不匹配: %v", token.Header["alg"])
		}
		return secret, nil
	})

	// 解析失败的具体原因不向上区分，上层统一以未认证响应
	if err != nil {
		return nil, err
	}

	// 类型断言并验证令牌有效性
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的JWT声明")
	}

	return claims, nil
}
