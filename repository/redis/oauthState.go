package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/redis/go-redis/v9"
)

// OAuthStateRepo 定义了第三方登录 state 随机串在 Redis 中的存取接口。
// - state 用于把授权回调与本服务发起的登录请求绑定，防止 CSRF 式的回调伪造。
// - 每个 state 一次性消费：校验即删除。
type OAuthStateRepo interface {
	// SaveState 写入一个 state 随机串，并指定有效期。
	// - 值记录发起登录的提供商，回调时用于交叉校验。
	SaveState(ctx context.Context, state string, provider string, expire time.Duration) error

	// ConsumeState 取出并删除 state 对应的提供商。
	// - state 不存在（过期或已消费）时返回 commonerrors.ErrRepoNotFound。
	ConsumeState(ctx context.Context, state string) (string, error)
}

// oauthStateRepo 是 OAuthStateRepo 接口基于 go-redis/v9 的实现。
type oauthStateRepo struct {
	client *redis.Client // client 是 Redis v9 客户端实例
}

// NewOAuthStateRepo 创建一个新的 oauthStateRepo 实例。
// - 依赖注入 Redis v9 客户端。
func NewOAuthStateRepo(client *redis.Client) OAuthStateRepo {
	return &oauthStateRepo{client: client}
}

// buildKey 根据 state 生成用于 Redis 操作的键名。
// - 使用 "oauth_state:" 作为统一前缀，方便管理和识别。
func (r *oauthStateRepo) buildKey(state string) string {
	return "oauth_state:" + state
}

// SaveState 实现接口方法，在 Redis 中存储 state。
func (r *oauthStateRepo) SaveState(ctx context.Context, state string, provider string, expire time.Duration) error {
	key := r.buildKey(state)
	if err := r.client.Set(ctx, key, provider, expire).Err(); err != nil {
		return fmt.Errorf("oauthStateRepo.SaveState: 写入 state 失败: %w", err)
	}
	return nil
}

// ConsumeState 实现接口方法，一次性取出并删除 state。
func (r *oauthStateRepo) ConsumeState(ctx context.Context, state string) (string, error) {
	key := r.buildKey(state)
	// GETDEL 将读取与删除合为一条命令，并发回调不可能消费同一个 state 两次
	val, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", commonerrors.ErrRepoNotFound
		}
		return "", fmt.Errorf("oauthStateRepo.ConsumeState: 消费 state 失败: %w", err)
	}
	return val, nil
}
