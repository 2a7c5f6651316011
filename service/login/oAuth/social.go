package oAuth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/constants"
	"github.com/Xushengqwer/meetup_hub/dependencies"
	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/models/vo"
	"github.com/Xushengqwer/meetup_hub/repository/mysql"
	"github.com/Xushengqwer/meetup_hub/repository/redis"
	"github.com/Xushengqwer/meetup_hub/utils"
)

// 第三方登录的业务错误。
var (
	ErrProviderNotSupported = errors.New("不支持的登录提供商")
	ErrStateInvalid         = errors.New("登录请求已过期或不合法，请重新发起登录")
	ErrProviderUnavailable  = errors.New("第三方服务暂时不可用，请稍后重试")
)

// defaultSocialNickname 第三方资料未提供显示名时的兜底昵称前缀。
const defaultSocialNickname = "社交用户"

// SocialLoginService 定义了第三方（Google/Kakao/Naver）登录的服务接口。
// 身份调和语义：一个 (提供商, 提供商内ID) 恒等于一个会员记录，
// 首次登录自动注册，并发首次登录不会产生重复会员。
type SocialLoginService interface {
	// BeginLogin 发起第三方登录：生成一次性 state 并返回提供商授权跳转地址。
	BeginLogin(ctx context.Context, provider enums.LoginType) (string, error)

	// HandleCallback 处理提供商授权回调，完成登录或自动注册。
	// - state 一次性消费，过期/重放返回 ErrStateInvalid。
	// - 返回: 会员摘要与会话令牌。
	HandleCallback(ctx context.Context, provider enums.LoginType, state, code string) (vo.MemberInfo, vo.SessionToken, error)
}

// socialLoginService 是 SocialLoginService 接口的实现。
type socialLoginService struct {
	memberRepo   mysql.MemberRepository                                 // 会员仓库
	socialRepo   mysql.SocialIdentityRepository                         // 第三方身份仓库
	stateRepo    redis.OAuthStateRepo                                   // state 随机串仓库
	oauthClients map[enums.LoginType]dependencies.OAuthProviderClient   // 各提供商客户端
	sessionToken dependencies.SessionTokenInterface                     // 会话令牌工具
	db           *gorm.DB                                               // 数据库连接
	logger       *core.ZapLogger                                        // 日志记录器
}

func NewSocialLoginService(
	memberRepo mysql.MemberRepository,
	socialRepo mysql.SocialIdentityRepository,
	stateRepo redis.OAuthStateRepo,
	oauthClients map[enums.LoginType]dependencies.OAuthProviderClient,
	sessionToken dependencies.SessionTokenInterface,
	db *gorm.DB,
	logger *core.ZapLogger,
) SocialLoginService {
	return &socialLoginService{
		memberRepo:   memberRepo,
		socialRepo:   socialRepo,
		stateRepo:    stateRepo,
		oauthClients: oauthClients,
		sessionToken: sessionToken,
		db:           db,
		logger:       logger,
	}
}

// BeginLogin 实现接口方法，发起第三方登录。
func (s *socialLoginService) BeginLogin(ctx context.Context, provider enums.LoginType) (string, error) {
	const operation = "SocialLoginService.BeginLogin"

	client, ok := s.oauthClients[provider]
	if !ok {
		return "", ErrProviderNotSupported
	}

	state := uuid.New().String()
	if err := s.stateRepo.SaveState(ctx, state, string(provider), constants.OAuthStateTTL); err != nil {
		s.logger.Error("写入 OAuth state 失败",
			zap.String("operation", operation),
			zap.String("provider", string(provider)),
			zap.Error(err),
		)
		return "", commonerrors.ErrSystemError
	}

	return client.AuthCodeURL(state), nil
}

// HandleCallback 实现接口方法，处理授权回调。
func (s *socialLoginService) HandleCallback(ctx context.Context, provider enums.LoginType, state, code string) (vo.MemberInfo, vo.SessionToken, error) {
	const operation = "SocialLoginService.HandleCallback"
	emptyInfo := vo.MemberInfo{}
	emptyToken := vo.SessionToken{}

	client, ok := s.oauthClients[provider]
	if !ok {
		return emptyInfo, emptyToken, ErrProviderNotSupported
	}

	// 1. 校验并消费 state（一次性）
	savedProvider, err := s.stateRepo.ConsumeState(ctx, state)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("回调携带的 state 不存在或已消费",
				zap.String("operation", operation),
				zap.String("provider", string(provider)),
			)
			return emptyInfo, emptyToken, ErrStateInvalid
		}
		s.logger.Error("消费 OAuth state 失败", zap.String("operation", operation), zap.Error(err))
		return emptyInfo, emptyToken, commonerrors.ErrSystemError
	}
	if savedProvider != string(provider) {
		s.logger.Warn("state 与提供商不匹配",
			zap.String("operation", operation),
			zap.String("expected", savedProvider),
			zap.String("actual", string(provider)),
		)
		return emptyInfo, emptyToken, ErrStateInvalid
	}

	// 2. 换码并拉取提供商资料
	profile, err := client.FetchProfile(ctx, code)
	if err != nil {
		s.logger.Error("拉取第三方资料失败",
			zap.String("operation", operation),
			zap.String("provider", string(provider)),
			zap.Error(err),
		)
		return emptyInfo, emptyToken, ErrProviderUnavailable
	}

	// 3. 身份调和
	member, err := s.reconcile(ctx, profile)
	if err != nil {
		return emptyInfo, emptyToken, err
	}

	// 4. 生成会话令牌
	token, err := s.sessionToken.GenerateSessionToken(member.MemberID, member.LoginKey, member.Nickname)
	if err != nil {
		s.logger.Error("生成会话令牌失败",
			zap.String("operation", operation),
			zap.String("memberID", member.MemberID),
			zap.Error(err),
		)
		return emptyInfo, emptyToken, commonerrors.ErrSystemError
	}

	s.logger.Info("第三方登录成功",
		zap.String("operation", operation),
		zap.String("memberID", member.MemberID),
		zap.String("provider", string(provider)),
	)
	return vo.MemberInfo{MemberID: member.MemberID, Nickname: member.Nickname}, vo.SessionToken{Token: token}, nil
}

// reconcile 将提供商资料调和为恰好一个会员记录。
// 并发的首次登录依赖 (login_key, login_type) 唯一索引上的
// "插入即判定"：插入与存在性检查是同一条语句，检查-插入之间没有窗口。
func (s *socialLoginService) reconcile(ctx context.Context, profile *dto.SocialProfile) (*entities.Member, error) {
	const operation = "SocialLoginService.reconcile"
	loginKey := fmt.Sprintf("%s-%s", profile.Provider, profile.ProviderID)

	// 1. 老用户的常规路径：按登录键命中即刷新令牌返回
	member, err := s.memberRepo.GetMemberByLogin(ctx, loginKey, profile.Provider)
	if err == nil {
		if err := s.socialRepo.UpsertToken(ctx, s.db, member.MemberID, profile.Provider, profile.AccessToken); err != nil {
			// 令牌刷新失败不应阻断登录，记录后继续
			s.logger.Error("刷新第三方令牌失败",
				zap.String("operation", operation),
				zap.String("memberID", member.MemberID),
				zap.Error(err),
			)
		}
		return member, nil
	}
	if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		s.logger.Error("查找第三方会员失败",
			zap.String("operation", operation),
			zap.String("loginKey", loginKey),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	// 2. 首次登录：自动注册。昵称冲突时追加随机后缀重试一次。
	nickname := profile.DisplayName
	if nickname == "" {
		nickname = defaultSocialNickname
	}

	for attempt := 0; attempt < 2; attempt++ {
		if attempt == 1 {
			nickname = utils.SuffixNickname(nickname)
		}

		newMember := &entities.Member{
			MemberID:  uuid.New().String(),
			LoginKey:  loginKey,
			LoginType: profile.Provider,
			Nickname:  nickname,
			Email:     profile.Email,
		}

		var inserted bool
		txErr := s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			inserted, err = s.memberRepo.InsertIgnoreConflict(ctx, tx, newMember)
			if err != nil {
				return fmt.Errorf("事务中创建会员失败: %w", err)
			}
			if inserted {
				if err := s.socialRepo.UpsertToken(ctx, tx, newMember.MemberID, profile.Provider, profile.AccessToken); err != nil {
					return fmt.Errorf("事务中创建第三方身份失败: %w", err)
				}
			}
			return nil
		})
		if txErr != nil {
			s.logger.Error("第三方注册事务失败",
				zap.String("operation", operation),
				zap.String("loginKey", loginKey),
				zap.Error(txErr),
			)
			return nil, commonerrors.ErrServiceBusy
		}

		if inserted {
			s.logger.Info("第三方用户首次登录，自动注册成功",
				zap.String("operation", operation),
				zap.String("memberID", newMember.MemberID),
				zap.String("loginKey", loginKey),
			)
			return newMember, nil
		}

		// 插入被唯一约束跳过：要么并发回调已创建同一登录键（取回即可），
		// 要么只是昵称撞车（回查不到，换昵称重试）
		existing, err := s.memberRepo.GetMemberByLogin(ctx, loginKey, profile.Provider)
		if err == nil {
			s.logger.Info("并发首次登录命中已创建的会员",
				zap.String("operation", operation),
				zap.String("memberID", existing.MemberID),
				zap.String("loginKey", loginKey),
			)
			if err := s.socialRepo.UpsertToken(ctx, s.db, existing.MemberID, profile.Provider, profile.AccessToken); err != nil {
				s.logger.Error("刷新第三方令牌失败",
					zap.String("operation", operation),
					zap.String("memberID", existing.MemberID),
					zap.Error(err),
				)
			}
			return existing, nil
		}
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("回查第三方会员失败",
				zap.String("operation", operation),
				zap.String("loginKey", loginKey),
				zap.Error(err),
			)
			return nil, commonerrors.ErrSystemError
		}
	}

	// 两次昵称都撞车，视为异常
	s.logger.Error("第三方注册昵称冲突重试仍失败",
		zap.String("operation", operation),
		zap.String("loginKey", loginKey),
		zap.String("nickname", nickname),
	)
	return nil, commonerrors.ErrSystemError
}
