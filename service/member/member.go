package member

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/vo"
	"github.com/Xushengqwer/meetup_hub/repository/mysql"
)

// 会员资料的业务错误。
var (
	ErrMemberNotFound = errors.New("会员不存在")
	ErrNicknameTaken  = errors.New("昵称已被使用，请换一个昵称")
)

// MemberService 定义了会员本人资料与注销的服务接口。
type MemberService interface {
	// GetProfile 查看本人资料。
	GetProfile(ctx context.Context, memberID string) (*vo.ProfileVO, error)

	// UpdateProfile 更新本人资料，零值字段不更新。
	UpdateProfile(ctx context.Context, memberID string, data *dto.UpdateProfileData) error

	// Withdraw 注销账号：删除成员关系、第三方身份与会员记录。
	// 本人创建的群组保留，不随账号删除。
	Withdraw(ctx context.Context, memberID string) error
}

type memberService struct {
	memberRepo     mysql.MemberRepository         // 会员仓库
	socialRepo     mysql.SocialIdentityRepository // 第三方身份仓库
	membershipRepo mysql.MembershipRepository     // 成员关系仓库
	db             *gorm.DB                       // 数据库连接
	logger         *core.ZapLogger                // 日志记录器
}

func NewMemberService(
	memberRepo mysql.MemberRepository,
	socialRepo mysql.SocialIdentityRepository,
	membershipRepo mysql.MembershipRepository,
	db *gorm.DB,
	logger *core.ZapLogger,
) MemberService {
	return &memberService{
		memberRepo:     memberRepo,
		socialRepo:     socialRepo,
		membershipRepo: membershipRepo,
		db:             db,
		logger:         logger,
	}
}

// GetProfile 实现接口方法。
func (s *memberService) GetProfile(ctx context.Context, memberID string) (*vo.ProfileVO, error) {
	const operation = "MemberService.GetProfile"

	member, err := s.memberRepo.GetMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询会员资料失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	identities, err := s.socialRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		s.logger.Error("查询第三方身份关联失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}
	providers := make([]string, 0, len(identities))
	for _, identity := range identities {
		providers = append(providers, string(identity.Provider))
	}

	return &vo.ProfileVO{
		MemberID:        member.MemberID,
		LoginKey:        member.LoginKey,
		LoginType:       string(member.LoginType),
		Nickname:        member.Nickname,
		Email:           member.Email,
		LinkedProviders: providers,
	}, nil
}

// UpdateProfile 实现接口方法。
func (s *memberService) UpdateProfile(ctx context.Context, memberID string, data *dto.UpdateProfileData) error {
	const operation = "MemberService.UpdateProfile"

	member, err := s.memberRepo.GetMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return ErrMemberNotFound
		}
		s.logger.Error("查询会员失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	if data.Nickname != "" {
		member.Nickname = data.Nickname
	}
	if data.Email != nil {
		member.Email = data.Email
	}

	if err := s.memberRepo.UpdateMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrNicknameTaken
		}
		s.logger.Error("更新会员资料失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}
	return nil
}

// Withdraw 实现接口方法，三张表的删除在同一事务内。
func (s *memberService) Withdraw(ctx context.Context, memberID string) error {
	const operation = "MemberService.Withdraw"

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.membershipRepo.DeleteByMemberID(ctx, tx, memberID); err != nil {
			return err
		}
		if err := s.socialRepo.DeleteByMemberID(ctx, tx, memberID); err != nil {
			return err
		}
		return s.memberRepo.DeleteMember(ctx, tx, memberID)
	})
	if txErr != nil {
		if errors.Is(txErr, commonerrors.ErrRepoNotFound) {
			return ErrMemberNotFound
		}
		s.logger.Error("注销账号事务失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.Error(txErr),
		)
		return commonerrors.ErrSystemError
	}

	s.logger.Info("账号已注销",
		zap.String("operation", operation),
		zap.String("memberID", memberID),
	)
	return nil
}
