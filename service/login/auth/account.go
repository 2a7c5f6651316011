package auth

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/dependencies"
	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/models/vo"
	"github.com/Xushengqwer/meetup_hub/repository/mysql"
	"github.com/Xushengqwer/meetup_hub/utils"
)

// 本地账号认证的业务错误。
// 账号不存在与密码错误对外不可区分，共用 ErrInvalidCredentials，防止账号枚举。
var (
	ErrInvalidCredentials = errors.New("登录名不存在或密码错误")
	ErrPasswordMismatch   = errors.New("密码和确认密码不一致，请检查输入")
	ErrLoginKeyTaken      = errors.New("登录名已被使用，请直接登录")
	ErrNicknameTaken      = errors.New("昵称已被使用，请换一个昵称")
)

// AccountService 定义了基于账号密码认证的服务接口。
type AccountService interface {
	// Register 处理用户使用账号密码进行注册的逻辑。
	// - data: 包含登录名、密码、确认密码和昵称的注册信息 DTO。
	// - 返回: 新会员的摘要信息。注册成功后不自动登录，不返回令牌。
	Register(ctx context.Context, data dto.AccountRegisterData) (vo.MemberInfo, error)

	// Login 处理用户使用账号密码进行登录的逻辑。
	// - 返回: 会员摘要与会话令牌，以及可能发生的业务错误或系统错误。
	Login(ctx context.Context, data dto.AccountLoginData) (vo.MemberInfo, vo.SessionToken, error)
}

// accountService 是 AccountService 接口的实现。
type accountService struct {
	memberRepo   mysql.MemberRepository              // 会员仓库
	sessionToken dependencies.SessionTokenInterface  // 会话令牌工具
	db           *gorm.DB                            // 数据库连接
	logger       *core.ZapLogger                     // 日志记录器
}

func NewAccountService(
	memberRepo mysql.MemberRepository,
	sessionToken dependencies.SessionTokenInterface,
	db *gorm.DB,
	logger *core.ZapLogger,
) AccountService {
	return &accountService{
		memberRepo:   memberRepo,
		sessionToken: sessionToken,
		db:           db,
		logger:       logger,
	}
}

// Register 实现接口方法，处理本地注册。
func (s *accountService) Register(ctx context.Context, data dto.AccountRegisterData) (vo.MemberInfo, error) {
	const operation = "AccountService.Register"
	emptyInfo := vo.MemberInfo{}

	// 1. 基本校验：密码与确认密码是否一致
	if data.Password != data.ConfirmPassword {
		s.logger.Warn("注册时密码与确认密码不一致", zap.String("operation", operation), zap.String("loginKey", data.LoginKey))
		return emptyInfo, ErrPasswordMismatch
	}

	// 2. 检查登录名是否已存在
	_, err := s.memberRepo.GetMemberByLogin(ctx, data.LoginKey, enums.LoginTypeLocal)
	if err == nil {
		s.logger.Warn("尝试注册已存在的登录名",
			zap.String("operation", operation),
			zap.String("loginKey", data.LoginKey),
		)
		return emptyInfo, ErrLoginKeyTaken
	} else if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		s.logger.Error("检查登录名是否存在时查询失败",
			zap.String("operation", operation),
			zap.String("loginKey", data.LoginKey),
			zap.Error(err),
		)
		return emptyInfo, commonerrors.ErrSystemError
	}

	// 3. 准备注册信息
	memberID := uuid.New().String()
	hashedPassword, err := utils.SetPassword(data.Password)
	if err != nil {
		s.logger.Error("密码加密失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return emptyInfo, commonerrors.ErrSystemError
	}

	newMember := &entities.Member{
		MemberID:     memberID,
		LoginKey:     data.LoginKey,
		LoginType:    enums.LoginTypeLocal,
		Nickname:     data.Nickname,
		PasswordHash: hashedPassword,
		Email:        data.Email,
	}

	// 4. 创建会员。登录名与昵称的唯一性最终由数据库约束裁决，
	//    冲突以 gorm.ErrDuplicatedKey 返回——上面的存在性检查只为给出更友好的提示。
	if err := s.memberRepo.CreateMember(ctx, s.db, newMember); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("注册撞上唯一约束（登录名或昵称重复）",
				zap.String("operation", operation),
				zap.String("loginKey", data.LoginKey),
				zap.String("nickname", data.Nickname),
			)
			return emptyInfo, ErrNicknameTaken
		}
		s.logger.Error("创建会员失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return emptyInfo, commonerrors.ErrSystemError
	}

	// 5. 注册成功
	s.logger.Info("本地账号注册成功",
		zap.String("operation", operation),
		zap.String("memberID", memberID),
		zap.String("loginKey", data.LoginKey),
	)
	return vo.MemberInfo{MemberID: memberID, Nickname: data.Nickname}, nil
}

// Login 实现接口方法，处理本地登录。
func (s *accountService) Login(ctx context.Context, data dto.AccountLoginData) (vo.MemberInfo, vo.SessionToken, error) {
	const operation = "AccountService.Login"
	emptyInfo := vo.MemberInfo{}
	emptyToken := vo.SessionToken{}

	// 1. 根据登录名查找会员
	member, err := s.memberRepo.GetMemberByLogin(ctx, data.LoginKey, enums.LoginTypeLocal)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("尝试登录不存在的登录名",
				zap.String("operation", operation),
				zap.String("loginKey", data.LoginKey),
			)
			// 与密码错误同一错误，调用方无法区分
			return emptyInfo, emptyToken, ErrInvalidCredentials
		}
		s.logger.Error("登录时查找会员失败",
			zap.String("operation", operation),
			zap.String("loginKey", data.LoginKey),
			zap.Error(err),
		)
		return emptyInfo, emptyToken, commonerrors.ErrSystemError
	}

	// 2. 校验密码（bcrypt 恒定时间比较）
	if err := utils.CheckPassword(member.PasswordHash, data.Password); err != nil {
		s.logger.Warn("登录密码错误",
			zap.String("operation", operation),
			zap.String("memberID", member.MemberID),
			zap.String("loginKey", data.LoginKey),
		)
		return emptyInfo, emptyToken, ErrInvalidCredentials
	}

	// 3. 生成会话令牌
	token, err := s.sessionToken.GenerateSessionToken(member.MemberID, member.LoginKey, member.Nickname)
	if err != nil {
		s.logger.Error("生成会话令牌失败",
			zap.String("operation", operation),
			zap.String("memberID", member.MemberID),
			zap.Error(err),
		)
		return emptyInfo, emptyToken, commonerrors.ErrSystemError
	}

	// 4. 登录成功
	s.logger.Info("本地账号登录成功",
		zap.String("operation", operation),
		zap.String("memberID", member.MemberID),
	)
	return vo.MemberInfo{MemberID: member.MemberID, Nickname: member.Nickname}, vo.SessionToken{Token: token}, nil
}
