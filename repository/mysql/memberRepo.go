package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
)

// MemberRepository 定义了与会员（Member）数据存储相关的操作接口。
// - 它抽象了数据库交互的细节，允许服务层以统一的方式访问和管理会员数据。
type MemberRepository interface {
	// CreateMember 持久化一个新的会员记录。
	// - 唯一约束（登录键、昵称）冲突时返回 gorm.ErrDuplicatedKey（依赖连接开启 TranslateError）。
	CreateMember(ctx context.Context, db *gorm.DB, member *entities.Member) error

	// InsertIgnoreConflict 尝试插入会员记录，唯一键冲突时静默跳过。
	// 设计目的:
	//  - 身份调和的原子"插入或取回"：并发的首次第三方登录依赖
	//    (login_key, login_type) 唯一索引，检查与插入合为一条语句。
	// 返回:
	//  - inserted: 是否真正插入了新行。false 表示撞上了某个唯一键
	//    （可能是登录键，也可能是昵称），由调用方按登录键回查区分。
	InsertIgnoreConflict(ctx context.Context, db *gorm.DB, member *entities.Member) (inserted bool, err error)

	// GetMemberByLogin 根据登录键与登录方式检索会员。
	// - 未找到时返回 commonerrors.ErrRepoNotFound。
	GetMemberByLogin(ctx context.Context, loginKey string, loginType enums.LoginType) (*entities.Member, error)

	// GetMemberByID 根据主键检索会员。
	// - 未找到时返回 commonerrors.ErrRepoNotFound。
	GetMemberByID(ctx context.Context, memberID string) (*entities.Member, error)

	// UpdateMember 更新一个已存在的会员记录。
	// - 使用 GORM 的 Save，会更新所有字段；服务层应确保传入的实体是期望的状态。
	// - 昵称唯一约束冲突时返回 gorm.ErrDuplicatedKey。
	UpdateMember(ctx context.Context, member *entities.Member) error

	// DeleteMember 根据主键物理删除会员记录，释放登录键与昵称的唯一索引。
	// - 使用传入的 db 对象执行操作，使其能够参与外部事务。
	DeleteMember(ctx context.Context, db *gorm.DB, memberID string) error
}

// memberRepository 是 MemberRepository 接口基于 GORM 的实现。
type memberRepository struct {
	db *gorm.DB // db 是 GORM 数据库连接实例
}

// NewMemberRepository 创建一个新的 memberRepository 实例。
// - 依赖注入 GORM 数据库连接。
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// CreateMember 实现接口方法，持久化会员记录。
func (r *memberRepository) CreateMember(ctx context.Context, db *gorm.DB, member *entities.Member) error {
	if err := db.WithContext(ctx).Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 唯一约束冲突原样上抛，由服务层翻译为业务冲突
			return err
		}
		return fmt.Errorf("memberRepo.CreateMember: 创建会员失败: %w", err)
	}
	return nil
}

// InsertIgnoreConflict 实现接口方法，冲突静默的条件插入。
func (r *memberRepository) InsertIgnoreConflict(ctx context.Context, db *gorm.DB, member *entities.Member) (bool, error) {
	// OnConflict DoNothing 在 MySQL 上生成 INSERT ... ON DUPLICATE KEY UPDATE 的空操作形式，
	// 在 SQLite（测试）上生成 ON CONFLICT DO NOTHING，两者都以单条语句完成存在性判定。
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member)
	if result.Error != nil {
		return false, fmt.Errorf("memberRepo.InsertIgnoreConflict: 插入会员失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetMemberByLogin 实现接口方法，按登录键检索会员。
func (r *memberRepository) GetMemberByLogin(ctx context.Context, loginKey string, loginType enums.LoginType) (*entities.Member, error) {
	var member entities.Member
	err := r.db.WithContext(ctx).
		Where("login_key = ? AND login_type = ?", loginKey, loginType).
		First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("memberRepo.GetMemberByLogin: 查询会员失败 (登录键: %s): %w", loginKey, err)
	}
	return &member, nil
}

// GetMemberByID 实现接口方法，按主键检索会员。
func (r *memberRepository) GetMemberByID(ctx context.Context, memberID string) (*entities.Member, error) {
	var member entities.Member
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("memberRepo.GetMemberByID: 查询会员失败 (ID: %s): %w", memberID, err)
	}
	return &member, nil
}

// UpdateMember 实现接口方法，更新会员信息。
func (r *memberRepository) UpdateMember(ctx context.Context, member *entities.Member) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("memberRepo.UpdateMember: 更新会员失败 (ID: %s): %w", member.MemberID, err)
	}
	return nil
}

// DeleteMember 实现接口方法，物理删除会员。
func (r *memberRepository) DeleteMember(ctx context.Context, db *gorm.DB, memberID string) error {
	result := db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&entities.Member{})
	if result.Error != nil {
		return fmt.Errorf("memberRepo.DeleteMember: 删除会员失败 (ID: %s): %w", memberID, result.Error)
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
