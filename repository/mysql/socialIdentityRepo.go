package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
)

// SocialIdentityRepository 定义了第三方身份关联（SocialIdentity）的存储操作接口。
type SocialIdentityRepository interface {
	// UpsertToken 写入或刷新某会员在某提供商下的令牌。
	// - 依赖 (member_id, provider) 唯一索引：存在即更新 provider_token，
	//   不存在则插入新行，保证每人每提供商至多一行。
	UpsertToken(ctx context.Context, db *gorm.DB, memberID string, provider enums.LoginType, token string) error

	// GetByMemberID 检索指定会员的所有第三方身份关联。
	// - 没有任何关联时返回空列表和 nil 错误。
	GetByMemberID(ctx context.Context, memberID string) ([]*entities.SocialIdentity, error)

	// DeleteByMemberID 删除指定会员的所有第三方身份关联。
	// 设计目的:
	//  - 在会员注销时级联清理，需在事务中调用。
	// - 没有记录被删除不视为错误。
	DeleteByMemberID(ctx context.Context, db *gorm.DB, memberID string) error
}

// socialIdentityRepository 是 SocialIdentityRepository 接口基于 GORM 的实现。
type socialIdentityRepository struct {
	db *gorm.DB
}

// NewSocialIdentityRepository 创建一个新的 socialIdentityRepository 实例。
func NewSocialIdentityRepository(db *gorm.DB) SocialIdentityRepository {
	return &socialIdentityRepository{db: db}
}

// UpsertToken 实现接口方法，插入或刷新第三方令牌。
func (r *socialIdentityRepository) UpsertToken(ctx context.Context, db *gorm.DB, memberID string, provider enums.LoginType, token string) error {
	identity := &entities.SocialIdentity{
		MemberID:      memberID,
		Provider:      provider,
		ProviderToken: token,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "provider"}},
			DoUpdates: clause.AssignmentColumns([]string{"provider_token"}),
		}).
		Create(identity).Error
	if err != nil {
		return fmt.Errorf("socialIdentityRepo.UpsertToken: 刷新第三方令牌失败 (会员: %s, 提供商: %s): %w", memberID, provider, err)
	}
	return nil
}

// GetByMemberID 实现接口方法，获取会员的所有第三方身份关联。
func (r *socialIdentityRepository) GetByMemberID(ctx context.Context, memberID string) ([]*entities.SocialIdentity, error) {
	var identities []*entities.SocialIdentity
	// Find 在未找到记录时返回空 slice 和 nil error，这是 GORM 的正常行为。
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).Find(&identities).Error
	if err != nil {
		return nil, fmt.Errorf("socialIdentityRepo.GetByMemberID: 查询第三方身份列表失败 (会员: %s): %w", memberID, err)
	}
	return identities, nil
}

// DeleteByMemberID 实现接口方法，删除会员的所有第三方身份关联。
func (r *socialIdentityRepository) DeleteByMemberID(ctx context.Context, db *gorm.DB, memberID string) error {
	result := db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&entities.SocialIdentity{})
	if result.Error != nil {
		return fmt.Errorf("socialIdentityRepo.DeleteByMemberID: 删除第三方身份失败 (会员: %s): %w", memberID, result.Error)
	}
	return nil
}
