package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/models/vo"
)

// MembershipRepository 定义了成员资格行（Membership）的存储操作接口。
// 状态迁移一律使用带条件的单条 UPDATE/DELETE 并检查影响行数，
// 不做"先查后改"，避免并发管理操作之间的检查-执行竞态。
type MembershipRepository interface {
	// CreateMembership 插入一条成员资格行。
	// - (group_id, member_id) 唯一约束冲突时返回 gorm.ErrDuplicatedKey，
	//   重复加入的判定完全交给该约束。
	CreateMembership(ctx context.Context, db *gorm.DB, membership *entities.Membership) error

	// GetMembership 检索指定 (群组, 成员) 的成员资格行。
	// - 未找到时返回 commonerrors.ErrRepoNotFound。
	GetMembership(ctx context.Context, groupID uint, memberID string) (*entities.Membership, error)

	// UpdateStatusIfPending 仅当目标行仍处于 pending 时将其状态置为 newStatus。
	// - 返回受影响行数：0 表示行不存在或已不在 pending，由调用方区分。
	UpdateStatusIfPending(ctx context.Context, db *gorm.DB, groupID uint, memberID string, newStatus enums.MembershipStatus) (int64, error)

	// UpdateRoleIfApproved 仅当目标行处于 approved 时调整其角色。
	// - 返回受影响行数；若角色本就是目标值，MySQL 也会返回 0，调用方需先行判断。
	UpdateRoleIfApproved(ctx context.Context, db *gorm.DB, groupID uint, memberID string, role enums.MembershipRole) (int64, error)

	// DeleteMembership 删除指定 (群组, 成员) 的成员资格行。
	// - 返回受影响行数，0 表示行不存在（退出/踢出的目标已不在群组中）。
	DeleteMembership(ctx context.Context, db *gorm.DB, groupID uint, memberID string) (int64, error)

	// DeleteByGroupID 删除群组的全部成员资格行（删除群组时级联，需在事务中调用）。
	DeleteByGroupID(ctx context.Context, db *gorm.DB, groupID uint) error

	// DeleteByMemberID 删除成员的全部成员资格行（会员注销时级联，需在事务中调用）。
	DeleteByMemberID(ctx context.Context, db *gorm.DB, memberID string) error

	// ListGroupMembers 检索群组成员名册，连接 Members 表取昵称。
	// - 只暴露昵称与角色/状态，不泄露登录凭证。
	ListGroupMembers(ctx context.Context, groupID uint) ([]vo.GroupMemberItem, error)

	// ListMemberGroups 检索成员参与的全部群组（含待审批）。
	ListMemberGroups(ctx context.Context, memberID string) ([]vo.MyGroupItem, error)
}

// membershipRepository 是 MembershipRepository 接口基于 GORM 的实现。
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository 创建一个新的 membershipRepository 实例。
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// CreateMembership 实现接口方法，插入成员资格行。
func (r *membershipRepository) CreateMembership(ctx context.Context, db *gorm.DB, membership *entities.Membership) error {
	if err := db.WithContext(ctx).Create(membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("membershipRepo.CreateMembership: 创建成员资格失败 (群组: %d, 成员: %s): %w",
			membership.GroupID, membership.MemberID, err)
	}
	return nil
}

// GetMembership 实现接口方法，检索成员资格行。
func (r *membershipRepository) GetMembership(ctx context.Context, groupID uint, memberID string) (*entities.Membership, error) {
	var membership entities.Membership
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND member_id = ?", groupID, memberID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("membershipRepo.GetMembership: 查询成员资格失败 (群组: %d, 成员: %s): %w", groupID, memberID, err)
	}
	return &membership, nil
}

// UpdateStatusIfPending 实现接口方法，条件化的状态迁移。
func (r *membershipRepository) UpdateStatusIfPending(ctx context.Context, db *gorm.DB, groupID uint, memberID string, newStatus enums.MembershipStatus) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entities.Membership{}).
		Where("group_id = ? AND member_id = ? AND status = ?", groupID, memberID, enums.StatusPending).
		Update("status", newStatus)
	if result.Error != nil {
		return 0, fmt.Errorf("membershipRepo.UpdateStatusIfPending: 更新状态失败 (群组: %d, 成员: %s): %w", groupID, memberID, result.Error)
	}
	return result.RowsAffected, nil
}

// UpdateRoleIfApproved 实现接口方法，条件化的角色调整。
func (r *membershipRepository) UpdateRoleIfApproved(ctx context.Context, db *gorm.DB, groupID uint, memberID string, role enums.MembershipRole) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entities.Membership{}).
		Where("group_id = ? AND member_id = ? AND status = ?", groupID, memberID, enums.StatusApproved).
		Update("role", role)
	if result.Error != nil {
		return 0, fmt.Errorf("membershipRepo.UpdateRoleIfApproved: 更新角色失败 (群组: %d, 成员: %s): %w", groupID, memberID, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteMembership 实现接口方法，删除成员资格行。
func (r *membershipRepository) DeleteMembership(ctx context.Context, db *gorm.DB, groupID uint, memberID string) (int64, error) {
	result := db.WithContext(ctx).
		Where("group_id = ? AND member_id = ?", groupID, memberID).
		Delete(&entities.Membership{})
	if result.Error != nil {
		return 0, fmt.Errorf("membershipRepo.DeleteMembership: 删除成员资格失败 (群组: %d, 成员: %s): %w", groupID, memberID, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByGroupID 实现接口方法，删除群组全部成员资格行。
func (r *membershipRepository) DeleteByGroupID(ctx context.Context, db *gorm.DB, groupID uint) error {
	result := db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&entities.Membership{})
	if result.Error != nil {
		return fmt.Errorf("membershipRepo.DeleteByGroupID: 级联删除成员资格失败 (群组: %d): %w", groupID, result.Error)
	}
	return nil
}

// DeleteByMemberID 实现接口方法，删除成员全部成员资格行。
func (r *membershipRepository) DeleteByMemberID(ctx context.Context, db *gorm.DB, memberID string) error {
	result := db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&entities.Membership{})
	if result.Error != nil {
		return fmt.Errorf("membershipRepo.DeleteByMemberID: 级联删除成员资格失败 (成员: %s): %w", memberID, result.Error)
	}
	return nil
}

// ListGroupMembers 实现接口方法，连接查询群组成员名册。
func (r *membershipRepository) ListGroupMembers(ctx context.Context, groupID uint) ([]vo.GroupMemberItem, error) {
	var items []vo.GroupMemberItem
	err := r.db.WithContext(ctx).
		Table("memberships AS ms").
		Select("ms.member_id, m.nickname, ms.role, ms.status").
		Joins("JOIN members m ON m.member_id = ms.member_id").
		Where("ms.group_id = ?", groupID).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListGroupMembers: 查询成员名册失败 (群组: %d): %w", groupID, err)
	}
	return items, nil
}

// ListMemberGroups 实现接口方法，连接查询成员参与的群组。
func (r *membershipRepository) ListMemberGroups(ctx context.Context, memberID string) ([]vo.MyGroupItem, error) {
	var items []vo.MyGroupItem
	err := r.db.WithContext(ctx).
		Table("memberships AS ms").
		Select("g.id AS group_id, g.group_type, g.name, ms.role, ms.status").
		Joins("JOIN `groups` g ON g.id = ms.group_id").
		Where("ms.member_id = ?", memberID).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListMemberGroups: 查询我的群组失败 (成员: %s): %w", memberID, err)
	}
	return items, nil
}
