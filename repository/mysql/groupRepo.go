package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
)

// GroupListFilter 群组列表查询条件，零值字段不参与过滤。
type GroupListFilter struct {
	Category string
	Region   string
	Date     *time.Time // 仅闪电聚会：匹配聚会当天
}

// GroupRepository 定义了群组（Group）元数据的存储操作接口。
// - 俱乐部与闪电聚会共用同一张表，通过 GroupType 区分。
type GroupRepository interface {
	// CreateGroup 持久化一个新的群组。
	// - (group_type, name) 唯一约束冲突时返回 gorm.ErrDuplicatedKey。
	CreateGroup(ctx context.Context, db *gorm.DB, group *entities.Group) error

	// GetGroupByID 根据主键检索群组，同时校验群组类型。
	// - 未找到（或类型不符）时返回 commonerrors.ErrRepoNotFound。
	GetGroupByID(ctx context.Context, groupType enums.GroupType, groupID uint) (*entities.Group, error)

	// ListGroups 按条件检索群组列表。
	// - 闪电聚会按聚会时间升序；没有匹配时返回空列表和 nil 错误。
	ListGroups(ctx context.Context, groupType enums.GroupType, filter GroupListFilter) ([]*entities.Group, error)

	// UpdateGroup 更新群组元数据。
	// - 使用 GORM 的 Save；名称唯一约束冲突时返回 gorm.ErrDuplicatedKey。
	UpdateGroup(ctx context.Context, group *entities.Group) error

	// DeleteGroup 根据主键删除群组。
	// - 成员资格行的级联删除由服务层在同一事务中完成。
	// - 未删除任何行时返回 commonerrors.ErrRepoNotFound。
	DeleteGroup(ctx context.Context, db *gorm.DB, groupID uint) error
}

// groupRepository 是 GroupRepository 接口基于 GORM 的实现。
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建一个新的 groupRepository 实例。
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// CreateGroup 实现接口方法，持久化群组。
func (r *groupRepository) CreateGroup(ctx context.Context, db *gorm.DB, group *entities.Group) error {
	if err := db.WithContext(ctx).Create(group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("groupRepo.CreateGroup: 创建群组失败: %w", err)
	}
	return nil
}

// GetGroupByID 实现接口方法，按主键与类型检索群组。
func (r *groupRepository) GetGroupByID(ctx context.Context, groupType enums.GroupType, groupID uint) (*entities.Group, error) {
	var group entities.Group
	err := r.db.WithContext(ctx).
		Where("id = ? AND group_type = ?", groupID, groupType).
		First(&group).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("groupRepo.GetGroupByID: 查询群组失败 (ID: %d): %w", groupID, err)
	}
	return &group, nil
}

// ListGroups 实现接口方法，按条件检索群组列表。
func (r *groupRepository) ListGroups(ctx context.Context, groupType enums.GroupType, filter GroupListFilter) ([]*entities.Group, error) {
	query := r.db.WithContext(ctx).Where("group_type = ?", groupType)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Date != nil {
		dayStart := filter.Date.Truncate(24 * time.Hour)
		query = query.Where("meeting_at >= ? AND meeting_at < ?", dayStart, dayStart.Add(24*time.Hour))
	}
	if groupType == enums.GroupTypeThunder {
		query = query.Order("meeting_at")
	}

	var groups []*entities.Group
	if err := query.Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("groupRepo.ListGroups: 查询群组列表失败 (类型: %s): %w", groupType, err)
	}
	return groups, nil
}

// UpdateGroup 实现接口方法，更新群组元数据。
func (r *groupRepository) UpdateGroup(ctx context.Context, group *entities.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("groupRepo.UpdateGroup: 更新群组失败 (ID: %d): %w", group.ID, err)
	}
	return nil
}

// DeleteGroup 实现接口方法，删除群组。
func (r *groupRepository) DeleteGroup(ctx context.Context, db *gorm.DB, groupID uint) error {
	result := db.WithContext(ctx).Where("id = ?", groupID).Delete(&entities.Group{})
	if result.Error != nil {
		return fmt.Errorf("groupRepo.DeleteGroup: 删除群组失败 (ID: %d): %w", groupID, result.Error)
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
