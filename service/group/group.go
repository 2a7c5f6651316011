package group

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/models/vo"
	"github.com/Xushengqwer/meetup_hub/repository/mysql"
)

// 群组管理的业务错误。
var (
	ErrGroupNotFound  = errors.New("群组不存在")
	ErrGroupNameTaken = errors.New("同类型下已存在同名群组")
	ErrNotOwner       = errors.New("仅群组创建者可执行此操作")
	ErrBadTimeFormat  = errors.New("时间格式不合法")
)

// GroupService 定义了群组（俱乐部与闪电聚会）管理的服务接口。
type GroupService interface {
	// CreateClub 创建俱乐部，创建者自动写入管理员成员行。
	CreateClub(ctx context.Context, creatorID string, data *dto.CreateClubData) (*vo.CreatedGroup, error)

	// CreateThunder 创建闪电聚会，data.Time 为 RFC3339 时间串。
	CreateThunder(ctx context.Context, creatorID string, data *dto.CreateThunderData) (*vo.CreatedGroup, error)

	// ListGroups 按类型列出群组，支持分类/地区/日期筛选。
	ListGroups(ctx context.Context, groupType enums.GroupType, query *dto.GroupListQuery) ([]vo.GroupSummary, error)

	// GetGroupDetail 查看群组详情。
	GetGroupDetail(ctx context.Context, groupType enums.GroupType, groupID uint) (*vo.GroupDetail, error)

	// ModifyGroup 修改群组信息，仅创建者可操作。
	ModifyGroup(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string, data *dto.ModifyGroupData) error

	// DeleteGroup 解散群组，仅创建者可操作；级联删除全部成员关系。
	DeleteGroup(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string) error
}

type groupService struct {
	groupRepo      mysql.GroupRepository      // 群组仓库
	membershipRepo mysql.MembershipRepository // 成员关系仓库
	db             *gorm.DB                   // 数据库连接
	logger         *core.ZapLogger            // 日志记录器
}

func NewGroupService(
	groupRepo mysql.GroupRepository,
	membershipRepo mysql.MembershipRepository,
	db *gorm.DB,
	logger *core.ZapLogger,
) GroupService {
	return &groupService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		db:             db,
		logger:         logger,
	}
}

// CreateClub 实现接口方法。
func (s *groupService) CreateClub(ctx context.Context, creatorID string, data *dto.CreateClubData) (*vo.CreatedGroup, error) {
	const operation = "GroupService.CreateClub"

	group := &entities.Group{
		GroupType:   enums.GroupTypeClub,
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
		Region:      data.Region,
		CreatedBy:   creatorID,
	}
	return s.create(ctx, operation, group)
}

// CreateThunder 实现接口方法。
func (s *groupService) CreateThunder(ctx context.Context, creatorID string, data *dto.CreateThunderData) (*vo.CreatedGroup, error) {
	const operation = "GroupService.CreateThunder"

	meetingAt, err := time.Parse(time.RFC3339, data.Time)
	if err != nil {
		return nil, ErrBadTimeFormat
	}

	group := &entities.Group{
		GroupType:   enums.GroupTypeThunder,
		Name:        data.Title,
		Description: data.Description,
		Category:    data.Category,
		Region:      data.Region,
		MeetingAt:   &meetingAt,
		CreatedBy:   creatorID,
	}
	return s.create(ctx, operation, group)
}

// create 落库并把创建者写为管理员(admin/approved)，两步在同一事务内。
func (s *groupService) create(ctx context.Context, operation string, group *entities.Group) (*vo.CreatedGroup, error) {
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.groupRepo.CreateGroup(ctx, tx, group); err != nil {
			return err
		}
		owner := &entities.Membership{
			GroupID:  group.ID,
			MemberID: group.CreatedBy,
			Role:     enums.RoleAdmin,
			Status:   enums.StatusApproved,
		}
		return s.membershipRepo.CreateMembership(ctx, tx, owner)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, ErrGroupNameTaken
		}
		s.logger.Error("创建群组事务失败",
			zap.String("operation", operation),
			zap.String("name", group.Name),
			zap.Error(txErr),
		)
		return nil, commonerrors.ErrSystemError
	}

	s.logger.Info("群组创建成功",
		zap.String("operation", operation),
		zap.Uint("groupID", group.ID),
		zap.String("creatorID", group.CreatedBy),
	)
	return &vo.CreatedGroup{GroupID: group.ID}, nil
}

// ListGroups 实现接口方法。
func (s *groupService) ListGroups(ctx context.Context, groupType enums.GroupType, query *dto.GroupListQuery) ([]vo.GroupSummary, error) {
	const operation = "GroupService.ListGroups"

	filter := mysql.GroupListFilter{
		Category: query.Category,
		Region:   query.Region,
	}
	if query.Date != "" {
		day, err := time.Parse("2006-01-02", query.Date)
		if err != nil {
			return nil, ErrBadTimeFormat
		}
		filter.Date = &day
	}

	groups, err := s.groupRepo.ListGroups(ctx, groupType, filter)
	if err != nil {
		s.logger.Error("查询群组列表失败",
			zap.String("operation", operation),
			zap.String("groupType", string(groupType)),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	summaries := make([]vo.GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, vo.GroupSummary{
			GroupID:   g.ID,
			Name:      g.Name,
			Category:  g.Category,
			Region:    g.Region,
			MeetingAt: formatMeetingAt(g.MeetingAt),
		})
	}
	return summaries, nil
}

// GetGroupDetail 实现接口方法。
func (s *groupService) GetGroupDetail(ctx context.Context, groupType enums.GroupType, groupID uint) (*vo.GroupDetail, error) {
	const operation = "GroupService.GetGroupDetail"

	group, err := s.groupRepo.GetGroupByID(ctx, groupType, groupID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询群组详情失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	return &vo.GroupDetail{
		GroupID:     group.ID,
		Name:        group.Name,
		Description: group.Description,
		Category:    group.Category,
		Region:      group.Region,
		MeetingAt:   formatMeetingAt(group.MeetingAt),
		CreatedBy:   group.CreatedBy,
	}, nil
}

// ModifyGroup 实现接口方法，零值字段不更新。
func (s *groupService) ModifyGroup(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string, data *dto.ModifyGroupData) error {
	const operation = "GroupService.ModifyGroup"

	group, err := s.requireOwner(ctx, operation, groupType, groupID, operatorID)
	if err != nil {
		return err
	}

	if data.Name != "" {
		group.Name = data.Name
	}
	if data.Description != "" {
		group.Description = data.Description
	}
	if data.Category != "" {
		group.Category = data.Category
	}
	if data.Region != "" {
		group.Region = data.Region
	}
	if data.Time != "" {
		if groupType != enums.GroupTypeThunder {
			return ErrBadTimeFormat
		}
		meetingAt, parseErr := time.Parse(time.RFC3339, data.Time)
		if parseErr != nil {
			return ErrBadTimeFormat
		}
		group.MeetingAt = &meetingAt
	}

	if err := s.groupRepo.UpdateGroup(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrGroupNameTaken
		}
		s.logger.Error("更新群组失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}
	return nil
}

// DeleteGroup 实现接口方法。
func (s *groupService) DeleteGroup(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string) error {
	const operation = "GroupService.DeleteGroup"

	if _, err := s.requireOwner(ctx, operation, groupType, groupID, operatorID); err != nil {
		return err
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.membershipRepo.DeleteByGroupID(ctx, tx, groupID); err != nil {
			return err
		}
		return s.groupRepo.DeleteGroup(ctx, tx, groupID)
	})
	if txErr != nil {
		s.logger.Error("解散群组事务失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.Error(txErr),
		)
		return commonerrors.ErrSystemError
	}

	s.logger.Info("群组已解散",
		zap.String("operation", operation),
		zap.Uint("groupID", groupID),
		zap.String("operatorID", operatorID),
	)
	return nil
}

// requireOwner 取出群组并校验操作者是创建者。
func (s *groupService) requireOwner(ctx context.Context, operation string, groupType enums.GroupType, groupID uint, operatorID string) (*entities.Group, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, groupType, groupID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询群组失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}
	if group.CreatedBy != operatorID {
		return nil, ErrNotOwner
	}
	return group, nil
}

func formatMeetingAt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
