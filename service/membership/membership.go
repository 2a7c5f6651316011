package membership

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/models/vo"
	"github.com/Xushengqwer/meetup_hub/repository/mysql"
	"github.com/Xushengqwer/meetup_hub/service/group"
)

// 成员资格的业务错误。
var (
	ErrAlreadyJoined      = errors.New("已提交过加入申请或已是成员")
	ErrMembershipNotFound = errors.New("成员资格不存在")
	ErrNotAuthorized      = errors.New("没有执行此操作的权限")
	ErrNotPending         = errors.New("该申请不在待审批状态")
	ErrNotApproved        = errors.New("该成员不在已通过状态")
	ErrSelfTarget         = errors.New("不能对自己执行此操作")
	ErrUnknownAction      = errors.New("未知的管理操作")
)

// MembershipService 定义了成员资格状态机的服务接口。
// 状态机: 不存在 → pending → {approved | rejected}；
// 闪电聚会的加入跳过 pending 直接进入 approved。
type MembershipService interface {
	// Join 申请加入群组。俱乐部进入 pending，闪电聚会直接 approved。
	// 重复申请返回 ErrAlreadyJoined，无论当前行处于何种状态。
	Join(ctx context.Context, groupType enums.GroupType, groupID uint, memberID string) (enums.MembershipStatus, error)

	// Manage 管理员对成员资格行执行 approve/reject/promote/demote。
	// 状态迁移依赖条件更新: 行已不在期望状态时影响 0 行并报错，
	// 不做先查后改。
	Manage(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string, data *dto.ManageMemberData) error

	// Ban 将成员踢出群组（删除成员行），之后允许重新申请。
	Ban(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string, targetID string) error

	// Leave 主动退出群组。行不存在（含重复退出）返回 ErrMembershipNotFound。
	Leave(ctx context.Context, groupType enums.GroupType, groupID uint, memberID string) error

	// ListMembers 查看群组成员名册，需要操作者具备管理权限。
	ListMembers(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string) ([]vo.GroupMemberItem, error)

	// ListMyGroups 查看当前会员加入的全部群组。
	ListMyGroups(ctx context.Context, memberID string) ([]vo.MyGroupItem, error)
}

type membershipService struct {
	groupRepo      mysql.GroupRepository      // 群组仓库
	membershipRepo mysql.MembershipRepository // 成员关系仓库
	db             *gorm.DB                   // 数据库连接
	logger         *core.ZapLogger            // 日志记录器
}

func NewMembershipService(
	groupRepo mysql.GroupRepository,
	membershipRepo mysql.MembershipRepository,
	db *gorm.DB,
	logger *core.ZapLogger,
) MembershipService {
	return &membershipService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		db:             db,
		logger:         logger,
	}
}

// Join 实现接口方法。
func (s *membershipService) Join(ctx context.Context, groupType enums.GroupType, groupID uint, memberID string) (enums.MembershipStatus, error) {
	const operation = "MembershipService.Join"

	grp, err := s.requireGroup(ctx, operation, groupType, groupID)
	if err != nil {
		return "", err
	}

	// 俱乐部须经审批，闪电聚会即加即入
	status := enums.StatusPending
	if groupType == enums.GroupTypeThunder {
		status = enums.StatusApproved
	}
	if grp.CreatedBy == memberID {
		// 创建者已在创建时拥有成员行，这里会命中唯一约束
		return "", ErrAlreadyJoined
	}

	membership := &entities.Membership{
		GroupID:  groupID,
		MemberID: memberID,
		Role:     enums.RoleMember,
		Status:   status,
	}
	if err := s.membershipRepo.CreateMembership(ctx, s.db, membership); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrAlreadyJoined
		}
		s.logger.Error("写入成员资格失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return "", commonerrors.ErrSystemError
	}

	s.logger.Info("加入请求已受理",
		zap.String("operation", operation),
		zap.Uint("groupID", groupID),
		zap.String("memberID", memberID),
		zap.String("status", string(status)),
	)
	return status, nil
}

// Manage 实现接口方法。
func (s *membershipService) Manage(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string, data *dto.ManageMemberData) error {
	const operation = "MembershipService.Manage"

	if data.MemberID == operatorID {
		return ErrSelfTarget
	}
	if err := s.requireAdmin(ctx, operation, groupType, groupID, operatorID); err != nil {
		return err
	}

	var (
		rows int64
		err  error
	)
	switch data.Action {
	case "approve":
		rows, err = s.membershipRepo.UpdateStatusIfPending(ctx, s.db, groupID, data.MemberID, enums.StatusApproved)
	case "reject":
		rows, err = s.membershipRepo.UpdateStatusIfPending(ctx, s.db, groupID, data.MemberID, enums.StatusRejected)
	case "promote":
		rows, err = s.membershipRepo.UpdateRoleIfApproved(ctx, s.db, groupID, data.MemberID, enums.RoleAdmin)
	case "demote":
		rows, err = s.membershipRepo.UpdateRoleIfApproved(ctx, s.db, groupID, data.MemberID, enums.RoleMember)
	default:
		return ErrUnknownAction
	}
	if err != nil {
		s.logger.Error("更新成员资格失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.String("targetID", data.MemberID),
			zap.String("action", data.Action),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}
	if rows == 0 {
		// 行不存在，或已被并发操作迁出期望状态；回读一次区分两者。
		// 写入本身仍是单条条件 UPDATE，回读只影响错误归类。
		if _, getErr := s.membershipRepo.GetMembership(ctx, groupID, data.MemberID); getErr != nil {
			if errors.Is(getErr, commonerrors.ErrRepoNotFound) {
				return ErrMembershipNotFound
			}
			s.logger.Error("回读成员资格失败",
				zap.String("operation", operation),
				zap.Uint("groupID", groupID),
				zap.String("targetID", data.MemberID),
				zap.Error(getErr),
			)
			return commonerrors.ErrSystemError
		}
		if data.Action == "approve" || data.Action == "reject" {
			return ErrNotPending
		}
		return ErrNotApproved
	}

	s.logger.Info("成员资格已更新",
		zap.String("operation", operation),
		zap.Uint("groupID", groupID),
		zap.String("targetID", data.MemberID),
		zap.String("action", data.Action),
	)
	return nil
}

// Ban 实现接口方法。
func (s *membershipService) Ban(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string, targetID string) error {
	const operation = "MembershipService.Ban"

	if targetID == operatorID {
		return ErrSelfTarget
	}
	if err := s.requireAdmin(ctx, operation, groupType, groupID, operatorID); err != nil {
		return err
	}

	rows, err := s.membershipRepo.DeleteMembership(ctx, s.db, groupID, targetID)
	if err != nil {
		s.logger.Error("踢出成员失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.String("targetID", targetID),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}
	if rows == 0 {
		return ErrMembershipNotFound
	}

	s.logger.Info("成员已被踢出",
		zap.String("operation", operation),
		zap.Uint("groupID", groupID),
		zap.String("targetID", targetID),
		zap.String("operatorID", operatorID),
	)
	return nil
}

// Leave 实现接口方法。
func (s *membershipService) Leave(ctx context.Context, groupType enums.GroupType, groupID uint, memberID string) error {
	const operation = "MembershipService.Leave"

	if _, err := s.requireGroup(ctx, operation, groupType, groupID); err != nil {
		return err
	}

	rows, err := s.membershipRepo.DeleteMembership(ctx, s.db, groupID, memberID)
	if err != nil {
		s.logger.Error("退出群组失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}
	if rows == 0 {
		return ErrMembershipNotFound
	}

	s.logger.Info("成员已退出群组",
		zap.String("operation", operation),
		zap.Uint("groupID", groupID),
		zap.String("memberID", memberID),
	)
	return nil
}

// ListMembers 实现接口方法。
func (s *membershipService) ListMembers(ctx context.Context, groupType enums.GroupType, groupID uint, operatorID string) ([]vo.GroupMemberItem, error) {
	const operation = "MembershipService.ListMembers"

	if err := s.requireAdmin(ctx, operation, groupType, groupID, operatorID); err != nil {
		return nil, err
	}

	items, err := s.membershipRepo.ListGroupMembers(ctx, groupID)
	if err != nil {
		s.logger.Error("查询成员名册失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}
	return items, nil
}

// ListMyGroups 实现接口方法。
func (s *membershipService) ListMyGroups(ctx context.Context, memberID string) ([]vo.MyGroupItem, error) {
	const operation = "MembershipService.ListMyGroups"

	items, err := s.membershipRepo.ListMemberGroups(ctx, memberID)
	if err != nil {
		s.logger.Error("查询我的群组失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}
	return items, nil
}

// requireGroup 校验群组存在且类型匹配。
func (s *membershipService) requireGroup(ctx context.Context, operation string, groupType enums.GroupType, groupID uint) (*entities.Group, error) {
	grp, err := s.groupRepo.GetGroupByID(ctx, groupType, groupID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, group.ErrGroupNotFound
		}
		s.logger.Error("查询群组失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}
	return grp, nil
}

// requireAdmin 校验操作者具备管理权限。
// 创建者直通；否则要求存在 approved 状态的 admin 成员行。
func (s *membershipService) requireAdmin(ctx context.Context, operation string, groupType enums.GroupType, groupID uint, operatorID string) error {
	grp, err := s.requireGroup(ctx, operation, groupType, groupID)
	if err != nil {
		return err
	}
	if grp.CreatedBy == operatorID {
		return nil
	}

	membership, err := s.membershipRepo.GetMembership(ctx, groupID, operatorID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return ErrNotAuthorized
		}
		s.logger.Error("查询操作者成员资格失败",
			zap.String("operation", operation),
			zap.Uint("groupID", groupID),
			zap.String("operatorID", operatorID),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}
	if membership.Role != enums.RoleAdmin || membership.Status != enums.StatusApproved {
		return ErrNotAuthorized
	}
	return nil
}
