package membership

import (
	"context"
	"testing"
	"time"

	commonconfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/repository/mysql"
	"github.com/Xushengqwer/meetup_hub/service/group"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.Member{},
		&entities.SocialIdentity{},
		&entities.Group{},
		&entities.Membership{},
	))
	return db
}

func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error"})
	require.NoError(t, err)
	return logger
}

func createMember(t *testing.T, db *gorm.DB, nickname string) string {
	t.Helper()
	member := &entities.Member{
		MemberID:  uuid.New().String(),
		LoginKey:  nickname,
		LoginType: enums.LoginTypeLocal,
		Nickname:  nickname,
	}
	require.NoError(t, db.Create(member).Error)
	return member.MemberID
}

type fixture struct {
	db         *gorm.DB
	groups     group.GroupService
	membership MembershipService
	ownerID    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	logger := newTestLogger(t)
	groupRepo := mysql.NewGroupRepository(db)
	membershipRepo := mysql.NewMembershipRepository(db)
	return &fixture{
		db:         db,
		groups:     group.NewGroupService(groupRepo, membershipRepo, db, logger),
		membership: NewMembershipService(groupRepo, membershipRepo, db, logger),
		ownerID:    createMember(t, db, "社长"),
	}
}

func (f *fixture) createClub(t *testing.T, name string) uint {
	t.Helper()
	created, err := f.groups.CreateClub(context.Background(), f.ownerID, &dto.CreateClubData{
		Name:        name,
		Description: "一起跑步",
		Category:    "运动",
		Region:      "首尔",
	})
	require.NoError(t, err)
	return created.GroupID
}

func (f *fixture) createThunder(t *testing.T, name string) uint {
	t.Helper()
	created, err := f.groups.CreateThunder(context.Background(), f.ownerID, &dto.CreateThunderData{
		Title:       name,
		Description: "临时局",
		Category:    "桌游",
		Region:      "首尔",
		Time:        time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	return created.GroupID
}

func manageData(memberID, action string) *dto.ManageMemberData {
	return &dto.ManageMemberData{MemberID: memberID, Action: action}
}

func TestJoinClubEntersPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	memberID := createMember(t, f.db, "小明")

	status, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusPending, status)
}

func TestJoinThunderApprovedImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	thunderID := f.createThunder(t, "周五桌游局")
	memberID := createMember(t, f.db, "小红")

	status, err := f.membership.Join(ctx, enums.GroupTypeThunder, thunderID, memberID)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusApproved, status)
}

func TestJoinTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	memberID := createMember(t, f.db, "小明")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)

	// 第二次申请命中唯一约束，与首次申请处于何种状态无关
	_, err = f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestJoinMissingGroup(t *testing.T) {
	f := newFixture(t)
	memberID := createMember(t, f.db, "小明")

	_, err := f.membership.Join(context.Background(), enums.GroupTypeClub, 9999, memberID)
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
}

func TestJoinWrongTypeTreatedAsMissing(t *testing.T) {
	f := newFixture(t)
	clubID := f.createClub(t, "晨跑俱乐部")
	memberID := createMember(t, f.db, "小明")

	// 用闪电聚会的路径访问俱乐部，等同于群组不存在
	_, err := f.membership.Join(context.Background(), enums.GroupTypeThunder, clubID, memberID)
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
}

func TestOwnerApprovesWithoutMembershipCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	memberID := createMember(t, f.db, "小明")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)

	err = f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(memberID, "approve"))
	require.NoError(t, err)

	var row entities.Membership
	require.NoError(t, f.db.Where("group_id = ? AND member_id = ?", clubID, memberID).First(&row).Error)
	assert.Equal(t, enums.StatusApproved, row.Status)
}

func TestApproveNonPendingFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	memberID := createMember(t, f.db, "小明")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)
	require.NoError(t, f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(memberID, "approve")))

	// 已通过的行再次审批: 条件更新影响 0 行
	err = f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(memberID, "approve"))
	assert.ErrorIs(t, err, ErrNotPending)

	err = f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(memberID, "reject"))
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestManageMissingMembershipNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	strangerID := createMember(t, f.db, "路人甲")

	// 从未申请加入的成员: 区别于"不在待审批状态"，按未找到处理
	err := f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(strangerID, "approve"))
	assert.ErrorIs(t, err, ErrMembershipNotFound)

	err = f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(strangerID, "promote"))
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestRejectedMemberStaysRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	memberID := createMember(t, f.db, "小明")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)
	require.NoError(t, f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(memberID, "reject")))

	// 被拒绝后重新申请仍然冲突，必须先退出
	_, err = f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestNonAdminCannotManage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	applicant := createMember(t, f.db, "小明")
	outsider := createMember(t, f.db, "路人")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, applicant)
	require.NoError(t, err)

	err = f.membership.Manage(ctx, enums.GroupTypeClub, clubID, outsider, manageData(applicant, "approve"))
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// 普通成员（已通过但非管理员）同样无权审批
	approved := createMember(t, f.db, "小红")
	_, err = f.membership.Join(ctx, enums.GroupTypeClub, clubID, approved)
	require.NoError(t, err)
	require.NoError(t, f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(approved, "approve")))

	err = f.membership.Manage(ctx, enums.GroupTypeClub, clubID, approved, manageData(applicant, "approve"))
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestPromotedAdminCanManage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	admin := createMember(t, f.db, "副社长")
	applicant := createMember(t, f.db, "小明")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, admin)
	require.NoError(t, err)
	require.NoError(t, f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(admin, "approve")))
	require.NoError(t, f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(admin, "promote")))

	_, err = f.membership.Join(ctx, enums.GroupTypeClub, clubID, applicant)
	require.NoError(t, err)
	require.NoError(t, f.membership.Manage(ctx, enums.GroupTypeClub, clubID, admin, manageData(applicant, "approve")))
}

func TestPromotePendingMemberFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	memberID := createMember(t, f.db, "小明")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)

	err = f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(memberID, "promote"))
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestManageSelfRejected(t *testing.T) {
	f := newFixture(t)
	clubID := f.createClub(t, "晨跑俱乐部")

	err := f.membership.Manage(context.Background(), enums.GroupTypeClub, clubID, f.ownerID, manageData(f.ownerID, "approve"))
	assert.ErrorIs(t, err, ErrSelfTarget)

	err = f.membership.Ban(context.Background(), enums.GroupTypeClub, clubID, f.ownerID, f.ownerID)
	assert.ErrorIs(t, err, ErrSelfTarget)
}

func TestBanThenRejoin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	memberID := createMember(t, f.db, "小明")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)
	require.NoError(t, f.membership.Manage(ctx, enums.GroupTypeClub, clubID, f.ownerID, manageData(memberID, "approve")))

	require.NoError(t, f.membership.Ban(ctx, enums.GroupTypeClub, clubID, f.ownerID, memberID))

	// 踢出后成员行已删除，允许重新申请
	status, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusPending, status)
}

func TestBanMissingMembership(t *testing.T) {
	f := newFixture(t)
	clubID := f.createClub(t, "晨跑俱乐部")
	outsider := createMember(t, f.db, "路人")

	err := f.membership.Ban(context.Background(), enums.GroupTypeClub, clubID, f.ownerID, outsider)
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestLeaveTwiceNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	thunderID := f.createThunder(t, "周五桌游局")
	memberID := createMember(t, f.db, "小红")

	_, err := f.membership.Join(ctx, enums.GroupTypeThunder, thunderID, memberID)
	require.NoError(t, err)

	require.NoError(t, f.membership.Leave(ctx, enums.GroupTypeThunder, thunderID, memberID))
	err = f.membership.Leave(ctx, enums.GroupTypeThunder, thunderID, memberID)
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestRosterRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	memberID := createMember(t, f.db, "小明")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)

	_, err = f.membership.ListMembers(ctx, enums.GroupTypeClub, clubID, memberID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	items, err := f.membership.ListMembers(ctx, enums.GroupTypeClub, clubID, f.ownerID)
	require.NoError(t, err)
	// 创建者的成员行 + 待审批的申请
	assert.Len(t, items, 2)
}

func TestMyGroupsListsBothTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clubID := f.createClub(t, "晨跑俱乐部")
	thunderID := f.createThunder(t, "周五桌游局")
	memberID := createMember(t, f.db, "小明")

	_, err := f.membership.Join(ctx, enums.GroupTypeClub, clubID, memberID)
	require.NoError(t, err)
	_, err = f.membership.Join(ctx, enums.GroupTypeThunder, thunderID, memberID)
	require.NoError(t, err)

	items, err := f.membership.ListMyGroups(ctx, memberID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	statuses := map[enums.GroupType]enums.MembershipStatus{}
	for _, item := range items {
		statuses[item.GroupType] = item.Status
	}
	assert.Equal(t, enums.StatusPending, statuses[enums.GroupTypeClub])
	assert.Equal(t, enums.StatusApproved, statuses[enums.GroupTypeThunder])
}
