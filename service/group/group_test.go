package group

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
)

func newGroupFixture(t *testing.T) (GroupService, *gorm.DB, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Member{}, &entities.Group{}, &entities.Membership{}))

	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error"})
	require.NoError(t, err)

	owner := &entities.Member{
		MemberID:  uuid.New().String(),
		LoginKey:  "owner",
		LoginType: enums.LoginTypeLocal,
		Nickname:  "社长",
	}
	require.NoError(t, db.Create(owner).Error)

	service := NewGroupService(mysql.NewGroupRepository(db), mysql.NewMembershipRepository(db), db, logger)
	return service, db, owner.MemberID
}

func clubData(name string) *dto.CreateClubData {
	return &dto.CreateClubData{
		Name:        name,
		Description: "一起跑步",
		Category:    "运动",
		Region:      "首尔",
	}
}

func thunderData(name, meetingAt string) *dto.CreateThunderData {
	return &dto.CreateThunderData{
		Title:       name,
		Description: "临时局",
		Category:    "桌游",
		Region:      "首尔",
		Time:        meetingAt,
	}
}

func TestCreateClubWritesOwnerMembership(t *testing.T) {
	service, db, ownerID := newGroupFixture(t)

	created, err := service.CreateClub(context.Background(), ownerID, clubData("晨跑俱乐部"))
	require.NoError(t, err)
	require.NotZero(t, created.GroupID)

	var row entities.Membership
	require.NoError(t, db.Where("group_id = ? AND member_id = ?", created.GroupID, ownerID).First(&row).Error)
	assert.Equal(t, enums.RoleAdmin, row.Role)
	assert.Equal(t, enums.StatusApproved, row.Status)
}

func TestCreateClubDuplicateName(t *testing.T) {
	service, _, ownerID := newGroupFixture(t)
	ctx := context.Background()

	_, err := service.CreateClub(ctx, ownerID, clubData("晨跑俱乐部"))
	require.NoError(t, err)

	_, err = service.CreateClub(ctx, ownerID, clubData("晨跑俱乐部"))
	assert.ErrorIs(t, err, ErrGroupNameTaken)
}

// 名称唯一性按类型划分，俱乐部和闪电聚会可以同名。
func TestSameNameAcrossTypesAllowed(t *testing.T) {
	service, _, ownerID := newGroupFixture(t)
	ctx := context.Background()
	meetingAt := time.Now().Add(48 * time.Hour).Format(time.RFC3339)

	_, err := service.CreateClub(ctx, ownerID, clubData("周末同好会"))
	require.NoError(t, err)

	_, err = service.CreateThunder(ctx, ownerID, thunderData("周末同好会", meetingAt))
	assert.NoError(t, err)
}

func TestCreateThunderRequiresValidTime(t *testing.T) {
	service, _, ownerID := newGroupFixture(t)

	_, err := service.CreateThunder(context.Background(), ownerID, thunderData("周五桌游局", "明天下午"))
	assert.ErrorIs(t, err, ErrBadTimeFormat)
}

func TestModifyRequiresOwner(t *testing.T) {
	service, db, ownerID := newGroupFixture(t)
	ctx := context.Background()

	created, err := service.CreateClub(ctx, ownerID, clubData("晨跑俱乐部"))
	require.NoError(t, err)

	other := &entities.Member{
		MemberID:  uuid.New().String(),
		LoginKey:  "other",
		LoginType: enums.LoginTypeLocal,
		Nickname:  "路人",
	}
	require.NoError(t, db.Create(other).Error)

	err = service.ModifyGroup(ctx, enums.GroupTypeClub, created.GroupID, other.MemberID, &dto.ModifyGroupData{Description: "改掉"})
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, service.ModifyGroup(ctx, enums.GroupTypeClub, created.GroupID, ownerID, &dto.ModifyGroupData{Description: "新简介"}))
	detail, err := service.GetGroupDetail(ctx, enums.GroupTypeClub, created.GroupID)
	require.NoError(t, err)
	assert.Equal(t, "新简介", detail.Description)
}

func TestModifyClubRejectsMeetingTime(t *testing.T) {
	service, _, ownerID := newGroupFixture(t)
	ctx := context.Background()

	created, err := service.CreateClub(ctx, ownerID, clubData("晨跑俱乐部"))
	require.NoError(t, err)

	err = service.ModifyGroup(ctx, enums.GroupTypeClub, created.GroupID, ownerID, &dto.ModifyGroupData{
		Time: time.Now().Format(time.RFC3339),
	})
	assert.ErrorIs(t, err, ErrBadTimeFormat)
}

func TestDeleteGroupCascadesMemberships(t *testing.T) {
	service, db, ownerID := newGroupFixture(t)
	ctx := context.Background()

	created, err := service.CreateClub(ctx, ownerID, clubData("晨跑俱乐部"))
	require.NoError(t, err)

	require.NoError(t, service.DeleteGroup(ctx, enums.GroupTypeClub, created.GroupID, ownerID))

	var count int64
	require.NoError(t, db.Model(&entities.Membership{}).Where("group_id = ?", created.GroupID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = service.GetGroupDetail(ctx, enums.GroupTypeClub, created.GroupID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestListFiltersThunderByDate(t *testing.T) {
	service, _, ownerID := newGroupFixture(t)
	ctx := context.Background()

	saturday := time.Date(2026, 9, 5, 14, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 9, 6, 10, 0, 0, 0, time.UTC)
	_, err := service.CreateThunder(ctx, ownerID, thunderData("周六局", saturday.Format(time.RFC3339)))
	require.NoError(t, err)
	_, err = service.CreateThunder(ctx, ownerID, thunderData("周日局", sunday.Format(time.RFC3339)))
	require.NoError(t, err)

	all, err := service.ListGroups(ctx, enums.GroupTypeThunder, &dto.GroupListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlySaturday, err := service.ListGroups(ctx, enums.GroupTypeThunder, &dto.GroupListQuery{Date: "2026-09-05"})
	require.NoError(t, err)
	require.Len(t, onlySaturday, 1)
	assert.Equal(t, "周六局", onlySaturday[0].Name)
}

func TestListFiltersByCategoryAndRegion(t *testing.T) {
	service, _, ownerID := newGroupFixture(t)
	ctx := context.Background()

	_, err := service.CreateClub(ctx, ownerID, clubData("晨跑俱乐部"))
	require.NoError(t, err)
	_, err = service.CreateClub(ctx, ownerID, &dto.CreateClubData{
		Name: "读书会", Description: "每周一本", Category: "读书", Region: "釜山",
	})
	require.NoError(t, err)

	sports, err := service.ListGroups(ctx, enums.GroupTypeClub, &dto.GroupListQuery{Category: "运动"})
	require.NoError(t, err)
	require.Len(t, sports, 1)
	assert.Equal(t, "晨跑俱乐部", sports[0].Name)

	busan, err := service.ListGroups(ctx, enums.GroupTypeClub, &dto.GroupListQuery{Region: "釜山"})
	require.NoError(t, err)
	require.Len(t, busan, 1)
	assert.Equal(t, "读书会", busan[0].Name)
}
