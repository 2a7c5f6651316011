package member

import (
	"context"
	"testing"

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

func newMemberFixture(t *testing.T) (MemberService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.Member{},
		&entities.SocialIdentity{},
		&entities.Group{},
		&entities.Membership{},
	))

	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error"})
	require.NoError(t, err)

	service := NewMemberService(
		mysql.NewMemberRepository(db),
		mysql.NewSocialIdentityRepository(db),
		mysql.NewMembershipRepository(db),
		db,
		logger,
	)
	return service, db
}

func seedMember(t *testing.T, db *gorm.DB, nickname string) string {
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

func TestGetProfile(t *testing.T) {
	service, db := newMemberFixture(t)
	memberID := seedMember(t, db, "小明")

	profile, err := service.GetProfile(context.Background(), memberID)
	require.NoError(t, err)
	assert.Equal(t, "小明", profile.Nickname)
	assert.Equal(t, string(enums.LoginTypeLocal), profile.LoginType)
}

func TestGetProfileListsLinkedProviders(t *testing.T) {
	service, db := newMemberFixture(t)
	memberID := seedMember(t, db, "小明")

	require.NoError(t, db.Create(&entities.SocialIdentity{
		MemberID:      memberID,
		Provider:      enums.LoginTypeKakao,
		ProviderToken: "tok-1",
	}).Error)

	profile, err := service.GetProfile(context.Background(), memberID)
	require.NoError(t, err)
	assert.Equal(t, []string{string(enums.LoginTypeKakao)}, profile.LinkedProviders)
}

func TestGetProfileMissing(t *testing.T) {
	service, _ := newMemberFixture(t)

	_, err := service.GetProfile(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestUpdateProfileNicknameConflict(t *testing.T) {
	service, db := newMemberFixture(t)
	ctx := context.Background()
	memberID := seedMember(t, db, "小明")
	seedMember(t, db, "小红")

	err := service.UpdateProfile(ctx, memberID, &dto.UpdateProfileData{Nickname: "小红"})
	assert.ErrorIs(t, err, ErrNicknameTaken)

	require.NoError(t, service.UpdateProfile(ctx, memberID, &dto.UpdateProfileData{Nickname: "大明"}))
	profile, err := service.GetProfile(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, "大明", profile.Nickname)
}

func TestWithdrawRemovesMembershipsAndIdentities(t *testing.T) {
	service, db := newMemberFixture(t)
	ctx := context.Background()
	memberID := seedMember(t, db, "小明")

	require.NoError(t, db.Create(&entities.SocialIdentity{
		MemberID:      memberID,
		Provider:      enums.LoginTypeKakao,
		ProviderToken: "tok-1",
	}).Error)
	require.NoError(t, db.Create(&entities.Membership{
		GroupID:  1,
		MemberID: memberID,
		Role:     enums.RoleMember,
		Status:   enums.StatusApproved,
	}).Error)

	require.NoError(t, service.Withdraw(ctx, memberID))

	var memberships, identities int64
	require.NoError(t, db.Model(&entities.Membership{}).Where("member_id = ?", memberID).Count(&memberships).Error)
	require.NoError(t, db.Model(&entities.SocialIdentity{}).Where("member_id = ?", memberID).Count(&identities).Error)
	assert.Zero(t, memberships)
	assert.Zero(t, identities)

	_, err := service.GetProfile(ctx, memberID)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

// 注销必须物理删除会员行，登录键与昵称的唯一索引随之释放。
func TestWithdrawFreesUniqueKeys(t *testing.T) {
	service, db := newMemberFixture(t)
	ctx := context.Background()
	memberID := seedMember(t, db, "小明")

	require.NoError(t, service.Withdraw(ctx, memberID))

	// 同登录键、同昵称的新会员可以立即创建
	assert.NotEqual(t, memberID, seedMember(t, db, "小明"))

	var count int64
	require.NoError(t, db.Model(&entities.Member{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
