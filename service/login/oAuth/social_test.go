package oAuth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonconfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/config"
	"github.com/Xushengqwer/meetup_hub/dependencies"
	"github.com/Xushengqwer/meetup_hub/models/dto"
	"github.com/Xushengqwer/meetup_hub/models/entities"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/repository/mysql"
	"github.com/Xushengqwer/meetup_hub/service/member"
)

// fakeStateRepo 用内存 map 模拟一次性 state 存储。
type fakeStateRepo struct {
	states map[string]string
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]string)}
}

func (r *fakeStateRepo) SaveState(_ context.Context, state string, provider string, _ time.Duration) error {
	r.states[state] = provider
	return nil
}

func (r *fakeStateRepo) ConsumeState(_ context.Context, state string) (string, error) {
	provider, ok := r.states[state]
	if !ok {
		return "", commonerrors.ErrRepoNotFound
	}
	delete(r.states, state)
	return provider, nil
}

// fakeProviderClient 返回固定资料，模拟提供商；设置 err 可模拟提供商接口故障。
type fakeProviderClient struct {
	provider enums.LoginType
	profile  dto.SocialProfile
	err      error
}

func (c *fakeProviderClient) Provider() enums.LoginType { return c.provider }

func (c *fakeProviderClient) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (c *fakeProviderClient) FetchProfile(_ context.Context, _ string) (*dto.SocialProfile, error) {
	if c.err != nil {
		return nil, c.err
	}
	profile := c.profile
	return &profile, nil
}

type socialFixture struct {
	db        *gorm.DB
	service   SocialLoginService
	stateRepo *fakeStateRepo
	client    *fakeProviderClient
}

func newSocialFixture(t *testing.T, profile dto.SocialProfile) *socialFixture {
	return newSocialFixtureWithRepo(t, profile, nil)
}

// newSocialFixtureWithRepo 允许包装会员仓库，用于注入并发竞争等故障场景。
func newSocialFixtureWithRepo(
	t *testing.T,
	profile dto.SocialProfile,
	wrapRepo func(mysql.MemberRepository, *gorm.DB) mysql.MemberRepository,
) *socialFixture {
	t.Helper()
	// 用独立的临时文件库代替 ":memory:"：连接池里的每个 ":memory:" 连接
	// 各自是一个空库，会让跨连接写入的竞争场景看不到已建的表。
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "social_test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Member{}, &entities.SocialIdentity{}))

	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error"})
	require.NoError(t, err)

	stateRepo := newFakeStateRepo()
	client := &fakeProviderClient{provider: profile.Provider, profile: profile}
	clients := map[enums.LoginType]dependencies.OAuthProviderClient{profile.Provider: client}

	sessionToken := dependencies.NewSessionTokenUtility(&config.JWTConfig{
		SecretKey: "test-secret-key",
		Issuer:    "meetup-hub-test",
	})

	memberRepo := mysql.NewMemberRepository(db)
	if wrapRepo != nil {
		memberRepo = wrapRepo(memberRepo, db)
	}

	service := NewSocialLoginService(
		memberRepo,
		mysql.NewSocialIdentityRepository(db),
		stateRepo,
		clients,
		sessionToken,
		db,
		logger,
	)
	return &socialFixture{db: db, service: service, stateRepo: stateRepo, client: client}
}

func kakaoProfile(id, name, token string) dto.SocialProfile {
	return dto.SocialProfile{
		Provider:    enums.LoginTypeKakao,
		ProviderID:  id,
		DisplayName: name,
		AccessToken: token,
	}
}

func (f *socialFixture) login(t *testing.T) (string, string) {
	t.Helper()
	state := uuid.New().String()
	require.NoError(t, f.stateRepo.SaveState(context.Background(), state, string(f.client.provider), time.Minute))
	info, session, err := f.service.HandleCallback(context.Background(), f.client.provider, state, "auth-code")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	return info.MemberID, info.Nickname
}

func TestBeginLoginIssuesState(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))

	authURL, err := f.service.BeginLogin(context.Background(), enums.LoginTypeKakao)
	require.NoError(t, err)
	assert.Contains(t, authURL, "state=")
	assert.Len(t, f.stateRepo.states, 1)
}

func TestBeginLoginUnknownProvider(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))

	// google 未配置客户端
	_, err := f.service.BeginLogin(context.Background(), enums.LoginTypeGoogle)
	assert.ErrorIs(t, err, ErrProviderNotSupported)
}

func TestFirstLoginAutoRegisters(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))

	memberID, nickname := f.login(t)
	assert.NotEmpty(t, memberID)
	assert.Equal(t, "小明", nickname)

	var member entities.Member
	require.NoError(t, f.db.First(&member, "member_id = ?", memberID).Error)
	assert.Equal(t, "kakao-10001", member.LoginKey)
	assert.Equal(t, enums.LoginTypeKakao, member.LoginType)
	assert.Empty(t, member.PasswordHash)
}

func TestRepeatedLoginReturnsSameMember(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))

	firstID, _ := f.login(t)
	secondID, _ := f.login(t)
	assert.Equal(t, firstID, secondID)

	var count int64
	require.NoError(t, f.db.Model(&entities.Member{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoginRefreshesProviderToken(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))
	memberID, _ := f.login(t)

	f.client.profile.AccessToken = "tok-2"
	f.login(t)

	var identities []entities.SocialIdentity
	require.NoError(t, f.db.Where("member_id = ?", memberID).Find(&identities).Error)
	require.Len(t, identities, 1)
	assert.Equal(t, "tok-2", identities[0].ProviderToken)
}

func TestNicknameCollisionGetsSuffix(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))

	// 占用昵称的本地会员
	require.NoError(t, f.db.Create(&entities.Member{
		MemberID:  uuid.New().String(),
		LoginKey:  "local_user",
		LoginType: enums.LoginTypeLocal,
		Nickname:  "小明",
	}).Error)

	memberID, nickname := f.login(t)
	assert.NotEmpty(t, memberID)
	assert.True(t, strings.HasPrefix(nickname, "小明_"), "昵称应追加随机后缀: %s", nickname)
}

func TestEmptyDisplayNameFallsBack(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "", "tok-1"))

	_, nickname := f.login(t)
	assert.True(t, strings.HasPrefix(nickname, defaultSocialNickname))
}

func TestCallbackStateReplayRejected(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))
	ctx := context.Background()

	state := uuid.New().String()
	require.NoError(t, f.stateRepo.SaveState(ctx, state, string(enums.LoginTypeKakao), time.Minute))

	_, _, err := f.service.HandleCallback(ctx, enums.LoginTypeKakao, state, "auth-code")
	require.NoError(t, err)

	// 同一个 state 不允许二次消费
	_, _, err = f.service.HandleCallback(ctx, enums.LoginTypeKakao, state, "auth-code")
	assert.ErrorIs(t, err, ErrStateInvalid)
}

func TestCallbackUnknownStateRejected(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))

	_, _, err := f.service.HandleCallback(context.Background(), enums.LoginTypeKakao, "forged-state", "auth-code")
	assert.ErrorIs(t, err, ErrStateInvalid)
}

func TestCallbackProviderMismatchRejected(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))
	ctx := context.Background()

	// state 是为 naver 颁发的，却从 kakao 回调进来
	state := uuid.New().String()
	require.NoError(t, f.stateRepo.SaveState(ctx, state, string(enums.LoginTypeNaver), time.Minute))

	_, _, err := f.service.HandleCallback(ctx, enums.LoginTypeKakao, state, "auth-code")
	assert.ErrorIs(t, err, ErrStateInvalid)
}

func TestProviderOutageSurfaces(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))
	ctx := context.Background()

	f.client.err = errors.New("kakao: 503 service unavailable")
	state := uuid.New().String()
	require.NoError(t, f.stateRepo.SaveState(ctx, state, string(enums.LoginTypeKakao), time.Minute))

	_, _, err := f.service.HandleCallback(ctx, enums.LoginTypeKakao, state, "auth-code")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

// racingMemberRepo 在第一次条件插入前抢先写入一条同登录键的会员行，
// 模拟两个首次登录请求同时到达、对方先完成插入的时序。
type racingMemberRepo struct {
	mysql.MemberRepository
	db      *gorm.DB
	rivalID string
	raced   bool
}

func (r *racingMemberRepo) InsertIgnoreConflict(ctx context.Context, db *gorm.DB, member *entities.Member) (bool, error) {
	if !r.raced {
		r.raced = true
		rival := &entities.Member{
			MemberID:  r.rivalID,
			LoginKey:  member.LoginKey,
			LoginType: member.LoginType,
			Nickname:  "抢先注册者",
		}
		if err := r.db.Create(rival).Error; err != nil {
			return false, err
		}
	}
	return r.MemberRepository.InsertIgnoreConflict(ctx, db, member)
}

func TestConcurrentFirstLoginsYieldOneMember(t *testing.T) {
	rivalID := uuid.New().String()
	f := newSocialFixtureWithRepo(t, kakaoProfile("10001", "小明", "tok-1"),
		func(inner mysql.MemberRepository, db *gorm.DB) mysql.MemberRepository {
			return &racingMemberRepo{MemberRepository: inner, db: db, rivalID: rivalID}
		})

	// 输掉插入竞争的一方应取回对方创建的会员行并正常登录
	memberID, _ := f.login(t)
	assert.Equal(t, rivalID, memberID)

	var count int64
	require.NoError(t, f.db.Model(&entities.Member{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var identity entities.SocialIdentity
	require.NoError(t, f.db.Where("member_id = ?", rivalID).First(&identity).Error)
	assert.Equal(t, "tok-1", identity.ProviderToken)
}

func TestWithdrawnMemberCanLoginAgain(t *testing.T) {
	f := newSocialFixture(t, kakaoProfile("10001", "小明", "tok-1"))
	ctx := context.Background()
	require.NoError(t, f.db.AutoMigrate(&entities.Membership{}))

	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error"})
	require.NoError(t, err)
	memberService := member.NewMemberService(
		mysql.NewMemberRepository(f.db),
		mysql.NewSocialIdentityRepository(f.db),
		mysql.NewMembershipRepository(f.db),
		f.db,
		logger,
	)

	firstID, _ := f.login(t)
	require.NoError(t, memberService.Withdraw(ctx, firstID))

	// 注销后同一第三方身份必须能重新首次登录，唯一索引不得被残留行占用
	secondID, nickname := f.login(t)
	assert.NotEqual(t, firstID, secondID)
	assert.Equal(t, "小明", nickname)

	var count int64
	require.NoError(t, f.db.Model(&entities.Member{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
