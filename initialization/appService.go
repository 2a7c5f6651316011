package initialization

import (
	"github.com/Xushengqwer/meetup_hub/repository/mysql"
	"github.com/Xushengqwer/meetup_hub/repository/redis"
	"github.com/Xushengqwer/meetup_hub/service/group"
	"github.com/Xushengqwer/meetup_hub/service/login/auth"
	"github.com/Xushengqwer/meetup_hub/service/login/oAuth"
	"github.com/Xushengqwer/meetup_hub/service/member"
	"github.com/Xushengqwer/meetup_hub/service/membership"
)

// AppServices 封装了应用所需的所有服务层实例。
type AppServices struct {
	Account    auth.AccountService          // 账号密码认证
	Social     oAuth.SocialLoginService     // 第三方登录
	Group      group.GroupService           // 群组管理
	Membership membership.MembershipService // 成员资格状态机
	Member     member.MemberService         // 会员资料与注销
}

// SetupServices 初始化所有仓库层和服务层实例。
func SetupServices(deps *AppDependencies) *AppServices {
	// 1. 初始化 MySQL 仓库实例
	memberRepo := mysql.NewMemberRepository(deps.DB)
	socialRepo := mysql.NewSocialIdentityRepository(deps.DB)
	groupRepo := mysql.NewGroupRepository(deps.DB)
	membershipRepo := mysql.NewMembershipRepository(deps.DB)

	// 2. 初始化 Redis 仓库实例
	oauthStateRepo := redis.NewOAuthStateRepo(deps.RedisClient)

	// 3. 初始化服务层实例
	accountService := auth.NewAccountService(
		memberRepo,
		deps.SessionToken,
		deps.DB,
		deps.Logger,
	)

	socialService := oAuth.NewSocialLoginService(
		memberRepo,
		socialRepo,
		oauthStateRepo,
		deps.OAuthClients,
		deps.SessionToken,
		deps.DB,
		deps.Logger,
	)

	groupService := group.NewGroupService(
		groupRepo,
		membershipRepo,
		deps.DB,
		deps.Logger,
	)

	membershipService := membership.NewMembershipService(
		groupRepo,
		membershipRepo,
		deps.DB,
		deps.Logger,
	)

	memberService := member.NewMemberService(
		memberRepo,
		socialRepo,
		membershipRepo,
		deps.DB,
		deps.Logger,
	)

	return &AppServices{
		Account:    accountService,
		Social:     socialService,
		Group:      groupService,
		Membership: membershipService,
		Member:     memberService,
	}
}
