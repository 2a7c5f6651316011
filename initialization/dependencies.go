package initialization

import (
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/meetup_hub/config"
	"github.com/Xushengqwer/meetup_hub/dependencies"
	"github.com/Xushengqwer/meetup_hub/models/enums"
	"github.com/Xushengqwer/meetup_hub/utils"
)

// AppDependencies 封装了应用运行所需的所有基础依赖项。
// 设计目的:
//   - 将各个独立的依赖（数据库连接、Redis客户端、配置、日志等）聚合到一个结构体中。
//   - 方便在应用的不同层（如服务层、控制器层）之间传递这些共享的依赖。
type AppDependencies struct {
	Config       *config.MeetupHubConfig                              // 应用的全局配置
	Logger       *core.ZapLogger                                      // Zap 日志记录器实例
	DB           *gorm.DB                                             // GORM 数据库连接实例
	RedisClient  *redis.Client                                        // Redis v9 客户端实例
	SessionToken dependencies.SessionTokenInterface                   // 会话令牌工具实例
	OAuthClients map[enums.LoginType]dependencies.OAuthProviderClient // 各第三方提供商的 OAuth 客户端
}

// SetupDependencies 初始化应用所需的所有基础依赖项。
// 设计目的:
//   - 按正确的顺序创建和配置各个依赖组件（验证器、数据库、Redis、令牌工具、OAuth 客户端）。
//   - 处理初始化过程中可能出现的错误。
//   - 返回一个包含所有已初始化依赖的 AppDependencies 结构体。
func SetupDependencies(cfg *config.MeetupHubConfig, logger *core.ZapLogger) (*AppDependencies, error) {
	var deps AppDependencies
	deps.Config = cfg
	deps.Logger = logger

	// 1. 注册自定义验证器
	//    - 这是应用启动时需要完成的基础设置。
	if err := utils.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("注册自定义验证器失败: %w", err)
	}
	logger.Info("自定义验证器注册成功")

	// 2. 初始化数据库连接 (MySQL)
	db, err := dependencies.InitMySQL(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}
	deps.DB = db
	logger.Info("数据库连接初始化成功")

	// 3. 初始化 Redis 连接
	redisClient, err := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化 Redis 失败: %w", err)
	}
	deps.RedisClient = redisClient
	logger.Info("Redis 连接初始化成功")

	// 4. 初始化会话令牌工具
	deps.SessionToken = dependencies.NewSessionTokenUtility(&cfg.JWTConfig)
	logger.Info("会话令牌工具初始化成功")

	// 5. 初始化第三方 OAuth 客户端
	//    - 未配置的提供商会被跳过，仅配置齐全的提供商可用。
	deps.OAuthClients = dependencies.NewOAuthClients(&cfg.OAuthConfig)
	logger.Info("第三方 OAuth 客户端初始化完成", zap.Int("providers", len(deps.OAuthClients)))

	logger.Info("所有基础依赖项初始化完成")
	return &deps, nil
}
