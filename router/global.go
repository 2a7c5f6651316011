package router

import (
	"time"

	"github.com/Xushengqwer/go-common/core"
	commonMiddleware "github.com/Xushengqwer/go-common/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Xushengqwer/meetup_hub/config"
	"github.com/Xushengqwer/meetup_hub/constants"
	"github.com/Xushengqwer/meetup_hub/controller"
	"github.com/Xushengqwer/meetup_hub/dependencies"
	_ "github.com/Xushengqwer/meetup_hub/docs" // 引入 docs 包以注册 Swagger 信息
	"github.com/Xushengqwer/meetup_hub/initialization"
	"github.com/Xushengqwer/meetup_hub/middleware"
)

// SetupRouter 初始化并配置 Gin 引擎，注册所有中间件和路由。
// 设计目的:
//   - 作为应用路由配置的统一入口点。
//   - 应用全局中间件，处理通用逻辑如追踪、日志、错误恢复、超时。
//   - 创建 API 版本分组（/api/v1/meetup-hub），并按是否需要登录分成公开组与受保护组。
//   - 实例化所有控制器，并将它们的路由注册到相应的分组下。
func SetupRouter(
	logger *core.ZapLogger,
	cfg *config.MeetupHubConfig,
	sessionToken dependencies.SessionTokenInterface,
	appServices *initialization.AppServices,
) *gin.Engine {
	logger.Info("开始设置 Gin 路由...")

	router := gin.New()

	// 1. OTel Middleware (最先，处理追踪上下文和 Span)
	router.Use(otelgin.Middleware(constants.ServiceName))

	// 2. Panic Recovery (捕获后续中间件和 handler 的 panic)
	router.Use(commonMiddleware.ErrorHandlingMiddleware(logger))

	// 3. Request Logger (记录访问日志，需要 TraceID)
	if baseLogger := logger.Logger(); baseLogger != nil {
		router.Use(commonMiddleware.RequestLoggerMiddleware(baseLogger))
	} else {
		logger.Warn("无法获取底层的 *zap.Logger，跳过 RequestLoggerMiddleware 注册")
	}

	// 4. Request Timeout (超时控制)
	requestTimeout := time.Duration(cfg.ServerConfig.RequestTimeout) * time.Second
	router.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))

	// 5. 创建 API 版本分组
	v1 := router.Group("api/v1/meetup-hub")
	logger.Info("API 路由将注册到 api/v1/meetup-hub 分组下")

	// 受保护分组: 统一的会话校验。Authorization 头优先于会话 Cookie，
	// 任何校验失败都会得到同一个 401 响应。
	protected := v1.Group("")
	protected.Use(middleware.RequireSession(sessionToken, cfg.CookieConfig))

	// 6. 初始化所有控制器
	accountCtrl := controller.NewAccountController(appServices.Account, logger, cfg.CookieConfig)
	socialCtrl := controller.NewSocialController(appServices.Social, logger, cfg.CookieConfig)
	groupCtrl := controller.NewGroupController(appServices.Group, logger)
	membershipCtrl := controller.NewMembershipController(appServices.Membership, logger)
	memberCtrl := controller.NewMemberController(appServices.Member, logger)

	// 7. 注册路由
	accountCtrl.RegisterRoutes(v1)
	socialCtrl.RegisterRoutes(v1)
	groupCtrl.RegisterPublicRoutes(v1)
	groupCtrl.RegisterProtectedRoutes(protected)
	membershipCtrl.RegisterRoutes(protected)
	memberCtrl.RegisterRoutes(protected)

	logger.Info("所有业务路由已成功注册")

	// 8. 配置 Swagger UI 路由，访问路径: /swagger/index.html
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logger.Info("Swagger UI 路由已注册，访问路径: /swagger/index.html")

	return router
}
