package route

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/library/config"
	"terminal-terrace/library/internal/author"
	"terminal-terrace/library/internal/book"
	"terminal-terrace/library/internal/borrowing"
	"terminal-terrace/library/internal/database"
	"terminal-terrace/library/internal/dto"
	"terminal-terrace/library/internal/login"
	"terminal-terrace/library/internal/logout"
	"terminal-terrace/library/internal/middleware"
	"terminal-terrace/library/internal/notify"
	"terminal-terrace/library/internal/report"
	"terminal-terrace/library/internal/token"
	"terminal-terrace/library/internal/user"
	pkgdb "terminal-terrace/library/packages/database"
)

// 本地开发前端
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Dependencies 路由需要的外部资源
type Dependencies struct {
	Config *config.AppConfig
	DB     *gorm.DB
	Redis  *pkgdb.RedisClient

	// 以下为可选项, 测试中注入
	BorrowingOptions []borrowing.Option
}

// SetupRouter 使用全局配置与连接构建路由
func SetupRouter() *gin.Engine {
	return NewRouter(Dependencies{
		Config: config.Conf,
		DB:     database.PostgresDB,
		Redis:  database.RedisDB,
	})
}

func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	dto.RegisterValidators()

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger())

	allowedOrigins := defaultOrigins
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append([]string{cfg.Server.FrontendURL}, defaultOrigins...)
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	if cfg.Server.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	initRoute(r, cfg, deps)
	return r
}

func initRoute(r *gin.Engine, cfg *config.AppConfig, deps Dependencies) {
	tokens := token.NewService(
		token.NewSigner(cfg.Auth.Secret, cfg.Auth.Issuer),
		token.NewStore(deps.Redis),
		cfg.Auth.TokenTTL,
	)
	auth := middleware.NewAuth(tokens, deps.DB)

	api := r.Group("/api")
	login.RegisterRoutes(api, deps.DB, tokens)

	authed := api.Group("")
	authed.Use(auth.Required())
	{
		logout.RegisterRoutes(authed, tokens)
		user.RegisterRoutes(authed, deps.DB, tokens)
		book.RegisterRoutes(authed, deps.DB)
		author.RegisterRoutes(authed, deps.DB)
		borrowing.RegisterRoutes(authed, auth, newBorrowingService(cfg, deps))

		reports, err := report.NewRepository(deps.DB)
		if err != nil {
			zap.L().Warn("reports disabled", zap.Error(err))
		} else {
			report.RegisterRoutes(authed, report.NewReportService(reports, nil))
		}
	}
}

func newBorrowingService(cfg *config.AppConfig, deps Dependencies) *borrowing.BorrowingService {
	opts := []borrowing.Option{}
	if c := cfg.Circulation; c.LoanDays > 0 && c.MaxActiveBorrowings > 0 {
		opts = append(opts, borrowing.WithPolicy(borrowing.Policy{
			LoanDays:  c.LoanDays,
			MaxActive: c.MaxActiveBorrowings,
		}))
	}
	if n := notify.FromConfig(cfg.SMTP); n != nil {
		opts = append(opts, borrowing.WithNotifier(n))
	}
	return borrowing.NewBorrowingService(deps.DB, append(opts, deps.BorrowingOptions...)...)
}
