package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pod-service/internal/core/auth"
	"pod-service/internal/core/cache"
	"pod-service/internal/mail"
	"pod-service/internal/service"
	"pod-service/internal/storage"
	mdw "pod-service/internal/transport/http/middleware"
)

// Deps 两个引擎共用的依赖集合
type Deps struct {
	Log     *zap.Logger
	DB      *gorm.DB
	JWT     *auth.JWTer
	Cache   *cache.Cache // 未配置 redis 时为 nil，直接回源
	Pods    *service.PODService
	Uploads *storage.LocalStore
	Mailer  *mail.Mailer
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 上传的附件按引用路径只读回放
	if d.Uploads != nil {
		r.Static("/uploads", d.Uploads.Dir)
	}

	api := r.Group("/api/v1")

	// 模块自动挂载
	MountAllAPI(api)

	// 鉴权分组（/me 和所有 pod 操作都在这里）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, ""))

	mountAuthActions(api, authed, d)
	mountPODActions(authed, d)

	return r
}
