package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	mdw "pod-service/internal/transport/http/middleware"
)

// NewAdminEngine 管理端引擎，独立端口，整组限定 admin 角色
func NewAdminEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, "admin"))

	MountAllAdmin(admin)
	MountAdminActions(admin, d)

	return r
}
