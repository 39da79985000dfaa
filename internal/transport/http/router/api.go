package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-vending-machine/internal/core/auth"
	"go-vending-machine/internal/core/cache"
	mdw "go-vending-machine/internal/transport/http/middleware"
)

// NewAPIEngine wires the buyer/seller-facing listener.
//
// Public: signup, login, product catalog reads, health.
// Authenticated: everything else; role checks happen per action.
func NewAPIEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer, ch *cache.Cache, productTTL time.Duration) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		cors.Default(), // Angular 前端跨域
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "System is up"})
	})

	api := r.Group("")

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))

	mountUserActions(api, authed, db, jwter)
	mountProductActions(api, authed, db, ch, productTTL)
	mountVendingActions(authed, db, ch)

	return r
}
