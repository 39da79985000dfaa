package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-vending-machine/internal/core/cache"
	"go-vending-machine/internal/core/server"
	"go-vending-machine/internal/repo"
)

// NewOpsEngine wires the internal back-office listener: prometheus scrape,
// liveness/readiness and read-only audit views. Meant to be bound to an
// internal interface, so no JWT here.
func NewOpsEngine(l *zap.Logger, db *gorm.DB, ch *cache.Cache) *gin.Engine {
	r := server.NewOpsRouter(l)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "System is up"})
	})

	r.GET("/ready", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "error": "database unreachable"})
			return
		}
		if err := ch.Ping(c); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "error": "redis unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ready": true})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 只读审计视图
	ops := r.Group("/ops/v1")
	ops.GET("/users", func(c *gin.Context) {
		users, total, err := repo.NewUserRepo(db).List(c, 0, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		type row struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
			Deposit  int    `json:"deposit"`
		}
		out := make([]row, 0, len(users))
		for _, u := range users {
			out = append(out, row{ID: u.ID, Username: u.Username, Role: u.Role, Deposit: u.Deposit})
		}
		c.JSON(http.StatusOK, gin.H{"total": total, "items": out})
	})
	ops.GET("/products", func(c *gin.Context) {
		products, total, err := repo.NewProductRepo(db).List(c, 0, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total, "items": products})
	})

	return r
}
