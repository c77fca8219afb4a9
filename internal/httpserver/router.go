package httpserver

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
	ordersvc "github.com/soorihai2/ssksilks-sub001/internal/service/order"
)

// OrderService is the slice of the order lifecycle manager the handlers
// consume.
type OrderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*ordersvc.CreateResult, error)
	VerifyPayment(ctx context.Context, in ordersvc.VerifyInput) (*ordersvc.VerifyResult, error)
	CreatePOS(ctx context.Context, in ordersvc.POSInput) (*ordersvc.POSResult, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
}

// SettingsStore is the admin-facing settings surface.
type SettingsStore interface {
	Read(ctx context.Context) (*domain.Settings, error)
	Write(ctx context.Context, s *domain.Settings) error
}

// Deps carries everything the router needs.
type Deps struct {
	Orders      OrderService
	Settings    SettingsStore
	AdminKey    string
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger logrus.FieldLogger, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logWriter(logger)), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.CORSOrigins) == 0 || (len(deps.CORSOrigins) == 1 && deps.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.CORSOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Admin-Key")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)

	h := &orderHandlers{svc: deps.Orders, settings: deps.Settings, logger: logger}

	api := router.Group("/api")
	api.POST("/orders", h.create)
	api.POST("/orders/verify", h.verify)
	api.GET("/orders/:id", h.get)

	admin := api.Group("", adminKeyMiddleware(deps.AdminKey))
	admin.GET("/orders", h.list)
	admin.PATCH("/orders/:id/status", h.updateStatus)
	admin.POST("/orders/pos", h.createPOS)
	admin.GET("/settings", h.readSettings)
	admin.PUT("/settings", h.writeSettings)

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// adminKeyMiddleware guards admin routes with a shared key. An empty
// configured key leaves the routes open (local development).
func adminKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "admin key required"})
			return
		}
		c.Next()
	}
}

func logWriter(logger logrus.FieldLogger) io.Writer {
	if l, ok := logger.(*logrus.Logger); ok {
		return l.Writer()
	}
	return logrus.StandardLogger().Writer()
}
