package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ugram-app/backend/internal/container"
	handlers "github.com/ugram-app/backend/internal/interface/http"
	"github.com/ugram-app/backend/internal/interface/middleware"
)

// UserModule wires user HTTP handlers into routes under the given
// RouterGroup (usually /api):
//
//	POST /users, GET /users, GET /users/search,
//	GET /users/:id, GET /users/by-username/:username,
//	PUT /users/:id, PUT /users/:id/photo
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Creation is limited harder than reads.
	createLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	users := rg.Group("/users")
	{
		users.POST("", createLimiter, m.Handler.Create)
		users.GET("", readLimiter, m.Handler.List)
		users.GET("/search", readLimiter, m.Handler.Search)
		users.GET("/by-username/:username", readLimiter, m.Handler.GetByUsername)
		users.GET("/:id", readLimiter, m.Handler.GetByID)
		users.PUT("/:id", readLimiter, m.Handler.UpdateProfile)
		users.PUT("/:id/photo", readLimiter, m.Handler.UpdatePhoto)
	}
}
