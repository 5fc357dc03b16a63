package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugram-app/backend/pkg/response"
)

type HealthHandler struct {
	Pool *pgxpool.Pool
}

func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{Pool: pool}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if h.Pool != nil {
		if err := h.Pool.Ping(c.Request.Context()); err != nil {
			response.Error[any](c, http.StatusServiceUnavailable, "database unreachable", nil)
			return
		}
	}
	response.Success[any](c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
}
