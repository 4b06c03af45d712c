package controller

import (
	"context"
	"net/http"
	"time"

	"quiz_backend/internal/service"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthController struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Storage *service.StorageService
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, storage *service.StorageService) *HealthController {
	return &HealthController{DB: db, Redis: rdb, Storage: storage}
}

// HealthCheck godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	sqlDB, err := c.DB.DB()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if err := sqlDB.PingContext(reqCtx); err != nil {
		logger.Log.Error("Database ping failed", zap.Error(err))
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	components := gin.H{"database": "up"}

	if c.Redis != nil {
		if err := c.Redis.Ping(reqCtx).Err(); err != nil {
			logger.Log.Error("Redis ping failed", zap.Error(err))
			util.Error(ctx, http.StatusServiceUnavailable, "Redis unavailable")
			return
		}
		components["redis"] = "up"
	}

	// images are optional for answering, so storage only degrades
	if c.Storage != nil {
		if err := c.Storage.Ping(reqCtx); err != nil {
			logger.Log.Warn("Storage check failed", zap.Error(err))
			components["storage"] = "degraded"
		} else {
			components["storage"] = "up"
		}
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
