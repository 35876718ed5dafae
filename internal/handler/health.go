package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports connectivity of the Postgres and Redis backends. Degraded
// dependencies answer 503 so the orchestrator can restart or reroute.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ok := true
		checks := gin.H{"db": "connected", "redis": "connected"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["db"] = "error"
			ok = false
		}
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			checks["redis"] = "error"
			ok = false
		}

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		checks["ok"] = ok
		c.JSON(status, checks)
	}
}
