package handler

import (
	"context"
	"net/http"
	"time"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// HealthCheckHandler reports service health plus the CPU/memory usage
// of the host. Mongo is required; Redis is degraded, not down.
func HealthCheckHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	checks := gin.H{}

	if err := utils.PingMongo(ctx); err != nil {
		status = "unhealthy"
		checks["mongodb"] = "down"
	} else {
		checks["mongodb"] = "up"
	}

	if services.TokenBlacklist != nil {
		if err := services.TokenBlacklist.Client.Ping(ctx).Err(); err != nil {
			if status == "healthy" {
				status = "degraded"
			}
			checks["redis"] = "down"
		} else {
			checks["redis"] = "up"
		}
	} else {
		checks["redis"] = "disabled"
	}

	body := gin.H{
		"status":       status,
		"checks":       checks,
		"cpu_usage":    utils.GetCPUUsage(),
		"memory_usage": utils.GetMemoryUsage(),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}

	if status == "unhealthy" {
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	utils.Success(c, body)
}
