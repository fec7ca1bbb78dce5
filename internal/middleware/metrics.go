package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studiopulse/booking-admin-api/internal/service"
)

// Metrics records method, route and latency for every request. Routes
// are labelled by their registered pattern so path parameters do not
// explode the label cardinality.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
