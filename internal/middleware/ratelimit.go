package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aben/console/internal/pkg/apperr"
	"github.com/aben/console/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit allows max requests per client IP in each fixed window. The
// scope separates counters of different routes. Redis failures let the
// request through.
func RateLimit(rdb redis.Cmdable, scope string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" || max <= 0 || window <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		bucket := time.Now().UnixMilli() / window.Milliseconds()
		key := fmt.Sprintf("auth:rate_limit:%s:%s:%d", scope, ip, bucket)

		// INCR and PEXPIRE commit together so no bucket key is left without a TTL.
		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.PExpire(ctx, key, window+time.Second)
		if _, err := pipe.Exec(ctx); err != nil {
			c.Next()
			return
		}

		if incr.Val() > int64(max) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Fail(c, http.StatusTooManyRequests, apperr.ErrRateLimited.Code, apperr.ErrRateLimited.Message)
			return
		}
		c.Next()
	}
}
