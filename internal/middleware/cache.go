package middleware

import "github.com/gin-gonic/gin"

const cacheHeader = "X-Cache"

// SetCacheHit records cache provenance on the response. The envelope schema
// is fixed, so the signal travels as a header rather than a body field.
func SetCacheHit(c *gin.Context, hit bool) {
	if hit {
		c.Header(cacheHeader, "HIT")
		return
	}
	c.Header(cacheHeader, "MISS")
}
