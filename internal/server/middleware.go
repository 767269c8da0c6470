package server

import (
	"evm-bridge/pkg/safe_random"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id for log correlation. A client-sent
// id is kept so ids stay stable across proxies.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			generated, err := safe_random.GenerateRandomHexString(16)
			if err == nil {
				id = generated
			}
		}

		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}
