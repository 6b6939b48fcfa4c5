package util

import "github.com/gin-gonic/gin"

const ContextRequestID = "request_id"

func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}
