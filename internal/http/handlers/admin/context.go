package admin

import (
	handlershared "github.com/niaga-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "error.bad_request", "error.internal")
}

func getAdminUsername(c *gin.Context) string {
	if value, ok := c.Get("admin_username"); ok {
		if username, ok := value.(string); ok {
			return username
		}
	}
	return ""
}
