package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/GreenvaleServices/lawn-portal/internal/middleware"
)

func callerID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func callerName(c *gin.Context) string {
	name, _ := c.MustGet(middleware.ContextUserName).(string)
	return name
}

func callerRole(c *gin.Context) string {
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	return role
}
