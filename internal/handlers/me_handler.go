package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, callerID(c)).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
			"address": user.Address,
		},
	})
}
