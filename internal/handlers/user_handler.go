package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/httpresp"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

type UserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type UpdateUserRequest struct {
	Name    string `json:"name" binding:"required,min=2"`
	Email   string `json:"email" binding:"required,email"`
	Role    string `json:"role" binding:"required,oneof=CUSTOMER EMPLOYEE ADMIN"`
	Address string `json:"address"`

	// Omitted or empty leaves the stored hash untouched.
	Password string `json:"password" binding:"omitempty,min=8"`
}

// ======================================================
// LIST ALL USERS (ADMIN)
// ======================================================
func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.
		Order("created_at DESC").
		Find(&users).Error; err != nil {

		httperr.Internal(c, "failed_to_list_users", "Something went wrong.")
		return
	}

	httpresp.List(c, users)
}

// ======================================================
// UPDATE USER (ADMIN)
// ======================================================
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// The new email may collide only with the account being edited.
	var other models.User
	err := h.db.
		Where("email = ? AND id <> ?", email, user.ID).
		First(&other).Error
	if err == nil {
		httperr.Conflict(c, "email_already_in_use", "Another account already uses this email.")
		return
	}
	if err != gorm.ErrRecordNotFound {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	user.Name = req.Name
	user.Email = email
	user.Role = req.Role
	user.Address = req.Address

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Something went wrong.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Something went wrong.")
		return
	}

	actorID := callerID(c)
	h.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "user_updated",
		Entity:   "user",
		EntityID: &user.ID,
	})

	c.JSON(http.StatusOK, user)
}
