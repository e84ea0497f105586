package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	"github.com/GreenvaleServices/lawn-portal/internal/config"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, dispatcher *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: dispatcher}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ActivateRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Unauthorized(c, "invalid_credentials", "Wrong email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	// An invited account has no hash yet; bcrypt rejects it like any
	// wrong password.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Wrong email or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Something went wrong.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID: &user.ID,
		Action:  "user_logged_in",
		Entity:  "user",
	})

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"token": token,
	})
}

// Activate turns an invited account into a login-capable one: sets the
// password hash and burns the invitation token.
func (h *AuthHandler) Activate(c *gin.Context) {
	token := c.Param("token")

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var inv models.Invitation
	if err := h.db.Where("token = ?", token).First(&inv).Error; err != nil {
		httperr.NotFound(c, "invitation_not_found", "Invalid or expired link.")
		return
	}

	if inv.ExpiresAt.Before(time.Now()) {
		httperr.NotFound(c, "invitation_expired", "Invalid or expired link.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Something went wrong.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", inv.UserID).
			Update("password_hash", string(hashed)).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invitation{}, inv.ID).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_activate", "Something went wrong.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &inv.UserID,
		Action:   "account_activated",
		Entity:   "user",
		EntityID: &inv.UserID,
	})

	c.JSON(http.StatusOK, gin.H{"activated": true})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
