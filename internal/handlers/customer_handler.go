package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/httpresp"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
	"github.com/GreenvaleServices/lawn-portal/internal/validators"
)

const invitationTTL = 7 * 24 * time.Hour

type CustomerHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher

	checkEmailDomain func(string) bool
}

func NewCustomerHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *CustomerHandler {
	return &CustomerHandler{
		db:               db,
		audit:            dispatcher,
		checkEmailDomain: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type CreateCustomerRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=CUSTOMER EMPLOYEE ADMIN"`
	Address  string `json:"address"`
}

// ======================================================
// CREATE CUSTOMER (STAFF; NON-CUSTOMER ROLES ADMIN ONLY)
// ======================================================
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	// A staff member may only provision customers. Handing out EMPLOYEE
	// or ADMIN is an admin call.
	if role != models.RoleCustomer && callerRole(c) != models.RoleAdmin {
		httperr.Forbidden(c, "forbidden", "Only an admin can assign that role.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.checkEmailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "That email domain does not look valid.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_already_in_use", "An account with this email already exists.")
		return
	}

	user := models.User{
		Name:    req.Name,
		Email:   email,
		Role:    role,
		Address: req.Address,
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Something went wrong.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	var invitationToken string

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			// The unique index on email backstops a concurrent
			// duplicate that slipped past the count above.
			return httperr.ErrBusiness("email_already_in_use")
		}

		// No password given: leave the account locked behind an
		// invitation the customer redeems themself.
		if req.Password == "" {
			invitationToken = uuid.NewString()
			return tx.Create(&models.Invitation{
				UserID:    user.ID,
				Token:     invitationToken,
				ExpiresAt: time.Now().Add(invitationTTL),
			}).Error
		}

		return nil
	})
	if err != nil {
		if httperr.IsBusiness(err, "email_already_in_use") {
			httperr.Conflict(c, "email_already_in_use", "An account with this email already exists.")
			return
		}
		httperr.Internal(c, "failed_to_create_customer", "Something went wrong.")
		return
	}

	actorID := callerID(c)
	h.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "customer_created",
		Entity:   "user",
		EntityID: &user.ID,
	})

	resp := gin.H{"user": user}
	if invitationToken != "" {
		resp["invitation_token"] = invitationToken
	}

	c.JSON(http.StatusCreated, resp)
}

// ======================================================
// LIST CUSTOMERS (STAFF)
// ======================================================
func (h *CustomerHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("role = ?", models.RoleCustomer)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var customers []models.User
	if err := q.
		Order("created_at DESC").
		Find(&customers).Error; err != nil {

		httperr.Internal(c, "failed_to_list_customers", "Something went wrong.")
		return
	}

	httpresp.List(c, customers)
}

// ======================================================
// CUSTOMER BY ID (STAFF)
// ======================================================
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	var customer models.User
	if err := h.db.
		Where("id = ? AND role = ?", id, models.RoleCustomer).
		First(&customer).Error; err != nil {

		httperr.NotFound(c, "customer_not_found", "Customer not found.")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// ======================================================
// VISITS BY CUSTOMER (STAFF)
// ======================================================
func (h *CustomerHandler) ListVisits(c *gin.Context) {
	id := c.Param("id")

	var visits []models.Visit
	if err := h.db.
		Preload("Photos").
		Preload("Feedback").
		Where("user_id = ?", id).
		Order("date DESC").
		Find(&visits).Error; err != nil {

		httperr.Internal(c, "failed_to_list_visits", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, visits)
}

// ======================================================
// REQUESTS BY CUSTOMER (STAFF)
// ======================================================
func (h *CustomerHandler) ListRequests(c *gin.Context) {
	id := c.Param("id")

	var requests []models.Request
	if err := h.db.
		Where("user_id = ?", id).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {

		httperr.Internal(c, "failed_to_list_requests", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, requests)
}
