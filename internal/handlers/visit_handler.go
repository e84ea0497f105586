package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
	ucVisit "github.com/GreenvaleServices/lawn-portal/internal/usecase/visit"
)

// ======================================================
// HANDLER
// ======================================================

type VisitHandler struct {
	db *gorm.DB

	createUC *ucVisit.CreateVisit
	updateUC *ucVisit.UpdateVisit
	deleteUC *ucVisit.DeleteVisit
}

func NewVisitHandler(
	db *gorm.DB,
	createUC *ucVisit.CreateVisit,
	updateUC *ucVisit.UpdateVisit,
	deleteUC *ucVisit.DeleteVisit,
) *VisitHandler {
	return &VisitHandler{
		db:       db,
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateVisitRequest struct {
	CustomerID uint     `json:"customer_id" binding:"required"`
	Note       string   `json:"note" binding:"required,min=2"`
	PhotoURLs  []string `json:"photo_urls" binding:"omitempty,dive,url"`
	Date       string   `json:"date"`
}

type UpdateVisitRequest struct {
	Note             string   `json:"note" binding:"required,min=2"`
	NewPhotoURLs     []string `json:"new_photo_urls" binding:"omitempty,dive,url"`
	PhotoIDsToDelete []uint   `json:"photo_ids_to_delete"`
}

// ======================================================
// CREATE (STAFF)
// ======================================================

func (h *VisitHandler) Create(c *gin.Context) {
	var req CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var date *time.Time
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
			return
		}
		date = &d
	}

	v, err := h.createUC.Execute(c.Request.Context(), ucVisit.CreateVisitInput{
		CustomerID: req.CustomerID,
		Note:       req.Note,
		PhotoURLs:  req.PhotoURLs,
		Date:       date,
		StaffID:    callerID(c),
		StaffName:  callerName(c),
	})
	if err != nil {
		if httperr.IsBusiness(err, "customer_not_found") {
			httperr.NotFound(c, "customer_not_found", "Customer not found.")
			return
		}
		httperr.Internal(c, "failed_to_create_visit", "Something went wrong.")
		return
	}

	c.JSON(http.StatusCreated, v)
}

// ======================================================
// UPDATE (ADMIN)
// ======================================================

func (h *VisitHandler) Update(c *gin.Context) {
	visitID, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid visit id.")
		return
	}

	var req UpdateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	v, err := h.updateUC.Execute(c.Request.Context(), ucVisit.UpdateVisitInput{
		VisitID:          visitID,
		Note:             req.Note,
		NewPhotoURLs:     req.NewPhotoURLs,
		PhotoIDsToDelete: req.PhotoIDsToDelete,
		EditorID:         callerID(c),
		EditorName:       callerName(c),
	})
	if err != nil {
		if httperr.IsBusiness(err, "visit_not_found") {
			httperr.NotFound(c, "visit_not_found", "Visit not found.")
			return
		}
		httperr.Internal(c, "failed_to_update_visit", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, v)
}

// ======================================================
// DELETE (ADMIN)
// ======================================================

func (h *VisitHandler) Delete(c *gin.Context) {
	visitID, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid visit id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), visitID, callerID(c)); err != nil {
		if httperr.IsBusiness(err, "visit_not_found") {
			httperr.NotFound(c, "visit_not_found", "Visit not found.")
			return
		}
		httperr.Internal(c, "failed_to_delete_visit", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ======================================================
// GET BY ID (ADMIN)
// ======================================================

func (h *VisitHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	var v models.Visit
	if err := h.db.
		Preload("Photos").
		Preload("Feedback").
		First(&v, "id = ?", id).Error; err != nil {

		httperr.NotFound(c, "visit_not_found", "Visit not found.")
		return
	}

	c.JSON(http.StatusOK, v)
}

// ======================================================
// LIST MINE (AUTHENTICATED)
// ======================================================

func (h *VisitHandler) ListMine(c *gin.Context) {
	var visits []models.Visit
	if err := h.db.
		Preload("Photos").
		Preload("Feedback").
		Where("user_id = ?", callerID(c)).
		Order("date DESC").
		Find(&visits).Error; err != nil {

		httperr.Internal(c, "failed_to_list_visits", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, visits)
}

// ======================================================
// LIST BY DATE (STAFF)
// ======================================================

func (h *VisitHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	start := date
	end := start.Add(24 * time.Hour)

	var visits []models.Visit
	if err := h.db.
		Preload("User").
		Preload("Photos").
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC").
		Find(&visits).Error; err != nil {

		httperr.Internal(c, "failed_to_list_visits", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, visits)
}

// ------------------------------------------------------

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
