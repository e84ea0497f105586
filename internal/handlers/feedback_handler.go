package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	"github.com/GreenvaleServices/lawn-portal/internal/cache"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
)

const (
	recentFeedLimit         = 10
	cacheKeyRecentFeedbacks = "feed:recent_feedbacks"
)

type FeedbackHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	cache *cache.FeedCache
}

func NewFeedbackHandler(db *gorm.DB, dispatcher *audit.Dispatcher, feedCache *cache.FeedCache) *FeedbackHandler {
	return &FeedbackHandler{db: db, audit: dispatcher, cache: feedCache}
}

// --------- Requests ---------

type SubmitFeedbackRequest struct {
	VisitID  uint   `json:"visit_id" binding:"required"`
	Text     string `json:"text" binding:"required,min=2"`
	PhotoURL string `json:"photo_url" binding:"omitempty,url"`
}

// ======================================================
// SUBMIT (AUTHENTICATED, OWNER ONLY)
// ======================================================
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	// A visit that exists but belongs to someone else looks exactly like
	// one that does not exist.
	var visit models.Visit
	if err := h.db.
		Where("id = ? AND user_id = ?", req.VisitID, callerID(c)).
		First(&visit).Error; err != nil {

		httperr.NotFound(c, "visit_not_found", "Visit not found.")
		return
	}

	var count int64
	h.db.Model(&models.Feedback{}).Where("visit_id = ?", visit.ID).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "feedback_already_exists", "This visit already has feedback.")
		return
	}

	fb := models.Feedback{
		VisitID:  visit.ID,
		Text:     req.Text,
		PhotoURL: req.PhotoURL,
	}

	if err := h.db.Create(&fb).Error; err != nil {
		// The unique index on visit_id backstops a concurrent double
		// submit that slipped past the count above.
		httperr.Conflict(c, "feedback_already_exists", "This visit already has feedback.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), cacheKeyRecentFeedbacks)

	actorID := callerID(c)
	h.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "feedback_submitted",
		Entity:   "feedback",
		EntityID: &fb.ID,
	})

	c.JSON(http.StatusCreated, fb)
}

// ======================================================
// RECENT (STAFF)
// ======================================================
func (h *FeedbackHandler) Recent(c *gin.Context) {
	var feedbacks []models.Feedback

	if h.cache.Get(c.Request.Context(), cacheKeyRecentFeedbacks, &feedbacks) {
		c.JSON(http.StatusOK, feedbacks)
		return
	}

	if err := h.db.
		Order("created_at DESC").
		Limit(recentFeedLimit).
		Find(&feedbacks).Error; err != nil {

		httperr.Internal(c, "failed_to_list_feedbacks", "Something went wrong.")
		return
	}

	h.cache.Set(c.Request.Context(), cacheKeyRecentFeedbacks, feedbacks)

	c.JSON(http.StatusOK, feedbacks)
}
