package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	"github.com/GreenvaleServices/lawn-portal/internal/cache"
	"github.com/GreenvaleServices/lawn-portal/internal/httperr"
	"github.com/GreenvaleServices/lawn-portal/internal/httpresp"
	"github.com/GreenvaleServices/lawn-portal/internal/models"
	ucRequest "github.com/GreenvaleServices/lawn-portal/internal/usecase/request"
)

const cacheKeyRecentRequests = "feed:recent_requests"

type RequestHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	cache *cache.FeedCache

	resolveUC *ucRequest.ResolveRequest
}

func NewRequestHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	feedCache *cache.FeedCache,
	resolveUC *ucRequest.ResolveRequest,
) *RequestHandler {
	return &RequestHandler{
		db:        db,
		audit:     dispatcher,
		cache:     feedCache,
		resolveUC: resolveUC,
	}
}

// --------- Requests ---------

type CreateRequestRequest struct {
	Title       string `json:"title" binding:"required,min=3"`
	Description string `json:"description" binding:"required,min=5"`
	PhotoURL    string `json:"photo_url" binding:"omitempty,url"`
}

// ======================================================
// CREATE (AUTHENTICATED)
// ======================================================
func (h *RequestHandler) Create(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	r := models.Request{
		UserID:      callerID(c),
		Title:       req.Title,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
	}

	if err := h.db.Create(&r).Error; err != nil {
		httperr.Internal(c, "failed_to_create_request", "Something went wrong.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), cacheKeyRecentRequests)

	actorID := callerID(c)
	h.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "request_created",
		Entity:   "request",
		EntityID: &r.ID,
	})

	c.JSON(http.StatusCreated, r)
}

// ======================================================
// RESOLVE (AUTHENTICATED; STAFF OR OWNER)
// ======================================================
func (h *RequestHandler) Resolve(c *gin.Context) {
	requestID, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid request id.")
		return
	}

	r, err := h.resolveUC.Execute(c.Request.Context(), ucRequest.ResolveRequestInput{
		RequestID:  requestID,
		CallerID:   callerID(c),
		CallerName: callerName(c),
		CallerRole: callerRole(c),
	})
	if err != nil {
		if httperr.IsBusiness(err, "request_not_found") {
			httperr.NotFound(c, "request_not_found", "Request not found.")
			return
		}
		if httperr.IsBusiness(err, "forbidden") {
			httperr.Forbidden(c, "forbidden", "You cannot resolve this request.")
			return
		}
		httperr.Internal(c, "failed_to_resolve_request", "Something went wrong.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), cacheKeyRecentRequests)

	c.JSON(http.StatusOK, r)
}

// ======================================================
// LIST ALL (STAFF)
// ======================================================
func (h *RequestHandler) List(c *gin.Context) {
	var requests []models.Request
	if err := h.db.
		Preload("User").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {

		httperr.Internal(c, "failed_to_list_requests", "Something went wrong.")
		return
	}

	httpresp.List(c, requests)
}

// ======================================================
// RECENT (STAFF)
// ======================================================
func (h *RequestHandler) Recent(c *gin.Context) {
	var requests []models.Request

	if h.cache.Get(c.Request.Context(), cacheKeyRecentRequests, &requests) {
		c.JSON(http.StatusOK, requests)
		return
	}

	if err := h.db.
		Order("created_at DESC").
		Limit(recentFeedLimit).
		Find(&requests).Error; err != nil {

		httperr.Internal(c, "failed_to_list_requests", "Something went wrong.")
		return
	}

	h.cache.Set(c.Request.Context(), cacheKeyRecentRequests, requests)

	c.JSON(http.StatusOK, requests)
}

// ======================================================
// LIST MINE (AUTHENTICATED)
// ======================================================
func (h *RequestHandler) ListMine(c *gin.Context) {
	var requests []models.Request
	if err := h.db.
		Where("user_id = ?", callerID(c)).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {

		httperr.Internal(c, "failed_to_list_requests", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, requests)
}
