package events

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/eventdesk/backend/internal/models"
	"github.com/eventdesk/backend/pkg/response"
)

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// CreateRequest is the body for POST /events. An event is always created with
// one session and one organizer link.
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Quota       *int   `json:"quota" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	OrganizerID string `json:"organizer_id" binding:"required,uuid"`
}

// UpdateRequest is the body for PUT /events/:id. Omitted fields are left
// unchanged.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Status      *string `json:"status"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Quota       *int    `json:"quota"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	OrganizerID *string `json:"organizer_id"`
}

// Payload is the projected event representation returned by the API.
type Payload struct {
	models.EventView
	Links []response.Link `json:"_links"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo   *Repository
	cache  *Cache
	logger *zap.Logger
}

// NewHandler creates an events handler. cache may be nil.
func NewHandler(repo *Repository, cache *Cache, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, cache: cache, logger: logger}
}

func payload(v models.EventView) Payload {
	return Payload{
		EventView: v,
		Links:     response.ResourceLinks("/events", "/events/"+v.ID.String()),
	}
}

// List handles GET /events (any authenticated actor). Returns at most 10
// events, newest first, with projected session times.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	list, ok := h.cache.GetList(ctx)
	if !ok {
		var err error
		list, err = h.repo.ListViews(ctx)
		if err != nil {
			h.logger.Error("list events", zap.Error(err))
			response.Internal(c, "failed to list events")
			return
		}
		h.cache.SetList(ctx, list)
	}
	payloads := make([]Payload, 0, len(list))
	for _, v := range list {
		payloads = append(payloads, payload(v))
	}
	response.OK(c, gin.H{"events": payloads})
}

// Create handles POST /events (admin or superuser).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	startTime, err := parseTime(req.StartTime)
	if err != nil {
		response.ValidationFailed(c, response.FieldErrors{}.Add("start_time", "must be an RFC 3339 timestamp"))
		return
	}
	endTime, err := parseTime(req.EndTime)
	if err != nil {
		response.ValidationFailed(c, response.FieldErrors{}.Add("end_time", "must be an RFC 3339 timestamp"))
		return
	}
	organizerID, _ := uuid.Parse(req.OrganizerID)

	view, err := h.repo.Create(c.Request.Context(), CreateParams{
		Name:        req.Name,
		Status:      req.Status,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		Quota:       *req.Quota,
		StartTime:   startTime,
		EndTime:     endTime,
		OrganizerID: organizerID,
	})
	if err != nil {
		var fieldErrs response.FieldErrors
		if errors.As(err, &fieldErrs) {
			response.ValidationFailed(c, fieldErrs)
			return
		}
		h.logger.Error("create event", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}

	h.cache.Invalidate(c.Request.Context(), view.ID.String())
	response.Created(c, payload(*view))
}

// Get handles GET /events/:id (any authenticated actor).
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ctx := c.Request.Context()
	if view, ok := h.cache.GetView(ctx, id.String()); ok {
		response.OK(c, payload(*view))
		return
	}
	view, err := h.repo.GetView(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "event not found")
		} else {
			h.logger.Error("get event", zap.Error(err))
			response.Internal(c, "failed to fetch event")
		}
		return
	}
	h.cache.SetView(ctx, id.String(), view)
	response.OK(c, payload(*view))
}

// Update handles PUT /events/:id (admin or superuser). Partial update; a
// session time violation rolls back every staged change.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	params := UpdateParams{
		Name:        req.Name,
		Status:      req.Status,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		Quota:       req.Quota,
	}
	if req.StartTime != nil {
		t, err := parseTime(*req.StartTime)
		if err != nil {
			response.ValidationFailed(c, response.FieldErrors{}.Add("start_time", "must be an RFC 3339 timestamp"))
			return
		}
		params.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := parseTime(*req.EndTime)
		if err != nil {
			response.ValidationFailed(c, response.FieldErrors{}.Add("end_time", "must be an RFC 3339 timestamp"))
			return
		}
		params.EndTime = &t
	}
	if req.OrganizerID != nil {
		oid, err := uuid.Parse(*req.OrganizerID)
		if err != nil {
			response.ValidationFailed(c, response.FieldErrors{}.Add("organizer_id", "must be a UUID"))
			return
		}
		params.OrganizerID = &oid
	}

	view, err := h.repo.Update(c.Request.Context(), id, params)
	if err != nil {
		var fieldErrs response.FieldErrors
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.NotFound(c, "event not found")
		case errors.As(err, &fieldErrs):
			response.ValidationFailed(c, fieldErrs)
		default:
			h.logger.Error("update event", zap.Error(err))
			response.Internal(c, "failed to update event")
		}
		return
	}

	h.cache.Invalidate(c.Request.Context(), id.String())
	response.OK(c, payload(*view))
}

// Delete handles DELETE /events/:id (admin or superuser).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "event not found")
		} else {
			h.logger.Error("delete event", zap.Error(err))
			response.Internal(c, "failed to delete event")
		}
		return
	}
	h.cache.Invalidate(c.Request.Context(), id.String())
	response.NoContent(c)
}
