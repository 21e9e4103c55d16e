package groups

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventdesk/backend/internal/models"
	"github.com/eventdesk/backend/pkg/response"
)

// CreateRequest is the body for POST /groups.
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// AssignRoleRequest is the body for POST /assign-roles.
type AssignRoleRequest struct {
	UserID  string `json:"user_id" binding:"required,uuid"`
	GroupID int    `json:"group_id" binding:"required"`
}

// Payload is the group representation returned by the API.
type Payload struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Links []response.Link `json:"_links"`
}

// Handler handles group HTTP endpoints. All routes are superuser-gated.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a groups handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func payload(g *models.Group) Payload {
	return Payload{
		ID:    g.ID,
		Name:  g.Name,
		Links: response.ResourceLinks("/groups", "/groups/"+strconv.Itoa(g.ID)),
	}
}

// List handles GET /groups.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list groups", zap.Error(err))
		response.Internal(c, "failed to list groups")
		return
	}
	payloads := make([]Payload, 0, len(list))
	for i := range list {
		payloads = append(payloads, payload(&list[i]))
	}
	response.OK(c, gin.H{"groups": payloads})
}

// Create handles POST /groups.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g := &models.Group{Name: req.Name}
	if err := h.repo.Create(c.Request.Context(), g); err != nil {
		var fieldErrs response.FieldErrors
		if errors.As(err, &fieldErrs) {
			response.ValidationFailed(c, fieldErrs)
			return
		}
		h.logger.Error("create group", zap.Error(err))
		response.Internal(c, "failed to create group")
		return
	}
	response.Created(c, payload(g))
}

func (h *Handler) getGroup(c *gin.Context) (*models.Group, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return nil, false
	}
	g, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if IsNotFound(err) {
			response.NotFound(c, "group not found")
		} else {
			h.logger.Error("get group", zap.Error(err))
			response.Internal(c, "failed to fetch group")
		}
		return nil, false
	}
	return g, true
}

// Get handles GET /groups/:id.
func (h *Handler) Get(c *gin.Context) {
	g, ok := h.getGroup(c)
	if !ok {
		return
	}
	response.OK(c, payload(g))
}

// Update handles PUT /groups/:id.
func (h *Handler) Update(c *gin.Context) {
	g, ok := h.getGroup(c)
	if !ok {
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g.Name = req.Name
	if err := h.repo.Update(c.Request.Context(), g); err != nil {
		var fieldErrs response.FieldErrors
		if errors.As(err, &fieldErrs) {
			response.ValidationFailed(c, fieldErrs)
			return
		}
		h.logger.Error("update group", zap.Error(err))
		response.Internal(c, "failed to update group")
		return
	}
	response.OK(c, payload(g))
}

// Delete handles DELETE /groups/:id.
func (h *Handler) Delete(c *gin.Context) {
	g, ok := h.getGroup(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), g.ID); err != nil {
		h.logger.Error("delete group", zap.Error(err))
		response.Internal(c, "failed to delete group")
		return
	}
	response.NoContent(c)
}

// AssignRole handles POST /assign-roles. Repeated assignment of the same
// (user, group) pair is a no-op, not an error.
func (h *Handler) AssignRole(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(c, "invalid user_id")
		return
	}
	if err := h.repo.AssignRole(c.Request.Context(), userID, req.GroupID); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, ErrGroupNotFound):
			response.NotFound(c, "group not found")
		default:
			h.logger.Error("assign role", zap.Error(err))
			response.Internal(c, "failed to assign role")
		}
		return
	}
	response.Created(c, gin.H{"message": "role assigned successfully"})
}
