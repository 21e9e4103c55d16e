package users

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/eventdesk/backend/internal/middleware"
	"github.com/eventdesk/backend/internal/models"
	"github.com/eventdesk/backend/internal/permissions"
	"github.com/eventdesk/backend/pkg/response"
	"github.com/eventdesk/backend/pkg/utils"
)

// CreateRequest is the body for POST /users (self-registration or admin creation).
type CreateRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateRequest is the body for PUT /users/:id. Username and email are
// required (full replace); the password is re-hashed only when supplied.
type UpdateRequest struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  *string `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
}

// Payload is the user representation returned by the API.
type Payload struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Groups    []string        `json:"groups"`
	Links     []response.Link `json:"_links"`
}

// Handler handles user HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) payload(c *gin.Context, u *models.User) Payload {
	groups, err := h.repo.GroupNames(c.Request.Context(), u.ID)
	if err != nil {
		groups = nil
	}
	if groups == nil {
		groups = []string{}
	}
	return Payload{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Groups:    groups,
		Links:     response.ResourceLinks("/users", "/users/"+u.ID.String()),
	}
}

// List handles GET /users (admin or superuser).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		response.Internal(c, "failed to list users")
		return
	}
	payloads := make([]Payload, 0, len(list))
	for i := range list {
		payloads = append(payloads, h.payload(c, &list[i]))
	}
	response.OK(c, gin.H{"users": payloads})
}

// Create handles POST /users (no authentication; self-registration).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	u := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := h.repo.Create(c.Request.Context(), u); err != nil {
		var fieldErrs response.FieldErrors
		if errors.As(err, &fieldErrs) {
			response.ValidationFailed(c, fieldErrs)
			return
		}
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	response.Created(c, h.payload(c, u))
}

// getTarget fetches the target user and applies the object-level check:
// 404 when absent, 403 when the actor is neither the target nor admin/superuser.
func (h *Handler) getTarget(c *gin.Context) (*models.User, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return nil, false
	}
	target, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "user not found")
		} else {
			h.logger.Error("get user", zap.Error(err))
			response.Internal(c, "failed to fetch user")
		}
		return nil, false
	}
	if !permissions.CanModifyUser(middleware.ActorFrom(c), target) {
		response.Forbidden(c, "insufficient permissions")
		return nil, false
	}
	return target, true
}

// Get handles GET /users/:id (self or admin/superuser).
func (h *Handler) Get(c *gin.Context) {
	target, ok := h.getTarget(c)
	if !ok {
		return
	}
	response.OK(c, h.payload(c, target))
}

// Update handles PUT /users/:id (self or admin/superuser).
func (h *Handler) Update(c *gin.Context) {
	target, ok := h.getTarget(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	target.Username = req.Username
	target.Email = req.Email
	target.FirstName = req.FirstName
	target.LastName = req.LastName
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			response.Internal(c, "failed to hash password")
			return
		}
		target.PasswordHash = hash
	}

	if err := h.repo.Update(c.Request.Context(), target); err != nil {
		var fieldErrs response.FieldErrors
		if errors.As(err, &fieldErrs) {
			response.ValidationFailed(c, fieldErrs)
			return
		}
		h.logger.Error("update user", zap.Error(err))
		response.Internal(c, "failed to update user")
		return
	}

	response.OK(c, h.payload(c, target))
}

// Delete handles DELETE /users/:id (self or admin/superuser).
func (h *Handler) Delete(c *gin.Context) {
	target, ok := h.getTarget(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), target.ID); err != nil {
		h.logger.Error("delete user", zap.Error(err))
		response.Internal(c, "failed to delete user")
		return
	}
	response.NoContent(c)
}
