package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"activities-be/internal/container"
	"activities-be/internal/domain"
	"activities-be/internal/middleware"
	"activities-be/pkg/errors"
)

// ActivityHandler handles authoring CRUD for activities.
type ActivityHandler struct {
	container *container.Container
	validate  *validator.Validate
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(container *container.Container) *ActivityHandler {
	validate := validator.New()
	validate.RegisterValidation("activity_slug", func(fl validator.FieldLevel) bool {
		return domain.ValidSlug(fl.Field().String())
	})
	return &ActivityHandler{
		container: container,
		validate:  validate,
	}
}

// activityRequest is the write payload for create and update.
type activityRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Slug        string          `json:"slug" validate:"required,max=100,activity_slug"`
	IsPublic    bool            `json:"isPublic"`
	ContentType string          `json:"contentType" validate:"required,oneof=quiz text generic"`
	ContentData json.RawMessage `json:"contentData" validate:"required"`
}

// List handles GET /api/activities
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	viewerID := ""
	if user := middleware.UserFromContext(r.Context()); user != nil {
		viewerID = user.ID
	}

	activities, err := h.container.GetActivityService().List(r.Context(), viewerID)
	if err != nil {
		logger.WithError(err).Error("Failed to list activities")
		writeErrorResponse(w, toAppError(err), logger)
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// Get handles GET /api/activities/{slug}
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	slug := chi.URLParam(r, "slug")

	viewerID := ""
	if user := middleware.UserFromContext(r.Context()); user != nil {
		viewerID = user.ID
	}

	act, err := h.container.GetActivityService().GetBySlug(r.Context(), slug, viewerID)
	if err != nil {
		writeErrorResponse(w, toAppError(err), logger)
		return
	}

	respondJSON(w, http.StatusOK, act)
}

// Create handles POST /api/activities
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErrorResponse(w, errors.NewAuthenticationError("Authentication required"), logger)
		return
	}

	req, appErr := h.decodeRequest(r)
	if appErr != nil {
		writeErrorResponse(w, appErr, logger)
		return
	}

	act := &domain.Activity{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		IsPublic:    req.IsPublic,
		ContentType: domain.ParseContentType(req.ContentType),
		ContentData: req.ContentData,
		Author:      user.Username,
	}

	if err := h.container.GetActivityService().Create(r.Context(), act); err != nil {
		writeErrorResponse(w, toAppError(err), logger)
		return
	}

	respondJSON(w, http.StatusCreated, act)
}

// updateRequest is the partial write payload for update. Omitted fields keep
// the stored value.
type updateRequest struct {
	Title       *string         `json:"title" validate:"omitempty,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Slug        *string         `json:"slug" validate:"omitempty,max=100,activity_slug"`
	IsPublic    *bool           `json:"isPublic"`
	ContentType *string         `json:"contentType" validate:"omitempty,oneof=quiz text generic"`
	ContentData json.RawMessage `json:"contentData"`
}

// Update handles PUT /api/activities/{slug}. The path identifies the
// activity by its current slug; the payload may carry a new one.
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErrorResponse(w, errors.NewAuthenticationError("Authentication required"), logger)
		return
	}

	existing, appErr := h.resolveOwned(r, user.ID)
	if appErr != nil {
		writeErrorResponse(w, appErr, logger)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewValidationError("invalid request body", nil), logger)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeErrorResponse(w, errors.NewValidationError("invalid activity payload", validationDetails(err)), logger)
		return
	}

	act := *existing
	act.UserID = user.ID
	if req.Title != nil {
		act.Title = *req.Title
	}
	if req.Description != nil {
		act.Description = *req.Description
	}
	if req.Slug != nil {
		act.Slug = *req.Slug
	}
	if req.IsPublic != nil {
		act.IsPublic = *req.IsPublic
	}
	if req.ContentType != nil {
		act.ContentType = domain.ParseContentType(*req.ContentType)
	}
	if len(req.ContentData) > 0 {
		act.ContentData = req.ContentData
	}

	if err := h.container.GetActivityService().Update(r.Context(), &act); err != nil {
		writeErrorResponse(w, toAppError(err), logger)
		return
	}

	respondJSON(w, http.StatusOK, &act)
}

// Delete handles DELETE /api/activities/{slug}
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErrorResponse(w, errors.NewAuthenticationError("Authentication required"), logger)
		return
	}

	existing, appErr := h.resolveOwned(r, user.ID)
	if appErr != nil {
		writeErrorResponse(w, appErr, logger)
		return
	}

	if err := h.container.GetActivityService().Delete(r.Context(), existing.ID, user.ID); err != nil {
		writeErrorResponse(w, toAppError(err), logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": existing.ID, "slug": existing.Slug})
}

// resolveOwned resolves the {slug} path parameter to an activity the caller
// owns.
func (h *ActivityHandler) resolveOwned(r *http.Request, userID string) (*domain.Activity, *errors.AppError) {
	slug := chi.URLParam(r, "slug")
	act, err := h.container.GetActivityService().GetBySlug(r.Context(), slug, userID)
	if err != nil {
		return nil, toAppError(err)
	}
	if act.UserID != userID {
		return nil, errors.NewAuthorizationError("you do not own this activity")
	}
	return act, nil
}

func (h *ActivityHandler) decodeRequest(r *http.Request) (*activityRequest, *errors.AppError) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.NewValidationError("invalid request body", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return nil, errors.NewValidationError("invalid activity payload", validationDetails(err))
	}
	return &req, nil
}
