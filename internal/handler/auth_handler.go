package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"activities-be/internal/container"
	"activities-be/internal/middleware"
	"activities-be/pkg/errors"
)

// AuthHandler handles authentication related requests
type AuthHandler struct {
	container *container.Container
	validate  *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(container *container.Container) *AuthHandler {
	return &AuthHandler{
		container: container,
		validate:  validator.New(),
	}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewValidationError("invalid request body", nil), logger)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeErrorResponse(w, errors.NewValidationError("invalid registration payload", validationDetails(err)), logger)
		return
	}

	result, err := h.container.GetAuthService().Register(r.Context(), req.Username, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		writeErrorResponse(w, toAppError(err), logger)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewValidationError("invalid request body", nil), logger)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeErrorResponse(w, errors.NewValidationError("invalid login payload", validationDetails(err)), logger)
		return
	}

	result, err := h.container.GetAuthService().Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		writeErrorResponse(w, toAppError(err), logger)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErrorResponse(w, errors.NewAuthenticationError("User not authenticated"), logger)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func validationDetails(err error) map[string]interface{} {
	details := map[string]interface{}{}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details
}
