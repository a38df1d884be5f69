package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/dto"
	authservice "github.com/ecoprint/b2b-manager/internal/service/authservice"
	"github.com/ecoprint/b2b-manager/pkg/utils"
	"github.com/ecoprint/b2b-manager/pkg/validate"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=auth

type Service interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GenerateToken(user *domain.User) (string, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create a user account with a zero-balance ledger account
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		201		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		409		{object}	utils.Response	"Email already registered"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validate.IsEmail(req.Email) || len(req.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid email and a password of at least 8 characters are required")
		return
	}
	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, authservice.ErrEmailTaken) {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusCreated, dto.AuthResponseDTO{Token: token})
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Log in and receive a JWT token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.AuthResponseDTO{Token: token})
}
