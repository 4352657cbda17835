package controllers

import (
	"log/slog"
	"net/http"

	"eventconsole/internal/delivery/http/helpers"
	"eventconsole/internal/domain"
)

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AccountService
}

func NewAuthController(logger *slog.Logger, svc domain.AccountService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if l.Email == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

// Login godoc
// @Summary Log in with email and password
// @Description Returns a bearer token carrying the account's role. Unknown emails and wrong passwords get the same 401.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} helpers.APIResponse "data contains token and account"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, account, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Bad credentials surface as 401, not 403: the caller is not
		// authenticated at all.
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, Account: account})
}
