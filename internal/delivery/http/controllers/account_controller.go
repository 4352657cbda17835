package controllers

import (
	"log/slog"
	"net/http"

	"eventconsole/internal/delivery/http/helpers"
	"eventconsole/internal/domain"
)

type AccountController struct {
	Logger  *slog.Logger
	Service domain.AccountService
}

func NewAccountController(logger *slog.Logger, svc domain.AccountService) *AccountController {
	return &AccountController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateAccountRequest is the request body for POST /accounts (admin only).
type CreateAccountRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// Validate implements Validator.
func (c CreateAccountRequest) Validate() []string {
	var errs []string
	if c.FirstName == "" {
		errs = append(errs, "first_name is required")
	}
	if c.Email == "" {
		errs = append(errs, "email is required")
	}
	if len(c.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if c.Role != string(domain.RoleAdmin) && c.Role != string(domain.RoleOrganizer) {
		errs = append(errs, "role must be admin or organizer")
	}
	return errs
}

// CreateAccount godoc
// @Summary Create a console account
// @Description Admin-only. Creates an admin or organizer account with an explicit role.
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body CreateAccountRequest true "Account"
// @Success 201 {object} helpers.APIResponse "data contains the created account"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate email)"
// @Router /accounts [post]
func (c *AccountController) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	account, err := c.Service.CreateAccount(r.Context(), req.FirstName, req.LastName, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, account)
}

// ListAccounts godoc
// @Summary List console accounts
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains accounts"
// @Router /accounts [get]
func (c *AccountController) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := c.Service.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, accounts)
}

// GetAccount godoc
// @Summary Get a console account by ID
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param accountID path string true "Account ID"
// @Success 200 {object} helpers.APIResponse "data contains the account"
// @Router /accounts/{accountID} [get]
func (c *AccountController) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := c.Service.GetAccount(r.Context(), r.PathValue("accountID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, account)
}

// UpdateAccountRequest is the request body for PATCH /accounts/{accountID}.
type UpdateAccountRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// Validate implements Validator.
func (u UpdateAccountRequest) Validate() []string {
	var errs []string
	if u.FirstName != nil && *u.FirstName == "" {
		errs = append(errs, "first_name must not be empty")
	}
	if u.Email != nil && *u.Email == "" {
		errs = append(errs, "email must not be empty")
	}
	return errs
}

// UpdateAccount godoc
// @Summary Update a console account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param accountID path string true "Account ID"
// @Param account body UpdateAccountRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated account"
// @Router /accounts/{accountID} [patch]
func (c *AccountController) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req UpdateAccountRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	account, err := c.Service.UpdateAccount(r.Context(), r.PathValue("accountID"), domain.AccountPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, account)
}

// DeleteAccount godoc
// @Summary Delete a console account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param accountID path string true "Account ID"
// @Success 204 "deleted"
// @Router /accounts/{accountID} [delete]
func (c *AccountController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteAccount(r.Context(), r.PathValue("accountID")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
