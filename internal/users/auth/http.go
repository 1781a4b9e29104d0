// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/constants"
	"github.com/taibuivan/daybook/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/daybook/internal/platform/request"
	"github.com/taibuivan/daybook/internal/platform/respond"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/platform/validate"
)

// maxFormBytes caps the login form body.
const maxFormBytes = 64 << 10

// errUnsupportedGrantType follows the OAuth2 error code for foreign grants.
var errUnsupportedGrantType = &apperr.AppError{
	Code:       "UNSUPPORTED_GRANT_TYPE",
	Message:    "unsupported_grant_type",
	HTTPStatus: http.StatusBadRequest,
}

// # Definitions & Constructors

// Handler implements the public authentication endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /token    : OAuth2 password grant, form encoded.
//   - POST /register : Creates a new account with the user role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/token", handler.token)
	router.Post("/register", handler.register)

	return router
}

// # Payloads

// tokenResponse is the OAuth2 token response. It is written without the
// data envelope so password-grant clients can read it directly.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	TelegramID *int64 `json:"telegram_id"`
}

/*
POST /api/v1/auth/token

Description: OAuth2 resource-owner password grant.

Request (application/x-www-form-urlencoded):
  - grant_type: "password" or absent
  - username: account email
  - password: account password
  - scope: optional space-delimited scope list

Response:
  - 200: tokenResponse
  - 400: unsupported_grant_type or missing fields
  - 401: Invalid credentials
  - 429: Too many failed attempts
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxFormBytes)
	if err := request.ParseForm(); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid form payload"))
		return
	}

	grantType := request.PostForm.Get(FieldGrantType)
	if grantType != "" && grantType != constants.GrantTypePassword {
		respond.Error(writer, request, errUnsupportedGrantType)
		return
	}

	username := request.PostForm.Get(FieldUsername)
	password := request.PostForm.Get(FieldPassword)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Required(FieldPassword, password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	accessToken, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    username,
		Password: password,
		Scopes:   sec.ParseScopes(request.PostForm.Get("scope")),
		ClientIP: ctxutil.GetClientIP(request.Context()),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Cache-Control", "no-store")
	respond.JSON(writer, http.StatusOK, tokenResponse{
		AccessToken: accessToken.Token,
		TokenType:   accessToken.TokenType,
		ExpiresIn:   int(math.Round(time.Until(accessToken.ExpiresAt).Seconds())),
		Scope:       accessToken.Scopes.String(),
	})
}

/*
POST /api/v1/auth/register

Description: Self-service account creation. The role is always "user".

Request:
  - Body: registerRequest

Response:
  - 201: User
  - 400: Validation failure
  - 409: Email or telegram id already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:       strings.TrimSpace(input.Name),
		Email:      input.Email,
		Password:   input.Password,
		TelegramID: input.TelegramID,
		Role:       sec.RoleUser,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}
