package handlers

import (
	"net/http"

	"github.com/marmos91/wgps/pkg/controlplane/api/auth"
)

// loginRequest is the body of a login request.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// refreshRequest is the body of a token refresh request.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthHandler authenticates the control plane's single operator account and
// issues JWT token pairs. There is no users table: the operator credential
// is a bootstrap bcrypt hash carried by the control plane's own config.
type AuthHandler struct {
	jwtService       *auth.JWTService
	operatorUsername string
	operatorHash     string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(jwtService *auth.JWTService, operatorUsername, operatorPasswordHash string) *AuthHandler {
	return &AuthHandler{
		jwtService:       jwtService,
		operatorUsername: operatorUsername,
		operatorHash:     operatorPasswordHash,
	}
}

// Login validates the operator credential and issues a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if h.operatorHash == "" {
		InternalServerError(w, "operator credential is not configured")
		return
	}

	if req.Username != h.operatorUsername || !auth.VerifyPassword(req.Password, h.operatorHash) {
		Unauthorized(w, "invalid username or password")
		return
	}

	tokens, err := h.jwtService.GenerateTokenPair(req.Username)
	if err != nil {
		InternalServerError(w, "failed to issue tokens")
		return
	}

	WriteJSONOK(w, tokens)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		Unauthorized(w, "invalid or expired refresh token")
		return
	}

	tokens, err := h.jwtService.GenerateTokenPair(claims.Operator)
	if err != nil {
		InternalServerError(w, "failed to issue tokens")
		return
	}

	WriteJSONOK(w, tokens)
}
