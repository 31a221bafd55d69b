package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer       = "folio-server"
	minPasswordLength = 8
	bcryptCost        = 10

	// bcrypt ignores input beyond 72 bytes.
	maxPasswordBytes = 72

	devUserID    = "dev_user"
	devUserEmail = "dev@folio.local"
)

// Identity providers recorded on InternalUser.Provider.
const (
	ProviderEmail = "email"
	ProviderDev   = "dev"
)

// signJWT creates an HS256 token for the user.
func signJWT(user *models.InternalUser, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.UserID,
		"email":    user.Email,
		"name":     user.DisplayName(),
		"role":     user.Role,
		"provider": user.Provider,
		"iss":      tokenIssuer,
		"iat":      now.Unix(),
		"exp":      now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and verifies an HMAC-signed token.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// userResponse builds the public view of a user. The password hash never leaves the server.
func userResponse(user *models.InternalUser) map[string]interface{} {
	return map[string]interface{}{
		"user_id":           user.UserID,
		"email":             user.Email,
		"first_name":        user.FirstName,
		"last_name":         user.LastName,
		"name":              user.DisplayName(),
		"profile_image_url": user.ProfileImageURL,
		"provider":          user.Provider,
		"role":              user.Role,
	}
}

// writeTokenResponse signs a token for user and writes the auth envelope.
func (s *Server) writeTokenResponse(w http.ResponseWriter, status int, user *models.InternalUser) {
	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.UserID).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	WriteJSON(w, status, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"token":      token,
			"expires_in": int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
			"user":       userResponse(user),
		},
	})
}

// handleAuthRegister handles POST /api/auth/register.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	var errs models.ValidationErrors
	if req.Email == "" {
		errs.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errs.Add("email", "email is not a valid address")
	}
	if len(req.Password) < minPasswordLength {
		errs.Add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(errs) > 0 {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid registration",
			Code:    CodeValidation,
			Details: errs,
		})
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	if _, err := store.GetUserByEmail(ctx, req.Email); err == nil {
		WriteErrorWithCode(w, http.StatusConflict, "An account with this email already exists", CodeConflict)
		return
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		s.logger.Error().Err(err).Msg("Failed to look up user by email")
		WriteError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword(truncatePassword(req.Password), bcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	now := time.Now()
	user := &models.InternalUser{
		UserID:       uuid.New().String(),
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
		Provider:     ProviderEmail,
		Role:         models.RoleUser,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("User registered")
	s.writeTokenResponse(w, http.StatusCreated, user)
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.Storage.InternalStore().GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Error().Err(err).Msg("Failed to look up user for login")
		}
		WriteErrorWithCode(w, http.StatusUnauthorized, "invalid credentials", CodeUnauthenticated)
		return
	}

	// Provider accounts have no password and cannot log in this way.
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), truncatePassword(req.Password)) != nil {
		WriteErrorWithCode(w, http.StatusUnauthorized, "invalid credentials", CodeUnauthenticated)
		return
	}

	s.writeTokenResponse(w, http.StatusOK, user)
}

// handleAuthDev handles POST /api/auth/dev: issues a token for a fixed local
// user without credentials. Disabled in production.
func (s *Server) handleAuthDev(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Dev login disabled in production")
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	user, err := store.GetUser(ctx, devUserID)
	if errors.Is(err, interfaces.ErrNotFound) {
		now := time.Now()
		user = &models.InternalUser{
			UserID:     devUserID,
			Email:      devUserEmail,
			FirstName:  "Dev",
			LastName:   "User",
			Provider:   ProviderDev,
			Role:       models.RoleUser,
			CreatedAt:  now,
			ModifiedAt: now,
		}
		err = store.SaveUser(ctx, user)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to provision dev user")
		WriteError(w, http.StatusInternalServerError, "Failed to provision dev user")
		return
	}

	s.writeTokenResponse(w, http.StatusOK, user)
}

// handleAuthValidate handles POST /api/auth/validate.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	tokenString, ok := bearerToken(r)
	if !ok {
		WriteErrorWithCode(w, http.StatusUnauthorized, "missing or invalid Authorization header", CodeUnauthenticated)
		return
	}

	claims, err := validateJWT(tokenString, []byte(s.app.Config.Auth.JWTSecret))
	if err != nil {
		WriteErrorWithCode(w, http.StatusUnauthorized, "invalid or expired token", CodeUnauthenticated)
		return
	}

	sub, _ := claims["sub"].(string)
	user, err := s.app.Storage.InternalStore().GetUser(r.Context(), sub)
	if err != nil {
		WriteErrorWithCode(w, http.StatusUnauthorized, "invalid or expired token", CodeUnauthenticated)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"user": userResponse(user),
		},
	})
}

// handleAuthUser handles GET /api/auth/user.
func (s *Server) handleAuthUser(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	user, err := s.app.Storage.InternalStore().GetUser(r.Context(), common.ResolveUserID(r.Context()))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteErrorWithCode(w, http.StatusUnauthorized, "Unauthorized", CodeUnauthenticated)
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load current user")
		WriteError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"user": userResponse(user),
		},
	})
}
