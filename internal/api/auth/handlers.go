package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/config"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

var (
	queries   *dbgen.Queries
	appConfig *config.Config
	initOnce  sync.Once
)

func InitHandlers(q *dbgen.Queries, cfg *config.Config) {
	initOnce.Do(func() {
		queries = q
		appConfig = cfg
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	UserID  int64  `json:"userId"`
	Name    string `json:"name"`
	IsStaff bool   `json:"isStaff"`
	ClubID  *int64 `json:"clubId,omitempty"`
}

// HandleLogin authenticates against the local user table and issues both the
// server-side session token and the signed auth cookie.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Auth handlers not initialized")
		apiutil.WriteError(w, r, errors.New("auth handlers not initialized"))
		return
	}

	var req loginRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid request body", err))
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		apiutil.WriteError(w, r, apiutil.ValidationError("email and password are required", nil))
		return
	}

	user, err := queries.GetUserByEmail(r.Context(), sql.NullString{String: req.Email, Valid: true})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeInvalidCredentials(w, r)
			return
		}
		logger.Error().Err(err).Msg("Failed to look up user")
		apiutil.WriteError(w, r, err)
		return
	}

	if !user.PasswordHash.Valid || !VerifyPassword(user.PasswordHash.String, req.Password) {
		writeInvalidCredentials(w, r)
		return
	}

	var clubID *int64
	if user.ClubID.Valid {
		id := user.ClubID.Int64
		clubID = &id
	}
	authUser := &authz.AuthUser{
		ID:          user.ID,
		Name:        user.Name,
		IsStaff:     user.IsStaff,
		SessionType: sessionTypeFromStaff(user.IsStaff),
		ClubID:      clubID,
	}

	if err := CreateSession(w, user.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to create session")
		apiutil.WriteError(w, r, err)
		return
	}
	if err := SetAuthCookie(w, r, authUser); err != nil {
		logger.Error().Err(err).Msg("Failed to set auth cookie")
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("user_id", user.ID).Msg("User logged in")
	_ = apiutil.WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		UserID:  user.ID,
		Name:    user.Name,
		IsStaff: user.IsStaff,
		ClubID:  clubID,
	})
}

// HandleLogout tears down the server-side session and expires both cookies.
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w, r)

	// The signed auth cookie is stateless; expiring it is all we can do.
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeInvalidCredentials(w http.ResponseWriter, r *http.Request) {
	apiutil.WriteError(w, r, apiutil.HandlerError{
		Status:  http.StatusUnauthorized,
		Code:    apiutil.CodeUnauthorized,
		Message: "invalid email or password",
	})
}
