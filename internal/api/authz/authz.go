package authz

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

type AuthUser struct {
	ID          int64
	Name        string
	IsStaff     bool
	SessionType string
	ClubID      *int64
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsStaff reports whether the given AuthUser represents a staff user.
func IsStaff(user *AuthUser) bool {
	return user != nil && user.IsStaff
}

func SessionTypeFromContext(ctx context.Context) string {
	user := UserFromContext(ctx)
	if user == nil {
		return ""
	}
	return user.SessionType
}

// RequireClubAccess checks that the caller may act on the requested club.
// Users bound to a club may only touch that club; users without a club
// binding are treated as platform operators with cross-club access.
func RequireClubAccess(ctx context.Context, requestedClubID int64) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}

	if user.ClubID != nil && *user.ClubID != requestedClubID {
		return ErrForbidden
	}

	return nil
}
