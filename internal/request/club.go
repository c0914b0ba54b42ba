// Package request resolves the club scope of an incoming API request. Every
// club-scoped endpoint takes an explicit club_id; the X-Club-ID header is a
// fallback for clients that pin their club once per session.
package request

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	clubIDQueryKey = "club_id"
	clubIDHeader   = "X-Club-ID"
)

// ParseClubID parses a positive int64 club ID from a raw query or header
// value.
func ParseClubID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	clubID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || clubID <= 0 {
		return 0, false
	}

	return clubID, true
}

// ClubIDFromRequest resolves the club scope from the club_id query parameter,
// falling back to the X-Club-ID header.
func ClubIDFromRequest(r *http.Request) (int64, bool) {
	if clubID, ok := ParseClubID(r.URL.Query().Get(clubIDQueryKey)); ok {
		return clubID, true
	}
	return ParseClubID(r.Header.Get(clubIDHeader))
}
