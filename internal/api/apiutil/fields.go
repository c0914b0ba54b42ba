package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/courtbook/courtbook/internal/request"
)

func ParseNonNegativeInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be 0 or greater", field)
	}
	return value, nil
}

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

func ClubIDFromQuery(r *http.Request) (int64, error) {
	id, ok := request.ClubIDFromRequest(r)
	if !ok {
		return 0, fmt.Errorf("club_id must be a positive integer")
	}
	return id, nil
}

func ClubIDFromRequest(r *http.Request, fromBody *int64) (int64, error) {
	if fromBody != nil {
		if *fromBody <= 0 {
			return 0, fmt.Errorf("club_id must be a positive integer")
		}
		return *fromBody, nil
	}
	return ClubIDFromQuery(r)
}

// FormatPriceCents renders a minor-unit amount for display. Money never
// crosses the API as floats; this is presentation only.
func FormatPriceCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
