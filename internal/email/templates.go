package email

import (
	"fmt"
	"strings"
)

type BookingEmail struct {
	Subject string
	Body    string
}

type ConfirmationDetails struct {
	ClubName  string
	CourtName string
	Date      string
	TimeRange string
	// Price is the booking total in minor units.
	Price      int64
	Currency   string
	SplitCount int64
}

type CancellationDetails struct {
	ClubName  string
	CourtName string
	Date      string
	TimeRange string
	Reason    string
	// RefundAmount is in minor units; nil means no refund was issued.
	RefundAmount *int64
	Currency     string
}

// FormatAmount renders a minor-unit amount with its currency code.
func FormatAmount(cents int64, currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = "MXN"
	}
	return fmt.Sprintf("$%.2f %s", float64(cents)/100, currency)
}

// FormatTimeRange joins the stored "HH:MM" booking times for display.
func FormatTimeRange(startTime, endTime string) string {
	return fmt.Sprintf("%s - %s", startTime, endTime)
}

func BuildBookingConfirmation(details ConfirmationDetails) BookingEmail {
	clubName := strings.TrimSpace(details.ClubName)
	if clubName == "" {
		clubName = "your club"
	}
	courtName := strings.TrimSpace(details.CourtName)
	if courtName == "" {
		courtName = "TBD"
	}

	subject := "Booking Confirmed"
	if clubName != "" {
		subject = fmt.Sprintf("%s - %s", subject, clubName)
	}

	lines := []string{
		"Your court booking is confirmed.",
		"",
		fmt.Sprintf("Club: %s", clubName),
		fmt.Sprintf("Court: %s", courtName),
		fmt.Sprintf("Date: %s", strings.TrimSpace(details.Date)),
		fmt.Sprintf("Time: %s", strings.TrimSpace(details.TimeRange)),
		fmt.Sprintf("Total: %s", FormatAmount(details.Price, details.Currency)),
	}
	if details.SplitCount > 1 {
		lines = append(lines, fmt.Sprintf("Payment: split into %d shares", details.SplitCount))
	}

	return BookingEmail{
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildBookingCancellation(details CancellationDetails) BookingEmail {
	clubName := strings.TrimSpace(details.ClubName)
	if clubName == "" {
		clubName = "your club"
	}
	courtName := strings.TrimSpace(details.CourtName)
	if courtName == "" {
		courtName = "TBD"
	}
	date := strings.TrimSpace(details.Date)
	if date == "" {
		date = "TBD"
	}
	timeRange := strings.TrimSpace(details.TimeRange)
	if timeRange == "" {
		timeRange = "TBD"
	}

	subject := "Booking Cancelled"
	if clubName != "" {
		subject = fmt.Sprintf("%s - %s", subject, clubName)
	}

	lines := []string{
		"Your court booking has been cancelled.",
		"",
		fmt.Sprintf("Club: %s", clubName),
		fmt.Sprintf("Court: %s", courtName),
		fmt.Sprintf("Date: %s", date),
		fmt.Sprintf("Time: %s", timeRange),
	}

	reason := strings.TrimSpace(details.Reason)
	if reason != "" {
		lines = append(lines, fmt.Sprintf("Reason: %s", reason))
	}
	if details.RefundAmount != nil {
		lines = append(lines, fmt.Sprintf("Refund: %s", FormatAmount(*details.RefundAmount, details.Currency)))
	}

	return BookingEmail{
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
	}
}
