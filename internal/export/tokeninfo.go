package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/logrecord"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

// TokenInfo renders a session summary for copying.
func TokenInfo(s models.EndpointSession) string {
	var b strings.Builder

	b.WriteString("Total Amount: ")
	b.WriteString(limitText(s))
	b.WriteString("\nRemaining Quota: ")
	b.WriteString(remainingText(s))
	b.WriteString("\nUsed Quota: ")
	b.WriteString(usedText(s))
	b.WriteString("\nValid Until: ")
	b.WriteString(expiryText(s))
	return b.String()
}

func fixed3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func limitText(s models.EndpointSession) string {
	switch {
	case s.IsUnlimited():
		return "Unlimited"
	case s.Balance.Known:
		return fixed3(s.Balance.Value)
	default:
		return "Unknown"
	}
}

func remainingText(s models.EndpointSession) string {
	if s.IsUnlimited() {
		return "Unlimited"
	}
	if r := s.Remaining(); r.Known {
		return fixed3(r.Value)
	}
	return "Unknown"
}

func usedText(s models.EndpointSession) string {
	if s.IsUnlimited() {
		return "Not calculated"
	}
	if s.Usage.Known {
		return fixed3(s.Usage.Value)
	}
	return "Unknown"
}

// ExpiryText describes when access ends.
func ExpiryText(s models.EndpointSession) string {
	return expiryText(s)
}

func expiryText(s models.EndpointSession) string {
	switch {
	case !s.AccessExpiry.Known:
		return "Unknown"
	case s.NeverExpires():
		return "Never Expires"
	default:
		return time.Unix(int64(s.AccessExpiry.Value), 0).Format(logrecord.TimeLayout)
	}
}
