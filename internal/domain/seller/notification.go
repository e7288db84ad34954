package seller

import (
	"fmt"
	"strings"
)

// Result is the outcome of a mystery-order quality test for a seller.
type Result string

const (
	ResultPassed Result = "PASSED"
	ResultFailed Result = "FAILED"
)

// ParseResult matches the free-text result column against the known
// outcomes. Comparison is case-insensitive ("Passed", "passed" and
// "PASSED" are all accepted).
func ParseResult(raw string) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "passed":
		return ResultPassed, nil
	case "failed":
		return ResultFailed, nil
	default:
		return "", fmt.Errorf("unknown quality-test result: %q", raw)
	}
}

// Notification is one seller row from the row source. It is ephemeral:
// consumed once per send attempt and never persisted by the core.
type Notification struct {
	SellerID   string
	SellerName string
	Email      string // Possibly a comma-separated list of addresses.
	Result     Result
	ReportLink string
}

// Recipients splits the email field into individual addresses. Each
// address gets its own send attempt and its own tracking record.
func (n *Notification) Recipients() []string {
	parts := strings.Split(n.Email, ",")
	recipients := make([]string, 0, len(parts))
	for _, p := range parts {
		if addr := strings.TrimSpace(p); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	return recipients
}
