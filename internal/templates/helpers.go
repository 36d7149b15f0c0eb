package templates

import (
	"strconv"

	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/forms"
)

// itoa converts an int64 to a string, used for building URL paths.
func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// percent renders a participation share as "12.50%".
func percent(p domain.Percent) string {
	return p.String() + "%"
}

// date renders an API date for display, or a dash when it cannot be read.
func date(raw string) string {
	t := forms.ParseDate(raw)
	if t.IsZero() {
		if raw == "" {
			return "-"
		}
		return raw
	}
	return t.Format("Jan 02, 2006")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
