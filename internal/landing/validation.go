package landing

import (
	"regexp"
	"strings"
)

// emailRegex is the syntax browsers enforce for <input type="email">.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// ValidEmail reports whether email would pass the browser's native check.
// Leading and trailing whitespace is ignored, as browsers strip it.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email)
}
