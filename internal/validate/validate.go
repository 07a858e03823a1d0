package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone    = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,19}$`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 128 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 128 {
		return "", false
	}
	return s, true
}

// ID validates a resource identifier taken from a path segment.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password enforces the login-credential policy: 8-64 chars spanning
// case, digit and symbol classes.
func Password(s string) bool {
	if len(s) < 8 || len(s) > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// Page parses a positive page query value, defaulting on garbage.
func Page(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// PageSize clamps the page size to [1, 100].
func PageSize(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	if n > 100 {
		return 100
	}
	return n
}
