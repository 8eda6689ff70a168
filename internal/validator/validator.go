// Package validator holds the format checks applied to candidate details
// before they are accepted into a session.
package validator

import "regexp"

// space matches every character a browser treats as whitespace: ASCII
// controls, the Unicode separator categories and the byte order mark.
const space = `\s\v\p{Z}\x{FEFF}`

var (
	emailRegex = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	// 10 digits, each of the first nine optionally followed by one space or dash
	phoneRegex = regexp.MustCompile(`^(\d[` + space + `-]?){9}\d$`)
)

// IsValidEmail reports whether s looks like local@domain.tld.
// No further domain checks are made.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidPhone reports whether s is a 10-digit phone number with optional
// single space or dash separators between digits.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}
