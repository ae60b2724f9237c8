package model

import (
	"regexp"
	"strings"
)

var (
	identifierPattern = regexp.MustCompile(`^[0-9]{4,11}$`)
	namePattern       = regexp.MustCompile(`^[A-Za-zÀ-ÿñÑ\s]{1,100}$`)
	phonePattern      = regexp.MustCompile(`^[36][0-9]{9}$`)
)

// ValidIdentifier reports whether s is a well-formed customer identifier:
// exactly 4 to 11 decimal digits. Uniqueness is not checked here; it is
// enforced by the registry upsert so there is no window between "not yet
// registered" and "about to register".
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// ValidName reports whether s is a well-formed full name: 1 to 100
// characters, letters (accented letters and ñ included) and whitespace only.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// ValidPhone reports whether s is a well-formed phone number: exactly 10
// digits starting with 3 or 6.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidEmail reports whether s contains an "@". This is intentionally weak:
// it is the contract the registry was populated under, and tightening it
// would reject addresses that were already accepted.
func ValidEmail(s string) bool {
	return strings.Contains(s, "@")
}
