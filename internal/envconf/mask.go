package envconf

import "strings"

const maskPlaceholder = "**********"

// secretPatterns are substrings that mark a key as holding a credential.
var secretPatterns = []string{"passw", "secret", "token", "private_key", "api_key"}

// IsSecret reports whether a key name looks like it holds a credential and
// should be masked when displayed.
func IsSecret(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range secretPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
