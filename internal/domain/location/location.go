// Package location validates tournament venue strings.
package location

// Valid reports whether s is a well-formed venue name: an uppercase
// letter followed by lowercase letters and spaces only.
func Valid(s string) bool {
	if len(s) < 1 || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c != ' ' && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
