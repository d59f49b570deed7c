package screener

import "strings"

// Ineligible instrument classes, excluded before any evaluation: preferred
// shares carry a 5/7/9 code suffix or a "우" name marker, SPAC shells are
// named "스팩", and the 43-prefixed administrative block is never screened.
func Eligible(code, name string) bool {
	if strings.HasSuffix(code, "5") || strings.HasSuffix(code, "7") || strings.HasSuffix(code, "9") {
		return false
	}
	if strings.HasPrefix(code, "43") {
		return false
	}
	if strings.Contains(name, "우") || strings.Contains(name, "스팩") {
		return false
	}
	return true
}
