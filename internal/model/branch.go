package model

// Branches is the fixed set of course tags used to categorize both users and
// notes. Anything outside this set is rejected at signup and upload time.
var Branches = []string{"BCA", "BCom", "BBA", "BSc", "BA"}

// ValidBranch reports whether b is one of the known course tags.
func ValidBranch(b string) bool {
	for _, known := range Branches {
		if b == known {
			return true
		}
	}
	return false
}
