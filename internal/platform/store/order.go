package store

import "strings"

// NameOrder is the SQL ordering that matches NameLess.
const NameOrder = `lower(name) COLLATE "C", name COLLATE "C"`

// NameLess orders display names ignoring case, so "Alice", "bob" and
// "Carol" sort the way people expect. Names equal up to case fall back to
// byte order to keep the result stable.
func NameLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
