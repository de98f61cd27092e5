package query

// Toggle applies toggle-single-select: choosing the current value clears it,
// choosing anything else replaces it.
func Toggle(current, v string) string {
	if current == v {
		return ""
	}
	return v
}
