package engine

// ResolveAmenity determines whether a station has the tyre inflation amenity.
// An explicit add override always wins; an explicit remove suppresses the
// community base list but not an explicit add.
func ResolveAmenity(code string, add, remove []string, base map[string]bool) bool {
	if containsCode(add, code) {
		return true
	}
	return base[code] && !containsCode(remove, code)
}
