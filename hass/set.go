package hass

// Set is an allow-list of string values accepted by Home Assistant for a constrained field.
type Set map[string]struct{}

// NewSet constructs a Set from the provided values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}

	return s
}

// Contains reports whether v is a member of this Set.
func (s Set) Contains(v string) bool {
	_, ok := s[v]
	return ok
}
