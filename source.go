package props

import "strings"

// BaseValueSource records where a property's non-animated value came from.
// Sources are ranked: a write from a lower-ranked source never replaces a
// value set by a higher-ranked one unless forced.
type BaseValueSource uint8

const (
	// SourceUnknown on a write means "keep the current source".
	SourceUnknown BaseValueSource = iota
	SourceDefault
	SourceInherited
	SourceBuiltInStyle
	SourceStyle
	SourceLocal
)

var sourceNames = [...]string{
	SourceUnknown:      "unknown",
	SourceDefault:      "default",
	SourceInherited:    "inherited",
	SourceBuiltInStyle: "builtin-style",
	SourceStyle:        "style",
	SourceLocal:        "local",
}

func (s BaseValueSource) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "invalid"
}

// Outranks reports whether s takes precedence over other.
func (s BaseValueSource) Outranks(other BaseValueSource) bool {
	return s > other
}

// ParseSource converts a source name, case-insensitively.
func ParseSource(name string) (BaseValueSource, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range sourceNames {
		if candidate == name {
			return BaseValueSource(i), true
		}
	}
	return SourceUnknown, false
}

func (s BaseValueSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *BaseValueSource) UnmarshalText(text []byte) error {
	parsed, ok := ParseSource(string(text))
	if !ok {
		return &PropertyError{Op: "parse source", Property: string(text), Err: ErrInvalidArgument}
	}
	*s = parsed
	return nil
}
