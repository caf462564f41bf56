package host

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
)

type sanitizer interface {
	Sanitize(s string) string
}

// newSanitizer maps a policy name to a bluemonday policy. An empty name or
// "none" disables sanitizing.
func newSanitizer(name string) (sanitizer, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "ugc":
		return bluemonday.UGCPolicy(), nil
	case "strict":
		return bluemonday.StrictPolicy(), nil
	default:
		return nil, fmt.Errorf("host: unknown sanitize policy %q", name)
	}
}
