package types

import (
	"fmt"
	"strings"
)

// String renders a descriptor for diagnostics and tests, in the
// language's own type syntax.
func (d *Descriptor) String() string {
	if d == nil {
		return "<nil type>"
	}
	switch d.kind {
	case KindUnknown:
		return "<unknown>"
	case KindError:
		return "<error>"
	case KindTuple:
		parts := make([]string, len(d.elements))
		for i, e := range d.elements {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindFunction:
		parts := make([]string, len(d.params))
		for i, p := range d.params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), d.ret.String())
	default:
		return d.displayName()
	}
}
