package extract

// Policy decides which shape kinds count as non-text content when classifying
// a slide. The kinds are format-specific identifiers supplied by the
// extractor (for OOXML decks, the local element names under the shape tree).
//
// The default list is a heuristic, not an authority: callers may supply their
// own set through configuration.
type Policy struct {
	nonText map[string]struct{}
}

// DefaultNonTextShapes lists the OOXML shape elements treated as non-text
// content by default: pictures, graphic frames (tables, charts, diagrams,
// embedded objects), connectors, and content parts.
var DefaultNonTextShapes = []string{
	"pic",
	"graphicFrame",
	"cxnSp",
	"contentPart",
}

// NewPolicy builds a classification policy from a list of non-text shape
// kinds. An empty list yields a policy that classifies every slide text-only.
func NewPolicy(nonTextShapes []string) Policy {
	set := make(map[string]struct{}, len(nonTextShapes))
	for _, kind := range nonTextShapes {
		set[kind] = struct{}{}
	}
	return Policy{nonText: set}
}

// DefaultPolicy returns the policy built from DefaultNonTextShapes.
func DefaultPolicy() Policy {
	return NewPolicy(DefaultNonTextShapes)
}

// IsNonText reports whether the given shape kind counts as non-text content.
func (p Policy) IsNonText(kind string) bool {
	_, ok := p.nonText[kind]
	return ok
}
