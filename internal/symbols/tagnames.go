package symbols

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"hilo/internal/ast"
)

// TagNames memoizes canonical names of tag declarations.
type TagNames struct {
	names  map[ast.DeclID]string
	hits   int
	misses int
}

// NewTagNames returns an empty cache.
func NewTagNames() *TagNames {
	return &TagNames{names: make(map[ast.DeclID]string)}
}

// DeclName returns the NFC-normalized identifier of d, or anonymous[<id>]
// when d has none.
func DeclName(d ast.Decl) string {
	if d.Name() == "" {
		return fmt.Sprintf("anonymous[%d]", d.ID())
	}
	return norm.NFC.String(d.Name())
}

// Name returns the canonical name of tag: the names of its enclosing record
// and enum contexts, outermost first, then its own name, joined by "::".
// Translation-unit and function contexts contribute nothing.
func (n *TagNames) Name(tag ast.TagDecl) string {
	if name, ok := n.names[tag.ID()]; ok {
		n.hits++
		return name
	}
	n.misses++
	name := qualifiedPrefix(tag) + DeclName(tag)
	n.names[tag.ID()] = name
	return name
}

func qualifiedPrefix(tag ast.TagDecl) string {
	var parts []string
	for ctx := tag.Context(); ctx != nil; ctx = ctx.Context() {
		switch ctx.(type) {
		case *ast.TranslationUnit, *ast.FunctionDecl:
			continue
		case ast.TagDecl:
			parts = append(parts, DeclName(ctx))
		default:
			panic(&InternalError{
				Op:     "tag name",
				Detail: fmt.Sprintf("%s context %q", ctx.Kind(), ctx.Name()),
				Err:    ErrUnknownContext,
			})
		}
	}
	if len(parts) == 0 {
		return ""
	}
	slices.Reverse(parts)
	return strings.Join(parts, "::") + "::"
}

// Stats returns cache hits and misses.
func (n *TagNames) Stats() (hits, misses int) { return n.hits, n.misses }

// Len returns the number of cached names.
func (n *TagNames) Len() int { return len(n.names) }
