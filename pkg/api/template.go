package api

import (
	"fmt"
	"strings"
)

// Kind discriminates the two endpoint template variants.
type Kind int

const (
	KindUnset Kind = iota
	KindLiteral
	KindParameterized
)

// IDPlaceholder marks the identifier slot in endpoint patterns.
const IDPlaceholder = "{id}"

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindParameterized:
		return "parameterized"
	default:
		return "unset"
	}
}

// Template is either a literal path or a function from a resource identifier to a path.
// The zero value is unset and rejected by Endpoints.Validate.
type Template struct {
	kind    Kind
	path    string
	build   func(id string) string
	pattern string
}

// Literal returns a template that always yields path.
func Literal(path string) Template {
	return Template{kind: KindLiteral, path: path}
}

// Parameterized returns a template that builds its path from an identifier.
func Parameterized(build func(id string) string) Template {
	if build == nil {
		return Template{}
	}
	return Template{kind: KindParameterized, build: build}
}

// Pattern builds a parameterized template from a path holding exactly one {id} slot.
func Pattern(pattern string) (Template, error) {
	if n := strings.Count(pattern, IDPlaceholder); n != 1 {
		return Template{}, fmt.Errorf("%w: pattern %q must contain exactly one %s placeholder", ErrInvalidConfig, pattern, IDPlaceholder)
	}
	prefix, suffix, _ := strings.Cut(pattern, IDPlaceholder)
	t := Parameterized(func(id string) string { return prefix + id + suffix })
	t.pattern = pattern
	return t, nil
}

// MustPattern is Pattern for package-level defaults; it panics on a malformed pattern.
func MustPattern(pattern string) Template {
	t, err := Pattern(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Template) Kind() Kind            { return t.kind }
func (t Template) IsParameterized() bool { return t.kind == KindParameterized }

// Path returns a literal template's path unchanged.
func (t Template) Path() (string, error) {
	switch t.kind {
	case KindLiteral:
		return t.path, nil
	case KindParameterized:
		return "", ErrNotLiteral
	default:
		return "", fmt.Errorf("%w: template is unset", ErrInvalidConfig)
	}
}

// Resolve substitutes id into a parameterized template.
func (t Template) Resolve(id string) (string, error) {
	switch t.kind {
	case KindParameterized:
	case KindLiteral:
		return "", ErrNotParameterized
	default:
		return "", fmt.Errorf("%w: template is unset", ErrInvalidConfig)
	}
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return t.build(id), nil
}

// String renders the template for logs; parameterized templates built from a
// function render with the placeholder substituted in.
func (t Template) String() string {
	switch t.kind {
	case KindLiteral:
		return t.path
	case KindParameterized:
		if t.pattern != "" {
			return t.pattern
		}
		return t.build(IDPlaceholder)
	default:
		return ""
	}
}

// ValidateID accepts identifiers made of RFC 3986 unreserved characters.
// Dot segments are rejected so a resolved path never walks up the tree.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: identifier is empty", ErrInvalidArgument)
	}
	if id == "." || id == ".." {
		return fmt.Errorf("%w: identifier %q is a dot segment", ErrInvalidArgument, id)
	}
	for i := 0; i < len(id); i++ {
		if !isUnreserved(id[i]) {
			return fmt.Errorf("%w: identifier %q contains disallowed character %q", ErrInvalidArgument, id, id[i])
		}
	}
	return nil
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
