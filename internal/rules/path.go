package rules

import (
	"fmt"
	"strings"
)

// ParseProp parses a shorthand property string ("src:ref", "name", ":ref", "src:", ":").
func ParseProp(s string) (PropRule, error) {
	s = strings.TrimSpace(s)

	src, ref, hasColon := strings.Cut(s, ":")
	if !hasColon {
		ref = src
	}

	src, ref = strings.TrimSpace(src), strings.TrimSpace(ref)

	if src != "" && !IsValidName(src) {
		return PropRule{}, fmt.Errorf("invalid prop %q: invalid source name %q", s, src)
	}

	if ref != "" && !IsValidName(ref) {
		return PropRule{}, fmt.Errorf("invalid prop %q: invalid reference name %q", s, ref)
	}

	return PropRule{Src: src, Ref: ref}, nil
}

// String returns the shorthand form of the prop (without expression).
func (p PropRule) String() string {
	if p.Src == p.Ref && p.Src != "" {
		return p.Src
	}

	return p.Src + ":" + p.Ref
}

// IsIdentity reports whether the prop transfers the whole value into the rule's own field.
func (p PropRule) IsIdentity() bool {
	return p.Src == "" && p.Ref == "" && p.Exp == ""
}

// IsValidName checks that s is usable as a field or map key name: letters,
// digits, underscores and dashes, not starting with a digit or dash.
func IsValidName(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case isLetter(r) || r == '_':
		case i > 0 && (isDigit(r) || r == '-'):
		default:
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
