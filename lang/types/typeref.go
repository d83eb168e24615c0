package types

import "github.com/perlun/perlang/lang/token"

// TypeReference is the mutable slot attached to every expression and to
// declarations with an optional type annotation. Invariant: once Resolved is
// set it is never reassigned; Explicit holds iff Specifier is non-zero.
// Unresolved at construction; mutated only by the type resolver.
type TypeReference struct {
	Specifier token.Token // zero Token if not explicit
	Explicit  bool
	Resolved  *TypeHandle
}

// NewImplicit returns an unresolved, non-explicit TypeReference, used for
// expressions whose type is always inferred (e.g. a Binary expression).
func NewImplicit() *TypeReference {
	return &TypeReference{}
}

// NewExplicit returns an unresolved TypeReference carrying an explicit type
// specifier token, used for variable and parameter annotations.
func NewExplicit(specifier token.Token) *TypeReference {
	return &TypeReference{Specifier: specifier, Explicit: true}
}

// IsResolved reports whether Resolved has been set.
func (r *TypeReference) IsResolved() bool { return r != nil && r.Resolved != nil }

// Resolve sets Resolved. It panics if called twice, enforcing the "never
// reassigned" invariant; callers must check IsResolved first.
func (r *TypeReference) Resolve(h *TypeHandle) {
	if r.Resolved != nil {
		panic("types: TypeReference already resolved")
	}
	r.Resolved = h
}
