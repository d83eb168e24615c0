package typecheck

import "github.com/perlun/perlang/lang/ast"

// ImmutabilityValidator mirrors the host-facing error-handler slot spec.md
// section 6 names alongside scan/parse/resolve/type-validation/runtime, so
// an embedder wiring all five callbacks has somewhere to attach the sixth.
// This grammar has no syntax for declaring an immutable binding (no
// "const", no "final"), so Validate always finds zero violations and reports
// nothing; it exists so a future binding form has an obvious place to add a
// check without restructuring the interpreter's pass list.
type ImmutabilityValidator struct{}

func NewImmutabilityValidator() *ImmutabilityValidator { return &ImmutabilityValidator{} }

// Validate is a no-op over stmts: it loops over the top-level statements
// without descending into them, so its shape matches the other passes'
// Validate/Resolve methods.
func (*ImmutabilityValidator) Validate(stmts []ast.Stmt) {
	for range stmts {
	}
}
