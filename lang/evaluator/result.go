package evaluator

import "github.com/perlun/perlang/lang/runtime"

// ResultKind tags Result: Normal statement completion, or a Return signal
// still unwinding toward the call expression that must catch it (spec.md
// section 4.4, "Evaluator function return").
type ResultKind uint8

const (
	NormalResult ResultKind = iota
	ReturningResult
)

// Result is the outcome of executing a statement or a statement list: either
// ordinary completion (carrying the value of an expression statement, Null
// otherwise), or an in-flight return carrying the value to unwind with. Modeling this as a value instead of a
// panic/exception keeps control flow explicit through every exec method.
type Result struct {
	Kind  ResultKind
	Value runtime.Value
}

func Normal() Result                        { return Result{Kind: NormalResult, Value: runtime.Null{}} }
func Returning(v runtime.Value) Result       { return Result{Kind: ReturningResult, Value: v} }
func (r Result) IsReturning() bool           { return r.Kind == ReturningResult }
