package evaluator

import (
	"fmt"
	"math"
	"math/big"

	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/environment"
	"github.com/perlun/perlang/lang/host"
	"github.com/perlun/perlang/lang/resolver"
	"github.com/perlun/perlang/lang/runtime"
	"github.com/perlun/perlang/lang/token"
	"github.com/perlun/perlang/lang/types"
)

// RuntimeError is the error type every evaluator failure is wrapped in, so
// the interpreter can recognize it and hand it to the runtime-error handler
// annotated with the offending token's line, per spec.md's
// "[line <n>] <message>" driver format.
type RuntimeError struct {
	Tok     token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func runtimeErrorf(tok token.Token, format string, args ...interface{}) error {
	return &RuntimeError{Tok: tok, Message: fmt.Sprintf(format, args...)}
}

// Evaluator interprets a resolved, type-checked statement list against an
// environment chain. One Evaluator is reused across REPL Eval calls so that
// globals and their values persist, matching spec.md's REPL persistence
// model (the environment carries the values across calls; the interpreter
// keeps the accepted statements and re-resolves them every time, handing
// the evaluator a fresh binding table through SetBindings).
type Evaluator struct {
	bindings map[ast.Expr]*resolver.Binding
	hostDirs *host.Directories
	globals  *environment.Environment
	env      *environment.Environment
	out      func(string)
}

// New returns an Evaluator rooted at globals, reporting print output to out.
func New(bindings map[ast.Expr]*resolver.Binding, hostDirs *host.Directories, globals *environment.Environment, out func(string)) *Evaluator {
	return &Evaluator{bindings: bindings, hostDirs: hostDirs, globals: globals, env: globals, out: out}
}

// SetBindings swaps in a fresh binding table, used by the interpreter before
// each REPL batch since every Eval call re-resolves the whole accumulated
// program into a new Bindings map.
func (e *Evaluator) SetBindings(b map[ast.Expr]*resolver.Binding) { e.bindings = b }

// Exec runs stmts in the current environment to completion or until a
// Return signal or runtime error propagates out.
func (e *Evaluator) Exec(stmts []ast.Stmt) (Result, error) {
	last := Normal()
	for _, s := range stmts {
		r, err := e.execStmt(s)
		if err != nil {
			return Result{}, err
		}
		if r.IsReturning() {
			return r, nil
		}
		last = r
	}
	return last, nil
}

func (e *Evaluator) execStmt(s ast.Stmt) (Result, error) {
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		// The value is kept on the Result (not just discarded) so that a
		// REPL batch consisting of exactly one expression statement can
		// surface it as Interpreter.Eval's return value.
		v, err := e.eval(s.Expr)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: NormalResult, Value: v}, nil

	case *ast.Print:
		v, err := e.eval(s.Expr)
		if err != nil {
			return Result{}, err
		}
		e.out(stringify(v))
		return Normal(), nil

	case *ast.Var:
		var v runtime.Value = runtime.Null{}
		if s.Initializer != nil {
			var err error
			v, err = e.eval(s.Initializer)
			if err != nil {
				return Result{}, err
			}
		}
		e.env.Define(s.Name.Lexeme, v)
		return Normal(), nil

	case *ast.Block:
		return e.execBlock(s.Stmts, environment.NewChild(e.env))

	case *ast.If:
		cond, err := e.eval(s.Cond)
		if err != nil {
			return Result{}, err
		}
		if cond.Truthy() {
			return e.execStmt(s.Then)
		}
		if s.Else != nil {
			return e.execStmt(s.Else)
		}
		return Normal(), nil

	case *ast.While:
		for {
			cond, err := e.eval(s.Cond)
			if err != nil {
				return Result{}, err
			}
			if !cond.Truthy() {
				return Normal(), nil
			}
			r, err := e.execStmt(s.Body)
			if err != nil {
				return Result{}, err
			}
			if r.IsReturning() {
				return r, nil
			}
		}

	case *ast.Function:
		fn := &UserFunction{Decl: s, Closure: e.env}
		e.env.Define(s.Name.Lexeme, fn)
		return Normal(), nil

	case *ast.Return:
		var v runtime.Value = runtime.Null{}
		if s.Value != nil {
			var err error
			v, err = e.eval(s.Value)
			if err != nil {
				return Result{}, err
			}
		}
		return Returning(v), nil

	case *ast.Class:
		e.env.Define(s.Name.Lexeme, &DeclaredClassValue{Decl: s})
		return Normal(), nil

	default:
		return Result{}, runtimeErrorf(token.Token{}, "internal error: unexpected statement %T", s)
	}
}

// execBlock runs stmts in child, restoring the prior current environment on
// every exit path (normal, Return, or error), per spec.md section 5.
func (e *Evaluator) execBlock(stmts []ast.Stmt, child *environment.Environment) (Result, error) {
	prev := e.env
	e.env = child
	defer func() { e.env = prev }()
	return e.Exec(stmts)
}

func (e *Evaluator) binding(expr ast.Expr) (*resolver.Binding, bool) {
	b, ok := e.bindings[expr]
	return b, ok
}

// readBinding loads the value a Variable/Call/UnaryPostfix/Assign binding
// refers to, by distance if local or by name if global.
func (e *Evaluator) readBinding(b *resolver.Binding, tok token.Token) (runtime.Value, error) {
	if b.HasDistance() {
		if b.Distance >= 0 {
			v, ok := e.env.GetAt(b.Distance, b.Name)
			if !ok {
				return nil, runtimeErrorf(tok, "internal error: resolved local '%s' missing at distance %d", b.Name, b.Distance)
			}
			return v, nil
		}
		v, ok := e.env.GetGlobal(b.Name)
		if !ok {
			return nil, runtimeErrorf(tok, "Undefined identifier '%s'", b.Name)
		}
		return v, nil
	}
	switch b.Kind {
	case resolver.Native:
		return &NativeCallableValue{C: b.NativeCallable}, nil
	case resolver.NativeObject:
		return &NativeObjectValue{Class: b.NativeClass}, nil
	case resolver.Class:
		return &DeclaredClassValue{Decl: b.ClassDecl}, nil
	}
	return nil, runtimeErrorf(tok, "Undefined identifier '%s'", b.Name)
}

func (e *Evaluator) assignBinding(b *resolver.Binding, v runtime.Value, tok token.Token) error {
	if b.Distance >= 0 {
		if !e.env.AssignAt(b.Distance, b.Name, v) {
			return runtimeErrorf(tok, "internal error: assign target '%s' missing at distance %d", b.Name, b.Distance)
		}
		return nil
	}
	if !e.env.AssignGlobal(b.Name, v) {
		return runtimeErrorf(tok, "Undefined identifier '%s'", b.Name)
	}
	return nil
}

func (e *Evaluator) eval(expr ast.Expr) (runtime.Value, error) {
	switch expr := expr.(type) {
	case *ast.Literal:
		return literalValue(expr), nil

	case *ast.Grouping:
		return e.eval(expr.Inner)

	case *ast.UnaryPrefix:
		v, err := e.eval(expr.Right)
		if err != nil {
			return nil, err
		}
		switch expr.Op.Kind {
		case token.BANG:
			return runtime.Bool(!v.Truthy()), nil
		case token.MINUS:
			n, ok := v.(runtime.Number)
			if !ok {
				return nil, runtimeErrorf(expr.Op, "Operand must be numeric.")
			}
			return negate(n), nil
		}
		return nil, runtimeErrorf(expr.Op, "internal error: unexpected unary operator")

	case *ast.UnaryPostfix:
		cur, err := e.eval(expr.Left)
		if err != nil {
			return nil, err
		}
		n, ok := cur.(runtime.Number)
		if !ok {
			return nil, runtimeErrorf(expr.Op, "Operand must be numeric.")
		}
		delta := int64(1)
		if expr.Op.Kind == token.MINUS_MINUS {
			delta = -1
		}
		next := addDelta(n, delta)
		b, ok := e.binding(expr)
		if !ok {
			return nil, runtimeErrorf(expr.Op, "internal error: no binding for postfix target")
		}
		if err := e.assignBinding(b, next, expr.Op); err != nil {
			return nil, err
		}
		return n, nil

	case *ast.Binary:
		return e.binary(expr)

	case *ast.Logical:
		left, err := e.eval(expr.Left)
		if err != nil {
			return nil, err
		}
		if isOrKeyword(expr.Op) {
			if left.Truthy() {
				return left, nil
			}
		} else {
			if !left.Truthy() {
				return left, nil
			}
		}
		return e.eval(expr.Right)

	case *ast.Assign:
		v, err := e.eval(expr.Value)
		if err != nil {
			return nil, err
		}
		b, ok := e.binding(expr)
		if !ok {
			return nil, runtimeErrorf(expr.Name.Name, "internal error: no binding for assignment target")
		}
		if err := e.assignBinding(b, v, expr.Name.Name); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Variable:
		b, ok := e.binding(expr)
		if !ok {
			return nil, runtimeErrorf(expr.Name, "Undefined identifier '%s'", expr.Name.Lexeme)
		}
		return e.readBinding(b, expr.Name)

	case *ast.Call:
		return e.call(expr)

	case *ast.Get:
		obj, err := e.eval(expr.Object)
		if err != nil {
			return nil, err
		}
		return obj, nil

	case *ast.Empty:
		return runtime.Null{}, nil
	}
	return nil, runtimeErrorf(token.Token{}, "internal error: unexpected expression %T", expr)
}

// isOrKeyword distinguishes "and" from "or" by token kind, since both share
// the single Logical node shape keyed by AND/OR token kinds from the scanner.
func isOrKeyword(op token.Token) bool { return op.Kind == token.OR }

func literalValue(e *ast.Literal) runtime.Value {
	switch v := e.Value.(type) {
	case nil:
		return runtime.Null{}
	case bool:
		return runtime.Bool(v)
	case int64:
		return runtime.NewInt(types.Int32, v)
	case float64:
		return runtime.NewFloat(types.Float64, v)
	case string:
		return runtime.Str(v)
	}
	return runtime.Null{}
}

func negate(n runtime.Number) runtime.Number {
	switch {
	case n.Kind.IsFloat():
		return runtime.NewFloat(n.Kind, -n.F64)
	case n.Kind == types.BigInt:
		return runtime.NewBigInt(new(big.Int).Neg(n.AsBigInt()))
	default:
		return runtime.NewInt(n.Kind, -n.I64)
	}
}

func addDelta(n runtime.Number, delta int64) runtime.Number {
	switch {
	case n.Kind.IsFloat():
		return runtime.NewFloat(n.Kind, n.F64+float64(delta))
	case n.Kind == types.BigInt:
		return runtime.NewBigInt(new(big.Int).Add(n.AsBigInt(), big.NewInt(delta)))
	case n.Kind == types.Uint8, n.Kind == types.Uint16, n.Kind == types.Uint32, n.Kind == types.Uint64:
		return runtime.NewUint(n.Kind, uint64(int64(n.U64)+delta))
	default:
		return runtime.NewInt(n.Kind, n.I64+delta)
	}
}

func (e *Evaluator) binary(expr *ast.Binary) (runtime.Value, error) {
	left, err := e.eval(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Kind {
	case token.EQUAL_EQUAL:
		return runtime.Bool(valuesEqual(left, right)), nil
	case token.BANG_EQUAL:
		return runtime.Bool(!valuesEqual(left, right)), nil

	case token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL:
		ln, lok := left.(runtime.Number)
		rn, rok := right.(runtime.Number)
		if !lok || !rok {
			return nil, runtimeErrorf(expr.Op, "Operands must be numeric.")
		}
		c := compareNumbers(ln, rn)
		switch expr.Op.Kind {
		case token.GREATER:
			return runtime.Bool(c > 0), nil
		case token.GREATER_EQUAL:
			return runtime.Bool(c >= 0), nil
		case token.LESS:
			return runtime.Bool(c < 0), nil
		default:
			return runtime.Bool(c <= 0), nil
		}

	case token.PLUS:
		ls, lIsStr := left.(runtime.Str)
		rs, rIsStr := right.(runtime.Str)
		if lIsStr || rIsStr {
			return runtime.Str(stringify(valueOr(lIsStr, ls, left)) + stringify(valueOr(rIsStr, rs, right))), nil
		}
		ln, lok := left.(runtime.Number)
		rn, rok := right.(runtime.Number)
		if !lok || !rok {
			return nil, runtimeErrorf(expr.Op, "Operands must be numeric.")
		}
		return arithmetic(expr.Op, ln, rn)

	case token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.STAR_STAR:
		ln, lok := left.(runtime.Number)
		rn, rok := right.(runtime.Number)
		if !lok || !rok {
			return nil, runtimeErrorf(expr.Op, "Operands must be numeric.")
		}
		return arithmetic(expr.Op, ln, rn)
	}
	return nil, runtimeErrorf(expr.Op, "internal error: unexpected binary operator")
}

func valueOr(cond bool, s runtime.Str, fallback runtime.Value) runtime.Value {
	if cond {
		return s
	}
	return fallback
}

func valuesEqual(a, b runtime.Value) bool {
	_, aNull := a.(runtime.Null)
	_, bNull := b.(runtime.Null)
	if aNull || bNull {
		return aNull && bNull
	}
	switch av := a.(type) {
	case runtime.Bool:
		bv, ok := b.(runtime.Bool)
		return ok && av == bv
	case runtime.Str:
		bv, ok := b.(runtime.Str)
		return ok && av == bv
	case runtime.Number:
		bv, ok := b.(runtime.Number)
		return ok && compareNumbers(av, bv) == 0
	}
	return false
}

func compareNumbers(l, r runtime.Number) int {
	winner := types.Promote(l.Kind, r.Kind)
	lw, rw := l.WithKind(winner), r.WithKind(winner)
	switch {
	case winner.IsFloat():
		switch {
		case lw.F64 < rw.F64:
			return -1
		case lw.F64 > rw.F64:
			return 1
		default:
			return 0
		}
	case winner == types.BigInt:
		return lw.AsBigInt().Cmp(rw.AsBigInt())
	case isUnsignedKind(winner):
		switch {
		case lw.U64 < rw.U64:
			return -1
		case lw.U64 > rw.U64:
			return 1
		default:
			return 0
		}
	default:
		switch {
		case lw.I64 < rw.I64:
			return -1
		case lw.I64 > rw.I64:
			return 1
		default:
			return 0
		}
	}
}

func isUnsignedKind(k types.NumericKind) bool {
	return k == types.Uint8 || k == types.Uint16 || k == types.Uint32 || k == types.Uint64
}

func arithmetic(op token.Token, l, r runtime.Number) (runtime.Value, error) {
	if op.Kind == token.STAR_STAR {
		return power(op, l, r)
	}
	winner := types.Promote(l.Kind, r.Kind)
	lw, rw := l.WithKind(winner), r.WithKind(winner)

	switch {
	case winner.IsFloat():
		return floatArith(op, lw.F64, rw.F64, winner)
	case winner == types.BigInt:
		return bigArith(op, lw.AsBigInt(), rw.AsBigInt())
	case isUnsignedKind(winner):
		return uintArith(op, lw.U64, rw.U64, winner)
	default:
		return intArith(op, lw.I64, rw.I64, winner)
	}
}

func floatArith(op token.Token, l, r float64, kind types.NumericKind) (runtime.Value, error) {
	switch op.Kind {
	case token.PLUS:
		return runtime.NewFloat(kind, l+r), nil
	case token.MINUS:
		return runtime.NewFloat(kind, l-r), nil
	case token.STAR:
		return runtime.NewFloat(kind, l*r), nil
	case token.SLASH:
		return runtime.NewFloat(kind, l/r), nil
	case token.PERCENT:
		return runtime.NewFloat(kind, math.Mod(l, r)), nil
	}
	return nil, runtimeErrorf(op, "internal error: unexpected float operator")
}

func bigArith(op token.Token, l, r *big.Int) (runtime.Value, error) {
	switch op.Kind {
	case token.PLUS:
		return runtime.NewBigInt(new(big.Int).Add(l, r)), nil
	case token.MINUS:
		return runtime.NewBigInt(new(big.Int).Sub(l, r)), nil
	case token.STAR:
		return runtime.NewBigInt(new(big.Int).Mul(l, r)), nil
	case token.SLASH:
		if r.Sign() == 0 {
			return nil, runtimeErrorf(op, "Division by zero.")
		}
		return runtime.NewBigInt(new(big.Int).Quo(l, r)), nil
	case token.PERCENT:
		if r.Sign() == 0 {
			return nil, runtimeErrorf(op, "Division by zero.")
		}
		return runtime.NewBigInt(new(big.Int).Rem(l, r)), nil
	}
	return nil, runtimeErrorf(op, "internal error: unexpected bigint operator")
}

func uintArith(op token.Token, l, r uint64, kind types.NumericKind) (runtime.Value, error) {
	switch op.Kind {
	case token.PLUS:
		return runtime.NewUint(kind, l+r), nil
	case token.MINUS:
		return runtime.NewUint(kind, l-r), nil
	case token.STAR:
		return runtime.NewUint(kind, l*r), nil
	case token.SLASH:
		if r == 0 {
			return nil, runtimeErrorf(op, "Division by zero.")
		}
		return runtime.NewUint(kind, l/r), nil
	case token.PERCENT:
		if r == 0 {
			return nil, runtimeErrorf(op, "Division by zero.")
		}
		return runtime.NewUint(kind, l%r), nil
	}
	return nil, runtimeErrorf(op, "internal error: unexpected uint operator")
}

func intArith(op token.Token, l, r int64, kind types.NumericKind) (runtime.Value, error) {
	switch op.Kind {
	case token.PLUS:
		return runtime.NewInt(kind, l+r), nil
	case token.MINUS:
		return runtime.NewInt(kind, l-r), nil
	case token.STAR:
		return runtime.NewInt(kind, l*r), nil
	case token.SLASH:
		if r == 0 {
			return nil, runtimeErrorf(op, "Division by zero.")
		}
		return runtime.NewInt(kind, l/r), nil
	case token.PERCENT:
		if r == 0 {
			return nil, runtimeErrorf(op, "Division by zero.")
		}
		return runtime.NewInt(kind, l%r), nil
	}
	return nil, runtimeErrorf(op, "internal error: unexpected int operator")
}

// power implements "**": floating-point power if either operand is
// floating-point or the exponent is negative, otherwise big-integer power
// (spec.md section 4.4).
func power(op token.Token, l, r runtime.Number) (runtime.Value, error) {
	negExp := !r.Kind.IsFloat() && r.Kind != types.BigInt && !isUnsignedKind(r.Kind) && r.I64 < 0
	negExp = negExp || (r.Kind == types.BigInt && r.AsBigInt().Sign() < 0)
	if l.Kind.IsFloat() || r.Kind.IsFloat() || negExp {
		return runtime.NewFloat(types.Float64, math.Pow(l.AsFloat64(), r.AsFloat64())), nil
	}
	result := new(big.Int).Exp(l.AsBigInt(), r.AsBigInt(), nil)
	return runtime.NewBigInt(result), nil
}

func (e *Evaluator) call(expr *ast.Call) (runtime.Value, error) {
	args := make([]runtime.Value, len(expr.Args))
	for i, a := range expr.Args {
		v, err := e.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if get, ok := expr.Callee.(*ast.Get); ok {
		return e.callMethod(get, args, expr.Paren)
	}

	b, ok := e.binding(expr)
	if !ok {
		return nil, runtimeErrorf(expr.Paren, "NotCallable: value is not callable")
	}
	switch b.Kind {
	case resolver.Function:
		v, err := e.readBinding(b, expr.Paren)
		if err != nil {
			return nil, err
		}
		fn, ok := v.(*UserFunction)
		if !ok {
			return nil, runtimeErrorf(expr.Paren, "NotCallable: value is not callable")
		}
		return e.callUser(fn, args, expr.Paren)

	case resolver.Native:
		return e.callNative(b.NativeCallable, args, expr.Paren)

	default:
		return nil, runtimeErrorf(expr.Paren, "NotCallable: value is not callable")
	}
}

func (e *Evaluator) callUser(fn *UserFunction, args []runtime.Value, paren token.Token) (runtime.Value, error) {
	child := environment.NewChild(fn.Closure)
	for i, p := range fn.Decl.Params {
		child.Define(p.Name.Lexeme, args[i])
	}
	r, err := e.execBlock(fn.Decl.Body, child)
	if err != nil {
		return nil, err
	}
	if r.IsReturning() {
		return r.Value, nil
	}
	return runtime.Null{}, nil
}

func (e *Evaluator) callNative(c *host.Callable, args []runtime.Value, paren token.Token) (runtime.Value, error) {
	v, err := c.Method(args)
	if err != nil {
		return nil, runtimeErrorf(paren, "%s", err.Error())
	}
	return v, nil
}

// callMethod dispatches a call through a Get expression: evaluate the
// object, find the named method on its native class, and invoke it. A
// declared (non-native) class's methods are not reachable this way (spec
// non-goal), so the only Get-callee form this handles is a host object.
func (e *Evaluator) callMethod(get *ast.Get, args []runtime.Value, paren token.Token) (runtime.Value, error) {
	obj, err := e.eval(get.Object)
	if err != nil {
		return nil, err
	}
	nov, ok := obj.(*NativeObjectValue)
	if !ok {
		return nil, runtimeErrorf(paren, "NotCallable: value is not callable")
	}
	method, ok := nov.Class.Methods[get.Name.Name.Lexeme]
	if !ok {
		return nil, runtimeErrorf(paren, "Attempting to call undefined function '%s'", get.Name.Name.Lexeme)
	}
	return e.callNative(method, args, paren)
}

// stringify implements Print's formatting rule: null -> "null", booleans ->
// "true"/"false", numbers -> locale-independent decimal, strings raw.
func stringify(v runtime.Value) string {
	if v == nil {
		return "null"
	}
	return v.String()
}
