// Package diagnostic defines the error kinds produced by every pass of the
// core (resolver, type resolver, type validator, evaluator) and a small
// ordered list that collects them, in the spirit of the teacher's
// scanner.ErrorList: a value that passes are handed to report into, rather
// than an error any single call returns and aborts on.
package diagnostic

import "github.com/perlun/perlang/lang/token"

// Kind identifies which stage produced a Diagnostic and which message
// template it was built from. The wording of each template is bit-exact to
// the one named in spec.md so driver-level test suites can match on it.
type Kind uint8

const (
	// ScanError and ParseError are produced upstream of the core; the core
	// only plumbs them through the same reporting pipeline.
	ScanError Kind = iota
	ParseError

	ResolveError
	NameResolutionError
	TypeValidationError
	RuntimeError
	InternalError
)

func (k Kind) String() string {
	switch k {
	case ScanError:
		return "ScanError"
	case ParseError:
		return "ParseError"
	case ResolveError:
		return "ResolveError"
	case NameResolutionError:
		return "NameResolutionError"
	case TypeValidationError:
		return "TypeValidationError"
	case RuntimeError:
		return "RuntimeError"
	case InternalError:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// Diagnostic is one reported error, carrying its originating token when one
// was available so the line number can be recovered.
type Diagnostic struct {
	Kind    Kind
	Tok     token.Token
	Message string
}

// Error renders the diagnostic the way the driver formats a runtime error
// ("[line <n>] <message>"); other kinds are rendered without the positional
// prefix, matching the message templates of spec.md section 6.
func (d Diagnostic) Error() string {
	if d.Kind == RuntimeError {
		return formatLine(d.Tok.Line, d.Message)
	}
	return d.Message
}

func formatLine(line int, msg string) string {
	return "[line " + itoa(line) + "] " + msg
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Handler receives diagnostics as a pass reports them. Each pass may call it
// multiple times per Eval, per spec.md section 6.
type Handler func(Diagnostic)

// List accumulates diagnostics in the order passes report them ("order of
// emission is the order of tree traversal", spec.md section 6) and can also
// act as the Handler a pass reports into.
type List struct {
	items []Diagnostic
}

// Add appends a diagnostic built from the given kind, token and message.
func (l *List) Add(kind Kind, tok token.Token, message string) {
	l.items = append(l.items, Diagnostic{Kind: kind, Tok: tok, Message: message})
}

// Handle is a Handler that appends to the list; pass it to a resolver or
// type pass that wants to both report to the host and keep its own copy.
func (l *List) Handle(d Diagnostic) { l.items = append(l.items, d) }

// HasErrors reports whether any diagnostic was recorded.
func (l *List) HasErrors() bool { return len(l.items) > 0 }

// Items returns the recorded diagnostics in emission order.
func (l *List) Items() []Diagnostic { return l.items }

// Reset clears the list for reuse across Eval calls.
func (l *List) Reset() { l.items = l.items[:0] }
