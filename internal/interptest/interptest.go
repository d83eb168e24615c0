// Package interptest is a small in-memory harness for driving
// lang/interpreter.Interpreter from table-driven tests: it captures stdout
// and every diagnostic message a run produces, trading the teacher's
// golden-fixture directories (internal/filetest) for plain string
// comparisons, since this module's test corpus is a handful of short
// REPL-style snippets rather than whole source files.
package interptest

import (
	"strings"

	"github.com/perlun/perlang/internal/natives"
	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/interpreter"
	"github.com/perlun/perlang/lang/runtime"
)

// Session wraps one Interpreter plus its captured output, letting a test
// feed it several Eval calls in sequence (matching spec.md's REPL
// persistence model) and inspect the cumulative results after each one.
type Session struct {
	in      *interpreter.Interpreter
	Stdout  []string
	Diags   []diagnostic.Diagnostic
	argv    []string
}

// New starts a Session with the given program arguments available as ARGV.
func New(argv []string) *Session {
	s := &Session{argv: argv}
	handle := func(d diagnostic.Diagnostic) {
		s.Diags = append(s.Diags, d)
	}
	cfg := interpreter.Config{
		Host: natives.Directories(argv),
		Stdout: func(line string) {
			s.Stdout = append(s.Stdout, line)
		},
		OnScanError:           handle,
		OnParseError:          handle,
		OnResolveError:        handle,
		OnTypeValidationError: handle,
		OnImmutabilityError:   handle,
		OnRuntimeError:        handle,
	}
	s.in = interpreter.New(cfg)
	return s
}

// Eval feeds one REPL input to the session's interpreter and returns its
// result value.
func (s *Session) Eval(source string) runtime.Value {
	return s.in.Eval(source)
}

// Out joins every printed line captured so far, one per line.
func (s *Session) Out() string {
	return strings.Join(s.Stdout, "\n")
}

// Messages returns the Message field of every diagnostic recorded so far.
func (s *Session) Messages() []string {
	msgs := make([]string, len(s.Diags))
	for i, d := range s.Diags {
		msgs[i] = d.Message
	}
	return msgs
}

// HasErrors reports whether any diagnostic was recorded so far.
func (s *Session) HasErrors() bool {
	return len(s.Diags) > 0
}
