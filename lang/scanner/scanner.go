// Package scanner turns source text into a flat token stream for
// lang/parser, reporting lexical errors through a diagnostic.Handler as it
// goes rather than stopping at the first one (spec.md's "collect errors and
// continue where possible" failure semantics apply here too).
package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/token"
)

type Scanner struct {
	src     string
	start   int
	current int
	line    int
	tokens  []token.Token
	report  diagnostic.Handler
}

// New returns a Scanner over src. report receives a ScanError diagnostic for
// every illegal character or unterminated literal encountered.
func New(src string, report diagnostic.Handler) *Scanner {
	return &Scanner{src: src, line: 1, report: report}
}

// Scan consumes the whole source and returns its tokens, terminated by a
// single EOF token.
func (s *Scanner) Scan() []token.Token {
	for !s.atEnd() {
		s.start = s.current
		s.scanOne()
	}
	s.tokens = append(s.tokens, token.Token{Kind: token.EOF, Line: s.line})
	return s.tokens
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) match(want byte) bool {
	if s.atEnd() || s.src[s.current] != want {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) add(kind token.Kind) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Kind, literal interface{}) {
	s.tokens = append(s.tokens, token.Token{
		Kind:    kind,
		Lexeme:  s.src[s.start:s.current],
		Literal: literal,
		Line:    s.line,
	})
}

func (s *Scanner) errorf(format string, args ...interface{}) {
	s.report(diagnostic.Diagnostic{
		Kind:    diagnostic.ScanError,
		Tok:     token.Token{Line: s.line},
		Message: fmt.Sprintf(format, args...),
	})
}

func (s *Scanner) scanOne() {
	c := s.advance()
	switch c {
	case ' ', '\r', '\t':
	case '\n':
		s.line++

	case '(':
		s.add(token.LEFT_PAREN)
	case ')':
		s.add(token.RIGHT_PAREN)
	case '{':
		s.add(token.LEFT_BRACE)
	case '}':
		s.add(token.RIGHT_BRACE)
	case ',':
		s.add(token.COMMA)
	case '.':
		s.add(token.DOT)
	case ':':
		s.add(token.COLON)
	case ';':
		s.add(token.SEMICOLON)

	case '+':
		if s.match('+') {
			s.add(token.PLUS_PLUS)
		} else {
			s.add(token.PLUS)
		}
	case '-':
		if s.match('-') {
			s.add(token.MINUS_MINUS)
		} else {
			s.add(token.MINUS)
		}
	case '*':
		if s.match('*') {
			s.add(token.STAR_STAR)
		} else {
			s.add(token.STAR)
		}
	case '%':
		s.add(token.PERCENT)
	case '!':
		if s.match('=') {
			s.add(token.BANG_EQUAL)
		} else {
			s.add(token.BANG)
		}
	case '=':
		if s.match('=') {
			s.add(token.EQUAL_EQUAL)
		} else {
			s.add(token.EQUAL)
		}
	case '>':
		if s.match('=') {
			s.add(token.GREATER_EQUAL)
		} else {
			s.add(token.GREATER)
		}
	case '<':
		if s.match('=') {
			s.add(token.LESS_EQUAL)
		} else {
			s.add(token.LESS)
		}

	case '/':
		switch {
		case s.match('/'):
			for s.peek() != '\n' && !s.atEnd() {
				s.advance()
			}
		case s.match('*'):
			s.blockComment()
		default:
			s.add(token.SLASH)
		}

	case '"':
		s.string()

	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			s.errorf("Unexpected character '%c'.", c)
		}
	}
}

func (s *Scanner) blockComment() {
	depth := 1
	for depth > 0 && !s.atEnd() {
		switch {
		case s.peek() == '/' && s.peekNext() == '*':
			s.advance()
			s.advance()
			depth++
		case s.peek() == '*' && s.peekNext() == '/':
			s.advance()
			s.advance()
			depth--
		case s.peek() == '\n':
			s.line++
			s.advance()
		default:
			s.advance()
		}
	}
	if depth > 0 {
		s.errorf("Unterminated block comment.")
	}
}

func (s *Scanner) string() {
	var b strings.Builder
	for s.peek() != '"' && !s.atEnd() {
		c := s.peek()
		if c == '\n' {
			s.line++
		}
		if c == '\\' {
			s.advance()
			b.WriteByte(escape(s.peek()))
			s.advance()
			continue
		}
		b.WriteByte(c)
		s.advance()
	}
	if s.atEnd() {
		s.errorf("Unterminated string.")
		return
	}
	s.advance() // closing quote
	s.addLiteral(token.STRING, b.String())
}

func escape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '"':
		return '"'
	case '\\':
		return '\\'
	default:
		return c
	}
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	isFloat := false
	if s.peek() == '.' && isDigit(s.peekNext()) {
		isFloat = true
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	lexeme := s.src[s.start:s.current]
	if isFloat {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			s.errorf("Invalid number literal '%s'.", lexeme)
			return
		}
		s.addLiteral(token.FLOAT, f)
		return
	}
	n, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		s.errorf("Invalid number literal '%s'.", lexeme)
		return
	}
	s.addLiteral(token.INT, n)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lexeme := s.src[s.start:s.current]
	if kind, ok := token.Keywords[lexeme]; ok {
		s.add(kind)
		return
	}
	s.add(token.IDENT)
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool      { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
