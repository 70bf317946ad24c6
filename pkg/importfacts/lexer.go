package importfacts

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokOperator
	tokString
	tokPragma
	tokOpen
	tokClose
	tokComma
)

type token struct {
	kind tokenKind
	text string
	line int
}

const symbolChars = "!#$%&*+./<=>?@\\^|-~:"

func isSymbol(r rune) bool {
	return strings.ContainsRune(symbolChars, r)
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

type lexer struct {
	src  []rune
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1}
}

func (lx *lexer) peekAt(offset int) rune {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}

	return lx.src[lx.pos+offset]
}

func (lx *lexer) advance() rune {
	r := lx.src[lx.pos]
	lx.pos++

	if r == '\n' {
		lx.line++
	}

	return r
}

// next returns the next token, skipping whitespace and comments.
func (lx *lexer) next() (token, error) {
	if err := lx.skipSpaceAndComments(); err != nil {
		return token{}, err
	}

	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, line: lx.line}, nil
	}

	line := lx.line
	r := lx.peekAt(0)

	switch {
	case r == '{' && lx.peekAt(1) == '-' && lx.peekAt(2) == '#':
		return lx.pragma(line)
	case r == '(':
		lx.advance()

		return token{kind: tokOpen, text: "(", line: line}, nil
	case r == ')':
		lx.advance()

		return token{kind: tokClose, text: ")", line: line}, nil
	case r == ',':
		lx.advance()

		return token{kind: tokComma, text: ",", line: line}, nil
	case r == '"':
		return lx.str(line)
	case r == '_' || unicode.IsLetter(r):
		return lx.ident(line), nil
	case isSymbol(r):
		return lx.operator(line), nil
	default:
		return token{}, &lexError{line: line, msg: "unexpected character " + string(r)}
	}
}

func (lx *lexer) skipSpaceAndComments() error {
	for lx.pos < len(lx.src) {
		r := lx.peekAt(0)

		switch {
		case unicode.IsSpace(r):
			lx.advance()
		case r == '-' && lx.peekAt(1) == '-' && lx.isLineComment():
			for lx.pos < len(lx.src) && lx.peekAt(0) != '\n' {
				lx.advance()
			}
		case r == '{' && lx.peekAt(1) == '-' && lx.peekAt(2) != '#':
			if err := lx.blockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}

	return nil
}

// isLineComment reports whether the dashes at pos start a comment rather than
// an operator such as "-->".
func (lx *lexer) isLineComment() bool {
	i := 0
	for lx.peekAt(i) == '-' {
		i++
	}

	next := lx.peekAt(i)

	return next == 0 || !isSymbol(next)
}

func (lx *lexer) blockComment() error {
	line := lx.line
	depth := 0

	for lx.pos < len(lx.src) {
		switch {
		case lx.peekAt(0) == '{' && lx.peekAt(1) == '-':
			lx.advance()
			lx.advance()

			depth++
		case lx.peekAt(0) == '-' && lx.peekAt(1) == '}':
			lx.advance()
			lx.advance()

			depth--
			if depth == 0 {
				return nil
			}
		default:
			lx.advance()
		}
	}

	return &lexError{line: line, msg: "unterminated block comment"}
}

func (lx *lexer) pragma(line int) (token, error) {
	start := lx.pos

	for lx.pos < len(lx.src) {
		if lx.peekAt(0) == '#' && lx.peekAt(1) == '-' && lx.peekAt(2) == '}' {
			lx.advance()
			lx.advance()
			lx.advance()

			body := string(lx.src[start+3 : lx.pos-3])

			return token{kind: tokPragma, text: strings.ToUpper(strings.TrimSpace(body)), line: line}, nil
		}

		lx.advance()
	}

	return token{}, &lexError{line: line, msg: "unterminated pragma"}
}

func (lx *lexer) str(line int) (token, error) {
	lx.advance()

	var sb strings.Builder

	for lx.pos < len(lx.src) {
		r := lx.advance()

		switch r {
		case '"':
			return token{kind: tokString, text: sb.String(), line: line}, nil
		case '\\':
			if lx.pos < len(lx.src) {
				sb.WriteRune(lx.advance())
			}
		case '\n':
			return token{}, &lexError{line: line, msg: "unterminated string literal"}
		default:
			sb.WriteRune(r)
		}
	}

	return token{}, &lexError{line: line, msg: "unterminated string literal"}
}

// ident lexes a variable or constructor name, joining dotted constructor
// segments into one qualified name.
func (lx *lexer) ident(line int) token {
	start := lx.pos

	for {
		segStart := lx.pos
		for lx.pos < len(lx.src) && isIdentRune(lx.peekAt(0)) {
			lx.advance()
		}

		upper := unicode.IsUpper(lx.src[segStart])
		if !upper || lx.peekAt(0) != '.' || !unicode.IsLetter(lx.peekAt(1)) {
			break
		}

		lx.advance()
	}

	return token{kind: tokIdent, text: string(lx.src[start:lx.pos]), line: line}
}

func (lx *lexer) operator(line int) token {
	start := lx.pos
	for lx.pos < len(lx.src) && isSymbol(lx.peekAt(0)) {
		lx.advance()
	}

	return token{kind: tokOperator, text: string(lx.src[start:lx.pos]), line: line}
}

type lexError struct {
	line int
	msg  string
}

func (e *lexError) Error() string {
	return e.msg
}
