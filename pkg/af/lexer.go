package af

// lexer is the shared cursor for the hand-rolled format parsers.
type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) eof() bool {
	l.skipSpace()
	return l.pos >= len(l.input)
}

// expect consumes the given literal byte, skipping leading whitespace.
func (l *lexer) expect(c byte) error {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return parseErrorf(l.pos, "expected %q, found end of input", string(c))
	}
	if l.input[l.pos] != c {
		return parseErrorf(l.pos, "expected %q, found %q", string(c), string(l.input[l.pos]))
	}
	l.pos++
	return nil
}

// peek reports whether the next non-space byte equals c, without
// consuming it.
func (l *lexer) peek(c byte) bool {
	l.skipSpace()
	return l.pos < len(l.input) && l.input[l.pos] == c
}

func isIdentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		return true
	}
	return false
}

// ident consumes a maximal identifier token.
func (l *lexer) ident() (string, error) {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.input) && isIdentByte(l.input[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		if l.pos >= len(l.input) {
			return "", parseErrorf(l.pos, "expected identifier, found end of input")
		}
		return "", parseErrorf(l.pos, "expected identifier, found %q", string(l.input[l.pos]))
	}
	return l.input[start:l.pos], nil
}

// validIdent reports whether s is a legal identifier token.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}
