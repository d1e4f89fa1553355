package formula

// lexer tokenizes formula source one rune at a time, the way the teacher's
// lexer.Lexer walks its input, narrowed to the small alphabet a formula
// needs: digits, letters, the four operator characters, and parens.
type lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	column       int
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *lexer) nextToken() token {
	l.skipWhitespace()
	startColumn := l.column

	var tok token
	switch {
	case l.ch == 0:
		tok = token{Type: tokEOF, Literal: "", Column: startColumn}
	case l.ch == '+':
		tok = token{Type: tokPlus, Literal: "+", Column: startColumn}
		l.readChar()
	case l.ch == '-':
		tok = token{Type: tokMinus, Literal: "-", Column: startColumn}
		l.readChar()
	case l.ch == '*':
		tok = token{Type: tokAsterisk, Literal: "*", Column: startColumn}
		l.readChar()
	case l.ch == '/':
		tok = token{Type: tokSlash, Literal: "/", Column: startColumn}
		l.readChar()
	case l.ch == '(':
		tok = token{Type: tokLParen, Literal: "(", Column: startColumn}
		l.readChar()
	case l.ch == ')':
		tok = token{Type: tokRParen, Literal: ")", Column: startColumn}
		l.readChar()
	case isDigit(l.ch):
		lit := l.readNumber()
		tok = token{Type: tokNumber, Literal: lit, Column: startColumn}
	case isLetter(l.ch):
		lit := l.readVariable()
		tok = token{Type: tokVariable, Literal: lit, Column: startColumn}
	default:
		tok = token{Type: tokIllegal, Literal: string(l.ch), Column: startColumn}
		l.readChar()
	}
	return tok
}

// readNumber consumes a run of digits, an optional single '.', and the
// digits after it — a finite real literal. It does not attempt scientific
// notation; spec.md's CellContents.Number is "a finite real number", which
// plain decimal literals cover without inviting Inf/NaN via exponents.
func (l *lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

// readVariable consumes the maximal letters-then-digits run starting at the
// current letter, mirroring the CellName shape: "1A" can never be a single
// token (it lexes as a number then a variable), while a run with no
// trailing digits such as "AB" is still returned as one token and is
// rejected later by validateVariable's shape check.
func (l *lexer) readVariable() string {
	start := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}
