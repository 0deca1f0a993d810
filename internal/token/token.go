package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	NEWLINE = "NEWLINE"

	// Identifiers and literals
	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	BANG     = "!"
	LT       = "<"
	GT       = ">"
	LT_EQ    = "<="
	GT_EQ    = ">="
	EQ       = "=="
	NOT_EQ   = "!="
	AND      = "&&"
	OR       = "||"

	// DOUBLE_SPLAT introduces a spread of named arguments (**bundle) in a
	// call, or the bundle-collecting parameter in a function definition.
	DOUBLE_SPLAT = "**"

	// Delimiters
	COMMA     = ","
	COLON     = ":"
	DOT       = "."
	AT        = "@"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"
	SEMICOLON = ";"

	// Keywords
	FUNCTION = "FUN"
	RETURN   = "RETURN"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	FOR      = "FOR"
	IN       = "IN"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NIL      = "NIL"
)

type Token struct {
	Type    TokenType
	Lexeme  string // the raw source text of the token
	Literal string // the interpreted value (identical to Lexeme except for strings)
	Line    int
	Column  int
}

var keywords = map[string]TokenType{
	"fun":      FUNCTION,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
	"nil":      NIL,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
