// Package lexer tokenizes C-subset source text using a participle
// stateful lexer, the same mechanism this front end's own grammar layer
// (grammar/lexer.go) built its Kanso token rules on, retargeted here to C
// keywords, operators and literal forms.
package lexer

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// CLexer is the stateful rule set tokenizing one C-subset source file.
// Rule order matters: longer operators must be tried before their
// single-character prefixes, and keywords are recognized by a later
// pass over Ident tokens rather than as separate lexer rules, following
// grammar/lexer.go's own "Ident first, keywords resolved by the parser"
// convention.
var CLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},
		{Name: "BlockComment", Pattern: `/\*([^*]|\*[^/])*\*/`, Action: nil},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},
		{Name: "Float", Pattern: `[0-9]+\.[0-9]+`, Action: nil},
		{Name: "Integer", Pattern: `0[xX][0-9a-fA-F]+|[0-9]+`, Action: nil},
		{Name: "Char", Pattern: `'(\\.|[^'\\])'`, Action: nil},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`, Action: nil},
		{Name: "Operator", Pattern: `(\+\+|--|->|<<=|>>=|<<|>>|<=|>=|==|!=|&&|\|\||\+=|-=|\*=|/=|%=|&=|\|=|\^=|[-+*/%&|^~!<>=])`, Action: nil},
		{Name: "Punctuation", Pattern: `[{}()\[\];,.:?]`, Action: nil},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})

// Keywords are resolved from Ident tokens rather than being their own
// lexer rule, so an identifier like "ifconfig" never misparses as two
// tokens - the same "identifiers first, keywords are a parser-side set
// membership check" approach parser/keywords.go uses.
var Keywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"unsigned": true, "signed": true, "float": true, "double": true,
	"struct": true, "union": true, "enum": true, "typedef": true,
	"if": true, "else": true, "while": true, "for": true, "do": true,
	"return": true, "break": true, "continue": true, "goto": true,
	"sizeof": true, "static": true, "extern": true, "const": true,
	"volatile": true, "switch": true, "case": true, "default": true,
}

// Token is a simplified view over participle's lexer.Token, carrying
// only what the hand-rolled parser (internal/cst) needs.
type Token struct {
	Type  string
	Value string
	Pos   lexer.Position
}

func (t Token) IsKeyword(word string) bool {
	return t.Type == "Ident" && t.Value == word
}

// Tokenize runs the stateful lexer over source and returns every
// significant token (comments and whitespace elided), terminated by an
// EOF token, following grammar.go's Elide("Whitespace") convention but
// performed manually here since there's no participle.Parser consuming
// these tokens directly.
func Tokenize(filename, source string) ([]Token, error) {
	lex, err := CLexer.Lex(filename, strings.NewReader(source))
	if err != nil {
		return nil, err
	}

	symbols := CLexer.Symbols()
	names := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		names[tt] = name
	}

	var out []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF() {
			out = append(out, Token{Type: "EOF", Pos: tok.Pos})
			break
		}

		name := names[tok.Type]
		if name == "Whitespace" || name == "Comment" || name == "BlockComment" {
			continue
		}
		out = append(out, Token{Type: name, Value: tok.Value, Pos: tok.Pos})
	}
	return out, nil
}
