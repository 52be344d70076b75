package errors

import (
	"github.com/alecthomas/participle/v2"

	"cprizm/internal/ast"
)

// ReportParticipleError converts a participle.Error surfaced by the
// lexer's stateful tokenizer into a CompilerError, type-asserting
// err.(participle.Error) to recover a source position before printing.
// Returns false for any error that isn't a participle.Error, so the
// caller can fall back to a generic message.
func ReportParticipleError(filename string, err error) (CompilerError, bool) {
	pe, ok := err.(participle.Error)
	if !ok {
		return CompilerError{}, false
	}

	pos := pe.Position()
	return CompilerError{
		Level:   Error,
		Code:    ErrorUnexpectedChar,
		Message: pe.Message(),
		Position: ast.Position{
			Filename: filename,
			Offset:   pos.Offset,
			Line:     pos.Line,
			Column:   pos.Column,
		},
		Length: 1,
	}, true
}
