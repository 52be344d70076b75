package errors

// Error codes identify each diagnostic the pipeline can emit, grouped
// by the stage that raises them:
//
// E01xx: preprocessor errors (missing headers, malformed directives)
// E02xx: lexical errors (bad tokens, unterminated literals)
// E03xx: parse errors (unexpected token, malformed declarator)
// E04xx: semantic errors (undefined name, type mismatch, bad assignment)
// E05xx: IR/internal errors, always panic-wrapped before reaching a user
// W0xxx: warnings, any stage

const (
	// Preprocessor errors (E01xx)

	ErrorIncludeNotFound = "E0101"
	ErrorMalformedDirective = "E0102"
	ErrorMacroRedefinition = "E0103"
	ErrorUnterminatedConditional = "E0104"

	// Lexical errors (E02xx)

	ErrorUnterminatedString = "E0201"
	ErrorUnterminatedChar   = "E0202"
	ErrorInvalidEscape      = "E0203"
	ErrorMalformedNumber    = "E0204"
	ErrorUnexpectedChar     = "E0205"

	// Parse errors (E03xx)

	ErrorUnexpectedToken      = "E0301"
	ErrorExpectedDeclaration  = "E0302"
	ErrorMalformedDeclarator  = "E0303"
	ErrorUnterminatedBlock    = "E0304"
	ErrorExpectedExpression   = "E0305"

	// Semantic errors (E04xx)

	ErrorUndefinedVariable      = "E0401"
	ErrorUndefinedFunction      = "E0402"
	ErrorTypeMismatch           = "E0403"
	ErrorInvalidReturnType      = "E0404"
	ErrorFieldNotFound          = "E0405"
	ErrorDuplicateField         = "E0406"
	ErrorMissingField           = "E0407"
	ErrorInvalidBinaryOperation = "E0408"
	ErrorDuplicateDeclaration   = "E0409"
	ErrorInvalidArguments       = "E0410"
	ErrorInvalidAssignment      = "E0411"
	ErrorInvalidOperation       = "E0412"
	ErrorUninitializedVariable  = "E0413"
	ErrorMissingReturn          = "E0414"
	ErrorUnreachableCode        = "E0415"
	ErrorNotAnLvalue            = "E0416"
	ErrorInvalidCast            = "E0417"
	ErrorArraySizeMismatch      = "E0418"
	ErrorVoidInExpression       = "E0419"
	ErrorUndefinedType          = "E0420"

	// IR/internal errors (E05xx), wrapped around a recovered panic

	ErrorInternal          = "E0501"
	ErrorUnsupportedTarget = "E0502"
	ErrorRegisterPressure  = "E0503"

	// Warnings

	WarningUnusedVariable  = "W0001"
	WarningUnreachableCode = "W0002"
	WarningUnusedFunction  = "W0003"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorIncludeNotFound:
		return "Included header could not be found on the search path"
	case ErrorMalformedDirective:
		return "Preprocessor directive is malformed"
	case ErrorMacroRedefinition:
		return "Macro redefined with a different body"
	case ErrorUnterminatedConditional:
		return "#if/#ifdef without a matching #endif"
	case ErrorUnterminatedString:
		return "String literal is missing its closing quote"
	case ErrorUnterminatedChar:
		return "Character literal is missing its closing quote"
	case ErrorInvalidEscape:
		return "Unrecognized escape sequence"
	case ErrorMalformedNumber:
		return "Numeric literal is malformed"
	case ErrorUnexpectedChar:
		return "Character does not start any valid token"
	case ErrorUnexpectedToken:
		return "Token was not expected in this position"
	case ErrorExpectedDeclaration:
		return "Expected a declaration at file scope"
	case ErrorMalformedDeclarator:
		return "Declarator is malformed"
	case ErrorUnterminatedBlock:
		return "Block is missing its closing brace"
	case ErrorExpectedExpression:
		return "Expected an expression"
	case ErrorUndefinedVariable:
		return "Variable is used but not defined in the current scope"
	case ErrorUndefinedFunction:
		return "Function is called but not declared or defined"
	case ErrorTypeMismatch:
		return "Expression type does not match expected type"
	case ErrorInvalidReturnType:
		return "Function return value type does not match declared return type"
	case ErrorFieldNotFound:
		return "Struct field does not exist"
	case ErrorDuplicateField:
		return "Duplicate field in struct initializer"
	case ErrorMissingField:
		return "Required field missing in struct initializer"
	case ErrorInvalidBinaryOperation:
		return "Binary operation not supported for these operand types"
	case ErrorDuplicateDeclaration:
		return "Duplicate declaration found in this scope"
	case ErrorInvalidArguments:
		return "Function call has the wrong number or type of arguments"
	case ErrorInvalidAssignment:
		return "Invalid assignment operation"
	case ErrorInvalidOperation:
		return "Invalid unary or binary operation"
	case ErrorUninitializedVariable:
		return "Variable may be used before it is initialized"
	case ErrorMissingReturn:
		return "Function declares a return type but has no return statement"
	case ErrorUnreachableCode:
		return "Code is unreachable"
	case ErrorNotAnLvalue:
		return "Expression is not assignable"
	case ErrorInvalidCast:
		return "Invalid cast between these types"
	case ErrorArraySizeMismatch:
		return "Array size does not match its initializer"
	case ErrorVoidInExpression:
		return "Void-returning call used in an expression context"
	case ErrorUndefinedType:
		return "Type name was not declared"
	case ErrorInternal:
		return "Internal compiler error"
	case ErrorUnsupportedTarget:
		return "Construct is not supported on the selected target"
	case ErrorRegisterPressure:
		return "Could not allocate registers for this function"
	case WarningUnusedVariable:
		return "Variable is declared but never used"
	case WarningUnreachableCode:
		return "Code is unreachable"
	case WarningUnusedFunction:
		return "Function is defined but never called"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code[0] == 'W':
		return "Warning"
	case code >= "E0100" && code < "E0200":
		return "Preprocessor"
	case code >= "E0200" && code < "E0300":
		return "Lexical"
	case code >= "E0300" && code < "E0400":
		return "Parser"
	case code >= "E0400" && code < "E0500":
		return "Semantic"
	case code >= "E0500" && code < "E0600":
		return "Internal"
	default:
		return "Unknown"
	}
}

// GetNextAvailableErrorCode returns the next available error code in a given range
func GetNextAvailableErrorCode(category string) string {
	switch category {
	case "preprocessor":
		return "E0105"
	case "lex":
		return "E0206"
	case "parse":
		return "E0306"
	case "semantic":
		return "E0421"
	case "internal":
		return "E0504"
	case "warning":
		return "W0004"
	default:
		return "E0421"
	}
}
