package cst

import (
	"testing"

	"cprizm/internal/lexer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExprParser(t *testing.T, src string) *Parser {
	t.Helper()
	toks, err := lexer.Tokenize("test.c", src)
	require.NoError(t, err)
	return &Parser{filename: "test.c", tokens: convertTokens(toks)}
}

func TestParseFunctionDecl(t *testing.T) {
	unit, errs, err := ParseSource("test.c", "int add(int a, int b) {\n  return a + b;\n}\n")
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, unit.Decls, 1)

	fn := unit.Decls[0].String()
	assert.Contains(t, fn, "int add(int a, int b)")
	assert.Contains(t, fn, "return a + b;")
}

func TestParseStructDecl(t *testing.T) {
	unit, errs, err := ParseSource("test.c", "struct point {\n  int x;\n  int y;\n};\n")
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, unit.Decls, 1)
	assert.Equal(t, "struct point {int x; int y;}", unit.Decls[0].String())
}

func TestParseIfElseChain(t *testing.T) {
	src := `int classify(int x) {
  if (x < 0) {
    return -1;
  } else if (x == 0) {
    return 0;
  } else {
    return 1;
  }
}
`
	unit, errs, err := ParseSource("test.c", src)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, unit.Decls, 1)
}

func TestParseForLoopAndAssignment(t *testing.T) {
	src := `int sum(int n) {
  int total = 0;
  for (int i = 0; i < n; i = i + 1) {
    total += i;
  }
  return total;
}
`
	unit, errs, err := ParseSource("test.c", src)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, unit.Decls, 1)
}

func TestParsePointerAndMemberAccess(t *testing.T) {
	src := `int read(struct point *p) {
  return p->x + p->y;
}
`
	unit, errs, err := ParseSource("test.c", src)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, unit.Decls, 1)
}

func TestParsePrecedenceClimbing(t *testing.T) {
	p := newExprParser(t, "1 + 2 * 3")
	expr := p.parseExpr()
	assert.Equal(t, "(1 + (2 * 3))", expr.String())
}

func TestParseCastExpr(t *testing.T) {
	p := newExprParser(t, "(int) x")
	expr := p.parsePrefixExpr()
	assert.Contains(t, expr.String(), "(int)")
}

func TestBadDeclRecovers(t *testing.T) {
	unit, errs, err := ParseSource("test.c", "???\nint main() { return 0; }\n")
	require.NoError(t, err)
	assert.NotEmpty(t, errs)
	require.GreaterOrEqual(t, len(unit.Decls), 1)
}
