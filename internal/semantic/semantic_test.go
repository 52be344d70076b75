package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/cst"
)

func parse(t *testing.T, src string) *Checked {
	t.Helper()
	unit, errs, err := cst.ParseSource("test.c", src)
	require.NoError(t, err)
	require.Empty(t, errs)
	return Check(unit)
}

func TestCheckAcceptsWellTypedFunction(t *testing.T) {
	checked := parse(t, "int add(int a, int b) {\n  return a + b;\n}\n")
	require.False(t, checked.HasErrors())
	require.Contains(t, checked.Funcs, "add")
	assert.Len(t, checked.Funcs["add"].Params, 2)
}

func TestCheckRejectsUndefinedVariable(t *testing.T) {
	checked := parse(t, "int f() {\n  return y;\n}\n")
	assert.True(t, checked.HasErrors())
}

func TestCheckRejectsDuplicateFunctionDeclaration(t *testing.T) {
	checked := parse(t, "int f() { return 0; }\nint f() { return 1; }\n")
	assert.True(t, checked.HasErrors())
}

func TestCheckResolvesForwardCallsAcrossFunctions(t *testing.T) {
	checked := parse(t, "int a() { return b(); }\nint b() { return 0; }\n")
	assert.False(t, checked.HasErrors())
}

func TestCheckRejectsWrongArgumentCount(t *testing.T) {
	checked := parse(t, "int add(int a, int b) { return a + b; }\nint f() { return add(1); }\n")
	assert.True(t, checked.HasErrors())
}

func TestCheckWarnsOnUnusedVariableWithoutFailing(t *testing.T) {
	checked := parse(t, "int f() {\n  int unused;\n  return 0;\n}\n")
	require.False(t, checked.HasErrors())
	found := false
	for _, d := range checked.Diagnostics {
		if d.Level == "warning" {
			found = true
		}
	}
	assert.True(t, found, "an unused local should produce a warning diagnostic, not an error")
}
