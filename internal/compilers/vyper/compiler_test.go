package vyper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pendergraft/ifacecheck/internal/compilers"
)

// writeFakeVyper creates an executable shell script standing in for vyper.
func writeFakeVyper(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vyper")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestCompiler_Metadata(t *testing.T) {
	c := New("", nil)

	assert.Equal(t, "vyper", c.Name())
	assert.Equal(t, "Vyper", c.DisplayName())
	assert.Equal(t, DefaultBinary, c.Binary())
}

func TestCompiler_Detect(t *testing.T) {
	t.Run("binary present", func(t *testing.T) {
		c := New(writeFakeVyper(t, "exit 0\n"), nil)

		found, err := c.Detect()
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("binary missing", func(t *testing.T) {
		c := New("ifacecheck-no-such-compiler", nil)

		found, err := c.Detect()
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestCompiler_Version(t *testing.T) {
	c := New(writeFakeVyper(t, `echo "0.3.10+commit.91361694"`+"\n"), nil)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.3.10+commit.91361694", v)
}

func TestCompiler_ExternalInterface(t *testing.T) {
	script := `if [ "$1" = "-f" ] && [ "$2" = "external_interface" ]; then
cat <<'EOF'

# External Interfaces
interface Token:
    def transfer(to: address, amount: uint256) -> bool: nonpayable
EOF
exit 0
fi
echo "unexpected args: $*" >&2
exit 2
`
	c := New(writeFakeVyper(t, script), nil)

	out, err := c.ExternalInterface(context.Background(), "Token.vy")
	require.NoError(t, err)
	assert.False(t, out.Failed())
	assert.Contains(t, out.Stdout, "def transfer(to: address, amount: uint256) -> bool: nonpayable")
	assert.Empty(t, out.Stderr)
}

func TestCompiler_ExternalInterfaceFailure(t *testing.T) {
	c := New(writeFakeVyper(t, "echo 'vyper.exceptions.SyntaxException: invalid syntax' >&2\nexit 1\n"), nil)

	out, err := c.ExternalInterface(context.Background(), "Broken.vy")
	require.NoError(t, err)
	assert.True(t, out.Failed())
	assert.ErrorIs(t, out.Err(), compilers.ErrCompilerFailed)
	assert.Contains(t, out.Stderr, "SyntaxException")
}

func TestCompiler_NotInstalled(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing-vyper"), nil)

	_, err := c.ExternalInterface(context.Background(), "Token.vy")
	assert.Error(t, err)
}
