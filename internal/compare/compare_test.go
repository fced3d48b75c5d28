package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pendergraft/ifacecheck/internal/signature"
)

var target = Target{CalledPath: "Called.vy", CallerPath: "Caller.vy", Interface: "Foo"}

func TestMatch(t *testing.T) {
	called := signature.Normalize("def bar(a: address) -> bool: view\ndef baz() -> uint256: view\n")

	tests := []struct {
		name string
		line string
		want MatchType
	}{
		{
			name: "exact line",
			line: "def bar(address) -> bool: view",
			want: MatchFull,
		},
		{
			name: "same head different return",
			line: "def bar(address) -> uint256: view",
			want: MatchPartial,
		},
		{
			name: "same head different mutability",
			line: "def baz() -> uint256: nonpayable",
			want: MatchPartial,
		},
		{
			name: "different head",
			line: "def qux(address) -> bool: view",
			want: MatchNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.line, called))
		})
	}
}

func TestCompare_NoFindings(t *testing.T) {
	caller := signature.Normalize("    def bar(who: address) -> bool: view\n")
	called := signature.Normalize("    def bar(owner: address) -> bool: view\n")

	result := Compare(target, caller, called, "x: bool = Foo(a).bar(msg.sender)", Options{})

	assert.Empty(t, result.Findings)
	assert.False(t, result.HasProblems())
}

func TestCompare_Mismatch(t *testing.T) {
	caller := signature.Normalize("def missing(a: uint256) -> bool: view\n")
	called := signature.Normalize("def bar(a: address) -> bool: view\n")

	for _, strict := range []bool{false, true} {
		result := Compare(target, caller, called, ".missing(", Options{Strict: strict})

		require.Len(t, result.Findings, 1)
		assert.Equal(t, KindMismatch, result.Findings[0].Kind)
		assert.Equal(t, MatchNone, result.Findings[0].Match)
		assert.Equal(t, "missing", result.Findings[0].Function)
		assert.True(t, result.HasProblems())
	}
}

func TestCompare_PossibleFalsePositive(t *testing.T) {
	caller := signature.Normalize("def bar(token: ERC20) -> bool: view\n")
	called := signature.Normalize("def bar(token: address) -> bool: view\n")

	t.Run("reported when not strict", func(t *testing.T) {
		result := Compare(target, caller, called, "Foo(a).bar(t)", Options{})

		require.Len(t, result.Findings, 1)
		assert.Equal(t, KindPossibleFalsePositive, result.Findings[0].Kind)
		assert.Equal(t, "def bar(ERC20) -> bool: view", result.Findings[0].Line)
		assert.False(t, result.HasProblems())
	})

	t.Run("suppressed when strict", func(t *testing.T) {
		result := Compare(target, caller, called, "Foo(a).bar(t)", Options{Strict: true})
		assert.Empty(t, result.Findings)
	})
}

func TestCompare_Unused(t *testing.T) {
	caller := signature.Normalize("def qux(a: uint256):\ndef used() -> bool: view\n")
	called := signature.Normalize("def qux(x: uint256):\ndef used() -> bool: view\n")
	remainder := "@external\ndef run():\n    assert Foo(self.f).used()\n"

	t.Run("reported", func(t *testing.T) {
		result := Compare(target, caller, called, remainder, Options{Strict: true})

		require.Len(t, result.Findings, 1)
		assert.Equal(t, KindUnused, result.Findings[0].Kind)
		assert.Equal(t, "qux", result.Findings[0].Function)
		assert.True(t, result.HasProblems())
	})

	t.Run("skipped", func(t *testing.T) {
		result := Compare(target, caller, called, remainder, Options{SkipUnused: true})
		assert.Empty(t, result.Findings)
	})
}

func TestCompare_UnusedKeepsSpacingInName(t *testing.T) {
	caller := signature.Normalize("    def  balanceOf(owner: address) -> uint256: view\n")
	called := signature.Normalize("    def balanceOf(owner: address) -> uint256: view\n")
	remainder := "@external\ndef run():\n    x: uint256 = Foo(self.f).balanceOf(self)\n"

	result := Compare(target, caller, called, remainder, Options{Strict: true})

	require.Len(t, result.Findings, 2)
	assert.Equal(t, KindMismatch, result.Findings[0].Kind)
	assert.Equal(t, KindUnused, result.Findings[1].Kind)
	assert.Equal(t, " balanceOf", result.Findings[1].Function)
}

func TestCompare_Ordering(t *testing.T) {
	caller := signature.Normalize("def b(x: uint256):\ndef a(x: uint256):\n")
	called := signature.Normalize("def c():\n")

	result := Compare(target, caller, called, "", Options{})

	require.Len(t, result.Findings, 4)
	assert.Equal(t, KindMismatch, result.Findings[0].Kind)
	assert.Equal(t, "a", result.Findings[0].Function)
	assert.Equal(t, KindMismatch, result.Findings[1].Kind)
	assert.Equal(t, "b", result.Findings[1].Function)
	assert.Equal(t, KindUnused, result.Findings[2].Kind)
	assert.Equal(t, KindUnused, result.Findings[3].Kind)
	assert.Equal(t, 2, result.Count(KindMismatch))
	assert.Equal(t, 2, result.Count(KindUnused))
}

func TestIsCalled(t *testing.T) {
	assert.True(t, IsCalled("bar", "Foo(a).bar(1)"))
	assert.False(t, IsCalled("bar", "bar(1)"))
	assert.False(t, IsCalled("bar", "Foo(a).barter(1)"))
}
