package uniuri

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHex(t *testing.T) {
	for _, n := range []int{0, 1, 7, 16, 33, 64} {
		s := NewHex(n)

		assert.Len(t, s, n)
		assert.Empty(t, strings.Trim(s, "0123456789abcdef"), "unexpected chars in %q", s)
	}

	assert.Empty(t, NewHex(-1))
}

func TestGenerators(t *testing.T) {
	assert.Len(t, Invite(), InviteLen)
	assert.Len(t, SessionID(), SessionLen)
	assert.Len(t, State(), StateLen)

	seen := make(map[string]struct{})

	for range 1000 {
		code := Invite()

		_, dup := seen[code]
		assert.False(t, dup, "duplicate invite code %s", code)

		seen[code] = struct{}{}
	}
}

func TestValidInvite(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{Invite(), true},
		{"0123456789abcdef", true},
		{strings.Repeat("a", 64), true},
		{"0123456789abcde", false},
		{strings.Repeat("a", 65), false},
		{"0123456789ABCDEF", false},
		{"not-a-code-at-all", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidInvite(tt.code), tt.code)
	}
}

func TestNormalizeInvite(t *testing.T) {
	code := Invite()

	assert.Equal(t, code, NormalizeInvite(strings.ToUpper(code)))
	assert.Equal(t, code, NormalizeInvite(" "+code+"\n"))
	assert.True(t, ValidInvite(NormalizeInvite("0123456789ABCDEF")))
}
