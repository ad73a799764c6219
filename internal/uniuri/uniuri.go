package uniuri

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

const (
	// InviteLen is the length of an invite code in hex chars (128 bits).
	InviteLen = 32
	// SessionLen is the length of a session id in hex chars (256 bits).
	SessionLen = 64
	// StateLen is the length of an OAuth state token in hex chars (128 bits).
	StateLen = 32
)

// inviteRe accepts current codes and the shorter ones issued before codes grew to 128 bits.
var inviteRe = regexp.MustCompile(`^[0-9a-f]{16,64}$`)

// NewHex returns a random lower case hex string of the given length.
// An odd length is rounded up to the next byte internally and cut back.
func NewHex(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, (length+1)/2) //nolint:mnd
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic("uniuri: error reading random bytes: " + err.Error())
	}

	return hex.EncodeToString(buf)[:length]
}

// Invite returns a fresh team invite code.
func Invite() string {
	return NewHex(InviteLen)
}

// SessionID returns a fresh session id.
func SessionID() string {
	return NewHex(SessionLen)
}

// State returns a fresh OAuth state token.
func State() string {
	return NewHex(StateLen)
}

// NormalizeInvite trims surrounding blanks and lower cases a pasted invite code.
func NormalizeInvite(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ValidInvite reports whether code is shaped like an invite code.
// Codes are lower case hex, run NormalizeInvite on user input first.
func ValidInvite(code string) bool {
	return inviteRe.MatchString(code)
}
