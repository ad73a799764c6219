// Package uniuri generates cryptographically secure random hex tokens.
// Invite codes, session ids and OAuth state values are all drawn from here.
package uniuri
