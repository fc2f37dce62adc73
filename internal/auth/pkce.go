package auth

import (
	"crypto/sha256"
	"encoding/base64"
)

// ChallengeMethodS256 is the only PKCE transform this server accepts.
const ChallengeMethodS256 = "S256"

// VerifyPKCE checks a code_verifier against the challenge stored at
// authorization time. Any method other than S256 fails without computing a
// hash. The challenge itself is not secret (it travels in the authorize
// redirect) so plain string equality is enough, but the verifier must never
// appear in logs.
func VerifyPKCE(verifier, challenge, method string) bool {
	if method != ChallengeMethodS256 {
		return false
	}
	return ChallengeS256(verifier) == challenge
}

// ChallengeS256 derives the S256 code challenge for a verifier:
// base64url(sha256(ascii(verifier))) without padding (RFC 7636 section 4.2).
func ChallengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
