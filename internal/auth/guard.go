package auth

// Guard admits or rejects a bearer token against a required Level.
// It has no side effects beyond verification; callers decide how to
// report denials.
type Guard struct {
	codec *TokenCodec
}

// NewGuard creates a guard over codec.
func NewGuard(codec *TokenCodec) *Guard {
	return &Guard{codec: codec}
}

// Authorize verifies raw and checks its role against level.
// Verification errors are returned unchanged; a valid token with too
// little privilege yields ErrForbidden together with its claims, so the
// caller can attribute the denial.
func (g *Guard) Authorize(raw string, level Level) (*Claims, error) {
	claims, err := g.codec.Verify(raw)
	if err != nil {
		return nil, err
	}
	if !level.Allows(claims.Role) {
		return claims, ErrForbidden
	}
	return claims, nil
}
