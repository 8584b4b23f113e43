// Package auth provides authentication and authorisation for the security
// platform.
//
// It implements a three-tier role model (funcionario → gerente → admin) with:
//   - Stateless HS256 session tokens with an absolute 8-hour expiry
//   - A Guard that admits a token against a required Level
//   - SHA-256 password digests, with Argon2id available as an opt-in scheme
//   - Account management where every mutation is written to the access log
//     in the same transaction
//
// There is no server-side session store: logout is a client-side action and
// a token stays valid until it expires.
package auth
