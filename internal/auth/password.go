package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/wayneindustries/security-core/internal/infrastructure/config"
)

// Argon2id parameters, OWASP 2025 recommendation.
const (
	argonTime    = 3         // iterations
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 1         // parallelism
	argonKeyLen  = 32        // output hash length
	argonSaltLen = 16        // salt length
)

const argonPrefix = "$argon2id$"

// HashPassword returns the unsalted SHA-256 hex digest of plaintext.
// This is the stored-credential format of existing accounts.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword checks candidate against a stored digest in either
// supported format. Malformed digests never verify.
func VerifyPassword(candidate, stored string) bool {
	if strings.HasPrefix(stored, argonPrefix) {
		ok, err := verifyArgon2id(candidate, stored)
		return err == nil && ok
	}
	return subtle.ConstantTimeCompare([]byte(HashPassword(candidate)), []byte(stored)) == 1
}

// Hasher produces digests for new and reset passwords using the configured
// scheme. Verification accepts both schemes so they can coexist.
type Hasher struct {
	scheme string
}

// NewHasher returns a Hasher for scheme. An empty scheme means SHA-256.
func NewHasher(scheme string) *Hasher {
	if scheme == "" {
		scheme = config.PasswordSchemeSHA256
	}
	return &Hasher{scheme: scheme}
}

// Hash digests plaintext with the configured scheme.
func (h *Hasher) Hash(plaintext string) (string, error) {
	switch h.scheme {
	case config.PasswordSchemeSHA256:
		return HashPassword(plaintext), nil
	case config.PasswordSchemeArgon2id:
		return hashArgon2id(plaintext)
	default:
		return "", fmt.Errorf("unsupported password scheme %q", h.scheme)
	}
}

// Verify checks candidate against stored.
func (h *Hasher) Verify(candidate, stored string) bool {
	return VerifyPassword(candidate, stored)
}

// hashArgon2id returns a PHC string: $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
func hashArgon2id(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyArgon2id(password, encodedHash string) (bool, error) {
	salt, hash, params, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(hash))) //nolint:gosec // G115: hash length always fits uint32

	return subtle.ConstantTimeCompare(hash, candidate) == 1, nil
}

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// decodePHC parses an Argon2id PHC string into its components.
func decodePHC(encoded string) (salt, hash []byte, params argonParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 { //nolint:mnd // PHC format has exactly 6 $-delimited parts
		return nil, nil, params, fmt.Errorf("invalid PHC hash format")
	}

	if parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil { //nolint:govet // shadow
		return nil, nil, params, fmt.Errorf("parsing version: %w", err)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil { //nolint:govet // shadow
		return nil, nil, params, fmt.Errorf("parsing parameters: %w", err)
	}
	// argon2.IDKey panics on zero rounds or parallelism.
	if params.time == 0 || params.threads == 0 {
		return nil, nil, params, fmt.Errorf("invalid parameters: t=%d, p=%d", params.time, params.threads)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding salt: %w", err)
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding hash: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, params, fmt.Errorf("empty hash")
	}

	return salt, hash, params, nil
}
