// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var ErrMalformedHash = errors.New("malformed password hash")

// Argon2Params are encoded into every hash, so changing the defaults does
// not invalidate stored credentials.
type Argon2Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

var DefaultArgon2Params = Argon2Params{
	Memory:  64 * 1024,
	Time:    1,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

func HashPassword(password string) (string, error) {
	return DefaultArgon2Params.Hash(password)
}

func (p Argon2Params) Hash(password string) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Time,
		p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword re-derives the key with the parameters stored in
// encodedHash and compares in constant time.
func VerifyPassword(password, encodedHash string) (bool, error) {
	p, salt, want, err := parseHash(encodedHash)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

var dummyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("librisys-timing-equaliser")
	if err != nil {
		panic(fmt.Sprintf("security: build dummy hash: %v", err))
	}
	return hash
})

// VerifyPasswordTimingSafe always pays for one argon2 derivation so that an
// unknown account and a wrong password take the same time.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, error) {
	if encodedHash == nil || *encodedHash == "" {
		//nolint:errcheck // result discarded on purpose
		_, _ = VerifyPassword(password, dummyHash())
		return false, nil
	}

	return VerifyPassword(password, *encodedHash)
}

func parseHash(encoded string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return p, nil, nil, ErrMalformedHash
	}

	if fields[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("%w: algorithm %q", ErrMalformedHash, fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: version: %w", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: version %d", ErrMalformedHash, version)
	}

	if _, err := fmt.Sscanf(
		fields[3],
		"m=%d,t=%d,p=%d",
		&p.Memory,
		&p.Time,
		&p.Threads,
	); err != nil {
		return p, nil, nil, fmt.Errorf("%w: params: %w", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: key", ErrMalformedHash)
	}

	//nolint:gosec // G115: key length is bounded by KeyLen
	p.KeyLen = uint32(len(key))
	//nolint:gosec // G115: salt length is bounded by SaltLen
	p.SaltLen = uint32(len(salt))

	return p, salt, key, nil
}
