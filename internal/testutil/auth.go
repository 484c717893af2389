// AngelaMos | 2026
// auth.go

package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/librisys/backend/internal/auth"
	"github.com/librisys/backend/internal/config"
)

// NewJWTManager signs with a freshly generated key pair.
func NewJWTManager(t *testing.T) *auth.JWTManager {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:    filepath.Join(dir, "private.pem"),
		PublicKeyPath:     filepath.Join(dir, "public.pem"),
		AccessTokenExpire: time.Hour,
		Issuer:            "librisys-test",
		Audience:          "librisys-test",
	}

	require.NoError(t, auth.GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	m, err := auth.NewJWTManager(cfg)
	require.NoError(t, err)

	return m
}
