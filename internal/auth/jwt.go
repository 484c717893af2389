// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/librisys/backend/internal/config"
	"github.com/librisys/backend/internal/core"
	"github.com/librisys/backend/internal/middleware"
)

const (
	tokenTypeAccess = "access"
	clockSkew       = 30 * time.Second
)

type JWTManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	publicJWKS jwk.Set
	config     config.JWTConfig
}

// NewJWTManager loads the ES256 signing key. The key id is the key's
// thumbprint, so it is stable across restarts of the same key.
func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	privateKey, err := loadSigningKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	if setErr := publicKey.Set(jwk.KeyUsageKey, "sig"); setErr != nil {
		return nil, fmt.Errorf("set key usage: %w", setErr)
	}

	publicJWKS := jwk.NewSet()
	if addErr := publicJWKS.AddKey(publicKey); addErr != nil {
		return nil, fmt.Errorf("add key to set: %w", addErr)
	}

	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		publicJWKS: publicJWKS,
		config:     cfg,
	}, nil
}

func loadSigningKey(path string) (jwk.Key, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	key, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	if err := tagKey(key); err != nil {
		return nil, err
	}

	return key, nil
}

func tagKey(key jwk.Key) error {
	thumb, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return fmt.Errorf("key thumbprint: %w", err)
	}

	kid := base64.RawURLEncoding.EncodeToString(thumb)[:16]
	if err := key.Set(jwk.KeyIDKey, kid); err != nil {
		return fmt.Errorf("set key id: %w", err)
	}

	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return fmt.Errorf("set algorithm: %w", err)
	}

	return nil
}

// GenerateKeyPair writes a fresh P-256 key pair as PEM. The private key
// file is owner-only.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}

	if err := tagKey(private); err != nil {
		return err
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	if err := writePEM(privateKeyPath, private, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	//nolint:gosec // G306: public key is world-readable
	if err := writePEM(publicKeyPath, public, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	return nil
}

func writePEM(path string, key jwk.Key, perm os.FileMode) error {
	encoded, err := jwk.Pem(key)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	return os.WriteFile(path, encoded, perm)
}

// CreateAccessToken signs a token for userID. The role claim is advisory;
// the access gate always re-reads the role from the store.
func (m *JWTManager) CreateAccessToken(userID, role string) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(m.config.AccessTokenExpire)).
		NotBefore(now).
		Claim("role", role).
		Claim("type", tokenTypeAccess).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (m *JWTManager) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithAcceptableSkew(clockSkew),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != tokenTypeAccess {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var role string
	if err := token.Get("role", &role); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	return &middleware.AccessTokenClaims{
		UserID: subject,
		Role:   role,
	}, nil
}

// isTokenExpiredError matches jwx's exp validation failure message.
func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

// GetJWKSHandler serves the public key set at /.well-known/jwks.json.
func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	body, err := json.Marshal(m.publicJWKS)
	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body) //nolint:errcheck // client gone
	}
}

func (m *JWTManager) GetKeyID() string {
	var kid string
	//nolint:errcheck // key ID always set during NewJWTManager init
	_ = m.privateKey.Get(jwk.KeyIDKey, &kid)
	return kid
}

var (
	_ middleware.TokenVerifier = (*JWTManager)(nil)
	_ TokenIssuer              = (*JWTManager)(nil)
)
