// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/librisys/backend/internal/auth"
	"github.com/librisys/backend/internal/core"
	"github.com/librisys/backend/internal/middleware"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create registers a new account. The role comes from ClassifyRole and is
// fixed for the lifetime of the account.
func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	email = normalizeEmail(email)
	now := s.now()

	user := &User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         ClassifyRole(email),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, normalizeEmail(email))
}

// ResolveIdentity backs the access gate: a token whose subject no longer
// exists must not authenticate.
func (s *Service) ResolveIdentity(
	ctx context.Context,
	id string,
) (*middleware.Identity, error) {
	if !core.IsCanonicalID(id) {
		return nil, fmt.Errorf("resolve identity: %w", core.ErrNotFound)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &middleware.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}, nil
}

func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}
}

var (
	_ auth.UserProvider           = (*Service)(nil)
	_ middleware.IdentityResolver = (*Service)(nil)
)
