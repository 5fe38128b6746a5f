package ports

import (
	"context"

	"github.com/99minutos/catalog-system/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// AuthResult pairs a user with a freshly issued token.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService is the credential service: it produces identities and tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	CheckStatus(ctx context.Context, identity *domain.Identity) (*AuthResult, error)
}

// IdentityResolver turns a token subject into an Identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*domain.Identity, error)
}
