package auth

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

// Identity is what the identity provider vouches for after sign-in.
type Identity struct {
	UID   primitive.ObjectID
	Email string
}

// IdentityProvider verifies credentials. It knows nothing about profiles.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	Remove(ctx context.Context, uid primitive.ObjectID) error
}

// CredentialProvider is an IdentityProvider backed by bcrypt hashes in a
// credential store.
type CredentialProvider struct {
	creds store.CredentialStore
	cost  int
}

func NewCredentialProvider(creds store.CredentialStore, cost int) *CredentialProvider {
	return &CredentialProvider{creds: creds, cost: cost}
}

var errBadCredentials = apperror.Authentication("invalid email or password")

func (p *CredentialProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	cred, err := p.creds.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, apperror.Remote("sign-in failed", err)
	}
	if !CheckPasswordHash(password, cred.PasswordHash) {
		return nil, errBadCredentials
	}
	return &Identity{UID: cred.ID, Email: cred.Email}, nil
}

func (p *CredentialProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	hash, err := HashPassword(password, p.cost)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindRemote, "failed to hash password", err)
	}

	cred := &models.Credential{ID: primitive.NewObjectID(), Email: NormalizeEmail(email), PasswordHash: hash}
	if err := p.creds.Create(ctx, cred); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperror.Conflict("an account with this email already exists")
		}
		return nil, apperror.Remote("failed to create account", err)
	}
	return &Identity{UID: cred.ID, Email: cred.Email}, nil
}

func (p *CredentialProvider) Remove(ctx context.Context, uid primitive.ObjectID) error {
	if err := p.creds.Delete(ctx, uid); err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperror.Remote("failed to remove account credentials", err)
	}
	return nil
}

// NormalizeEmail is the canonical form of a login handle.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
