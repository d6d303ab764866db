package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/validate"
)

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Nom      string `json:"nom" validate:"required"`
	Prenom   string `json:"prenom" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin agent"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service encapsulates user-related business logic
type Service struct {
	repo      Repository
	lifecycle *archive.Controller
}

func NewService(r Repository) *Service {
	return &Service{repo: r, lifecycle: archive.NewController("user", r, nil)}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalid, err, "invalid user")
	}
	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Invalid("an account with email %q already exists", in.Email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{Email: in.Email, Nom: in.Nom, Prenom: in.Prenom, Role: in.Role, PasswordHash: hash}
	if _, err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks credentials. Archived accounts cannot sign in.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Archived {
		return nil, apperr.Invalid("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, apperr.Invalid("invalid credentials")
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListArchived(ctx context.Context) ([]*User, error) {
	return s.repo.ListArchived(ctx)
}

func (s *Service) Archive(ctx context.Context, id, actor int64) (*User, error) {
	if err := s.lifecycle.Archive(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Restore(ctx context.Context, id int64) (*User, error) {
	if err := s.lifecycle.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) PermanentlyDelete(ctx context.Context, id int64) error {
	return s.lifecycle.PermanentlyDelete(ctx, id)
}
