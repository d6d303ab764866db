package personne

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/validate"
)

// Input carries the mutable person fields for create/update.
type Input struct {
	Nom           string `json:"nom" validate:"required"`
	Prenom        string `json:"prenom" validate:"required"`
	Sexe          string `json:"sexe" validate:"omitempty,oneof=M F"`
	DateNaissance string `json:"dateNaissance"`
	LieuNaissance string `json:"lieuNaissance"`
	Nationalite   string `json:"nationalite"`
	Profession    string `json:"profession"`
	Adresse       string `json:"adresse"`
	Telephone     string `json:"telephone"`
	NumeroCni     string `json:"numeroCni"`
}

func (in Input) apply(p *Personne) {
	p.Nom = in.Nom
	p.Prenom = in.Prenom
	p.Sexe = in.Sexe
	p.DateNaissance = in.DateNaissance
	p.LieuNaissance = in.LieuNaissance
	p.Nationalite = in.Nationalite
	p.Profession = in.Profession
	p.Adresse = in.Adresse
	p.Telephone = in.Telephone
	p.NumeroCni = in.NumeroCni
}

// Service encapsulates person business logic.
type Service struct {
	repo      Repository
	lifecycle *archive.Controller
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, lifecycle: archive.NewController("personne", repo, nil)}
}

func (s *Service) Create(ctx context.Context, in Input) (*Personne, error) {
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalid, err, "invalid personne")
	}
	p := &Personne{}
	in.apply(p)
	if _, err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get resolves by id regardless of the archived flag so bindings keep
// working for archived persons.
func (s *Service) Get(ctx context.Context, id int64) (*Personne, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("personne %d not found", id)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]*Personne, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListArchived(ctx context.Context) ([]*Personne, error) {
	return s.repo.ListArchived(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Personne, error) {
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalid, err, "invalid personne")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("personne %d not found", id)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Archive(ctx context.Context, id, actor int64) (*Personne, error) {
	if err := s.lifecycle.Archive(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Restore(ctx context.Context, id int64) (*Personne, error) {
	if err := s.lifecycle.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) PermanentlyDelete(ctx context.Context, id int64) error {
	return s.lifecycle.PermanentlyDelete(ctx, id)
}
