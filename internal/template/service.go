package template

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/render"
	"github.com/mairiedoc/mairiedoc/internal/validate"
)

// ReferenceChecker reports how many documents still reference a template.
// The document package provides the implementation; injecting the interface
// keeps this package free of a dependency on document persistence.
type ReferenceChecker interface {
	CountByTemplate(ctx context.Context, templateID int64) (int64, error)
}

// Input carries the mutable template fields for create/update.
type Input struct {
	NomDocument string `json:"nomDocument" validate:"required"`
	Body        string `json:"body" validate:"required"`
}

// Service encapsulates template business logic.
type Service struct {
	repo      Repository
	lifecycle *archive.Controller
}

// NewService builds a template service. refs may be nil (standalone render
// worker), in which case permanent deletion carries no referential guard.
func NewService(repo Repository, refs ReferenceChecker) *Service {
	var guard archive.Guard
	if refs != nil {
		guard = func(ctx context.Context, id int64) error {
			n, err := refs.CountByTemplate(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return apperr.Referenced("template %d is still referenced by %d document(s)", id, n)
			}
			return nil
		}
	}
	return &Service{repo: repo, lifecycle: archive.NewController("template", repo, guard)}
}

func (s *Service) Create(ctx context.Context, in Input) (*Template, error) {
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalid, err, "invalid template")
	}
	existing, err := s.repo.GetByNom(ctx, in.NomDocument)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Invalid("a template named %q already exists", in.NomDocument)
	}
	t := &Template{NomDocument: in.NomDocument, Body: in.Body}
	if _, err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get resolves a template by id regardless of its archived flag: documents
// may still reference an archived template.
func (s *Service) Get(ctx context.Context, id int64) (*Template, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("template %d not found", id)
	}
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]*Template, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListArchived(ctx context.Context) ([]*Template, error) {
	return s.repo.ListArchived(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Template, error) {
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalid, err, "invalid template")
	}
	existing, err := s.repo.GetByNom(ctx, in.NomDocument)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, apperr.Invalid("a template named %q already exists", in.NomDocument)
	}
	if err := s.repo.Update(ctx, id, in.NomDocument, in.Body); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("template %d not found", id)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Placeholders returns the distinct placeholder names the template body
// references, in first-occurrence order.
func (s *Service) Placeholders(ctx context.Context, id int64) ([]string, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return render.Placeholders(t.Body), nil
}

func (s *Service) Archive(ctx context.Context, id, actor int64) (*Template, error) {
	if err := s.lifecycle.Archive(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Restore(ctx context.Context, id int64) (*Template, error) {
	if err := s.lifecycle.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) PermanentlyDelete(ctx context.Context, id int64) error {
	return s.lifecycle.PermanentlyDelete(ctx, id)
}
