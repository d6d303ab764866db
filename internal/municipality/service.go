package municipality

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/internal/validate"
)

// LogoStore is the object-storage surface used for the municipality logo
// (MinIO in production).
type LogoStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Input carries the editable metadata fields.
type Input struct {
	Ville       string `json:"ville" validate:"required"`
	Commune     string `json:"commune" validate:"required"`
	Region      string `json:"region" validate:"required"`
	Prefecture  string `json:"prefecture" validate:"required"`
	NomMaire    string `json:"nomMaire"`
	PrenomMaire string `json:"prenomMaire"`
}

// Service encapsulates municipality metadata logic. logos may be nil when no
// object storage is configured; logo endpoints then report unavailability.
type Service struct {
	repo  Repository
	logos LogoStore
}

func NewService(repo Repository, logos LogoStore) *Service {
	return &Service{repo: repo, logos: logos}
}

// Get returns the metadata record; exactly one instance is expected to exist.
func (s *Service) Get(ctx context.Context) (*Metadata, error) {
	m, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("municipality metadata is not configured")
	}
	return m, nil
}

func (s *Service) Update(ctx context.Context, in Input) (*Metadata, error) {
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalid, err, "invalid municipality metadata")
	}
	m := &Metadata{
		Ville: in.Ville, Commune: in.Commune, Region: in.Region,
		Prefecture: in.Prefecture, NomMaire: in.NomMaire, PrenomMaire: in.PrenomMaire,
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return s.Get(ctx)
}

// UploadLogo stores the logo image and records its object key.
func (s *Service) UploadLogo(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if s.logos == nil {
		return "", apperr.New(apperr.KindInternal, "object storage is not configured")
	}
	key := fmt.Sprintf("logos/%d%s", time.Now().UnixNano(), filepath.Ext(filename))
	if err := s.logos.UploadFile(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}
	if err := s.repo.SetLogoKey(ctx, key); err != nil {
		return "", err
	}
	return key, nil
}

// LogoURL returns a short-lived presigned URL for the stored logo.
func (s *Service) LogoURL(ctx context.Context) (string, error) {
	if s.logos == nil {
		return "", apperr.New(apperr.KindInternal, "object storage is not configured")
	}
	m, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	if m.LogoKey == "" {
		return "", apperr.NotFound("no logo uploaded")
	}
	return s.logos.GetPresignedURL(ctx, m.LogoKey, 15*time.Minute)
}
