package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/document"
	"github.com/mairiedoc/mairiedoc/internal/document/repository"
	"github.com/mairiedoc/mairiedoc/internal/municipality"
	"github.com/mairiedoc/mairiedoc/internal/personne"
	"github.com/mairiedoc/mairiedoc/internal/render"
	"github.com/mairiedoc/mairiedoc/internal/template"
	"github.com/mairiedoc/mairiedoc/pkg/logger"
	"github.com/mairiedoc/mairiedoc/pkg/metrics"
)

// Uploader is the object-storage surface used to keep archival copies of
// rendered PDFs. May be nil when no object storage is configured.
type Uploader interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Deps bundles the collaborators of the document service.
type Deps struct {
	Docs      repository.Repository
	Bindings  repository.BindingRepository
	Templates *template.Service
	Persons   personne.Repository
	Mairie    municipality.Repository
	Compiler  *render.Compiler
	PDFStore  Uploader
	// RecordURI/RecordDB enable best-effort render audit records in Mongo.
	RecordURI string
	RecordDB  string
}

// Service encapsulates document business logic, including PDF rendering.
type Service struct {
	deps      Deps
	lifecycle *archive.Controller
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps, lifecycle: archive.NewController("document", deps.Docs, nil)}
}

// Detail is the joined read model for one document.
type Detail struct {
	document.Document
	NomDocument  string                 `json:"nomDocument"`
	Bindings     []document.RoleBinding `json:"bindings"`
	Placeholders []string               `json:"placeholders"`
	Preview      string                 `json:"preview"`
}

// Create starts a new document from an active template.
func (s *Service) Create(ctx context.Context, templateID int64) (*document.Document, error) {
	t, err := s.deps.Templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t.Archived {
		return nil, apperr.Invalid("template %d is archived; restore it before creating documents", templateID)
	}
	d := &document.Document{TemplateID: templateID}
	if _, err := s.deps.Docs.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]*document.Document, error) {
	return s.deps.Docs.List(ctx)
}

func (s *Service) ListArchived(ctx context.Context) ([]*document.Document, error) {
	return s.deps.Docs.ListArchived(ctx)
}

// Get returns the document joined with its template label, bindings,
// referenced placeholder names and a display-mode preview.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	d, err := s.deps.Docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("document %d not found", id)
	}
	t, err := s.deps.Templates.Get(ctx, d.TemplateID)
	if err != nil {
		return nil, err
	}
	bindings, err := s.joinBindings(ctx, id)
	if err != nil {
		return nil, err
	}
	meta, err := s.deps.Mairie.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &Detail{
		Document:     *d,
		NomDocument:  t.NomDocument,
		Bindings:     bindings,
		Placeholders: render.Placeholders(t.Body),
		Preview:      render.Substitute(t.Body, bindings, meta, render.ModeDisplay),
	}, nil
}

// SetBinding assigns a person to a placeholder name, replacing any previous
// assignment for the same fonction.
func (s *Service) SetBinding(ctx context.Context, docID int64, fonction string, personneID int64) (*document.RoleBinding, error) {
	if fonction == "" {
		return nil, apperr.Invalid("fonction must not be empty")
	}
	d, err := s.deps.Docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("document %d not found", docID)
	}
	p, err := s.deps.Persons.GetByID(ctx, personneID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("personne %d not found", personneID)
	}
	if _, err := s.deps.Bindings.DeleteByFonction(ctx, docID, fonction); err != nil {
		return nil, err
	}
	b := &document.RoleBinding{DocumentID: docID, Fonction: fonction, PersonneID: personneID}
	if _, err := s.deps.Bindings.Add(ctx, b); err != nil {
		return nil, err
	}
	b.Personne = p
	return b, nil
}

func (s *Service) RemoveBinding(ctx context.Context, docID int64, fonction string) error {
	n, err := s.deps.Bindings.DeleteByFonction(ctx, docID, fonction)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("no binding for fonction %q on document %d", fonction, docID)
	}
	return nil
}

func (s *Service) Bindings(ctx context.Context, docID int64) ([]document.RoleBinding, error) {
	d, err := s.deps.Docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("document %d not found", docID)
	}
	return s.joinBindings(ctx, docID)
}

// joinBindings loads the document's bindings with their person records.
// Dangling person references stay in the list with a nil Personne; the
// resolver skips them.
func (s *Service) joinBindings(ctx context.Context, docID int64) ([]document.RoleBinding, error) {
	list, err := s.deps.Bindings.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	out := make([]document.RoleBinding, 0, len(list))
	for _, b := range list {
		p, err := s.deps.Persons.GetByID(ctx, b.PersonneID)
		if err != nil {
			return nil, err
		}
		cp := *b
		cp.Personne = p
		out = append(out, cp)
	}
	return out, nil
}

// Render produces the final PDF for a document. An archived template is
// still renderable; unresolved placeholders degrade to the sentinel. A copy
// of the PDF is archived to object storage best-effort.
func (s *Service) Render(ctx context.Context, id int64) ([]byte, error) {
	pdf, err := s.render(ctx, id)
	if err != nil {
		metrics.RenderFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}
	metrics.RendersTotal.Inc()
	return pdf, nil
}

func (s *Service) render(ctx context.Context, id int64) ([]byte, error) {
	d, err := s.deps.Docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("document %d not found", id)
	}
	t, err := s.deps.Templates.Get(ctx, d.TemplateID)
	if err != nil {
		return nil, err
	}
	meta, err := s.deps.Mairie.Get(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, apperr.NotFound("municipality metadata is not configured")
	}
	bindings, err := s.joinBindings(ctx, id)
	if err != nil {
		return nil, err
	}

	body := render.Substitute(t.Body, bindings, meta, render.ModeTypeset)
	source := render.Assemble(t.NomDocument, body, meta)
	pdf, err := s.deps.Compiler.Compile(ctx, id, source)
	if err != nil {
		return nil, err
	}

	s.archiveCopy(ctx, id, pdf)
	return pdf, nil
}

// archiveCopy stores the PDF in object storage and records render metadata.
// Both are best-effort and never fail the render.
func (s *Service) archiveCopy(ctx context.Context, docID int64, pdf []byte) {
	key := fmt.Sprintf("renders/doc_%d_%d.pdf", docID, time.Now().UnixNano())
	if s.deps.PDFStore != nil {
		if err := s.deps.PDFStore.UploadFile(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
			logger.Warnf("archive pdf copy for document %d: %v", docID, err)
			key = ""
		}
	} else {
		key = ""
	}
	pr := &render.PersistedRender{
		RenderID:   fmt.Sprintf("r_%d_%d", docID, time.Now().UnixNano()),
		DocumentID: docID,
		Status:     "ok",
		PDFKey:     key,
		SizeBytes:  int64(len(pdf)),
		CreatedAt:  time.Now().UTC(),
	}
	if err := render.Save(ctx, s.deps.RecordURI, s.deps.RecordDB, pr); err != nil {
		logger.Warnf("save render record for document %d: %v", docID, err)
	}
}

func (s *Service) Archive(ctx context.Context, id, actor int64) (*document.Document, error) {
	if err := s.lifecycle.Archive(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.deps.Docs.GetByID(ctx, id)
}

func (s *Service) Restore(ctx context.Context, id int64) (*document.Document, error) {
	if err := s.lifecycle.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.deps.Docs.GetByID(ctx, id)
}

// PermanentlyDelete purges the document and its bindings.
func (s *Service) PermanentlyDelete(ctx context.Context, id int64) error {
	if err := s.lifecycle.PermanentlyDelete(ctx, id); err != nil {
		return err
	}
	if err := s.deps.Bindings.DeleteByDocument(ctx, id); err != nil {
		logger.Warnf("delete bindings of purged document %d: %v", id, err)
	}
	return nil
}

func failureReason(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return "not_found"
	case apperr.KindCompilerUnavailable:
		return "compiler_unavailable"
	case apperr.KindCompileFailed:
		return "compile_failed"
	default:
		return "internal"
	}
}
