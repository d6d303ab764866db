package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/internal/document/repository"
	"github.com/mairiedoc/mairiedoc/internal/municipality"
	"github.com/mairiedoc/mairiedoc/internal/personne"
	"github.com/mairiedoc/mairiedoc/internal/render"
	"github.com/mairiedoc/mairiedoc/internal/template"
)

type captureUploader struct {
	keys []string
}

func (c *captureUploader) UploadFile(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	_, _ = io.ReadAll(r)
	c.keys = append(c.keys, key)
	return nil
}

type fixture struct {
	svc       *Service
	templates *template.Service
	persons   *personne.Service
	mairie    municipality.Repository
	uploads   *captureUploader
}

// stubCompiler writes a fake "compiler" shell script that produces a .pdf
// next to the .tex it is given, the way pdflatex does with -output-directory.
func stubCompiler(t *testing.T, dir string) string {
	t.Helper()
	script := `#!/bin/sh
for last; do :; done
base="${last%.tex}"
printf '%%PDF-1.4 stub' > "$base.pdf"
: > "$base.log"
exit 0
`
	path := filepath.Join(dir, "fakelatex")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	docs := repository.NewMemoryRepo()
	persons := personne.NewMemoryRepository()
	mairie := municipality.NewMemoryRepository()
	templates := template.NewService(template.NewMemoryRepository(), docs)
	uploads := &captureUploader{}
	svc := NewService(Deps{
		Docs:      docs,
		Bindings:  repository.NewMemoryBindingRepo(),
		Templates: templates,
		Persons:   persons,
		Mairie:    mairie,
		Compiler:  render.NewCompiler(stubCompiler(t, dir), 5*time.Second, dir),
		PDFStore:  uploads,
	})
	return &fixture{
		svc:       svc,
		templates: templates,
		persons:   personne.NewService(persons),
		mairie:    mairie,
		uploads:   uploads,
	}
}

func (f *fixture) seedMairie(t *testing.T) {
	t.Helper()
	require.NoError(t, f.mairie.Upsert(context.Background(), &municipality.Metadata{
		Ville: "Sokodé", Commune: "Commune de Tchaoudjo 1", Region: "Centrale",
		Prefecture: "Tchaoudjo", NomMaire: "TCHAGNAO", PrenomMaire: "Abdel-Ganiou",
	}))
}

func TestCreateRequiresActiveTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, template.Input{NomDocument: "Acte", Body: "{{maire}}"})
	require.NoError(t, err)

	d, err := f.svc.Create(ctx, tpl.ID)
	require.NoError(t, err)
	require.NotZero(t, d.ID)

	_, err = f.templates.Archive(ctx, tpl.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, tpl.ID)
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))

	_, err = f.svc.Create(ctx, 999)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDetailPreviewUsesSentinel(t *testing.T) {
	f := newFixture(t)
	f.seedMairie(t)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, template.Input{
		NomDocument: "Attestation",
		Body:        "Je soussigné {{maire}}, maire de {{mairie.ville}}, atteste que {{declarant}} ...",
	})
	require.NoError(t, err)
	d, err := f.svc.Create(ctx, tpl.ID)
	require.NoError(t, err)

	p, err := f.persons.Create(ctx, personne.Input{Nom: "TCHAGNAO", Prenom: "Abdel-Ganiou"})
	require.NoError(t, err)
	_, err = f.svc.SetBinding(ctx, d.ID, "maire", p.ID)
	require.NoError(t, err)

	detail, err := f.svc.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Attestation", detail.NomDocument)
	require.Equal(t, []string{"maire", "mairie.ville", "declarant"}, detail.Placeholders)
	require.Equal(t,
		"Je soussigné Abdel-Ganiou TCHAGNAO, maire de Sokodé, atteste que --- ...",
		detail.Preview)
}

func TestSetBindingReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, template.Input{NomDocument: "Acte", Body: "{{temoin}}"})
	require.NoError(t, err)
	d, err := f.svc.Create(ctx, tpl.ID)
	require.NoError(t, err)

	p1, err := f.persons.Create(ctx, personne.Input{Nom: "UN", Prenom: "Temoin"})
	require.NoError(t, err)
	p2, err := f.persons.Create(ctx, personne.Input{Nom: "DEUX", Prenom: "Temoin"})
	require.NoError(t, err)

	_, err = f.svc.SetBinding(ctx, d.ID, "temoin", p1.ID)
	require.NoError(t, err)
	_, err = f.svc.SetBinding(ctx, d.ID, "temoin", p2.ID)
	require.NoError(t, err)

	bindings, err := f.svc.Bindings(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	require.Equal(t, p2.ID, bindings[0].PersonneID)
	require.NotNil(t, bindings[0].Personne)
	require.Equal(t, "DEUX", bindings[0].Personne.Nom)

	require.NoError(t, f.svc.RemoveBinding(ctx, d.ID, "temoin"))
	err = f.svc.RemoveBinding(ctx, d.ID, "temoin")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSetBindingValidatesTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, template.Input{NomDocument: "Acte", Body: "{{temoin}}"})
	require.NoError(t, err)
	d, err := f.svc.Create(ctx, tpl.ID)
	require.NoError(t, err)

	_, err = f.svc.SetBinding(ctx, d.ID, "", 1)
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))
	_, err = f.svc.SetBinding(ctx, 999, "temoin", 1)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	_, err = f.svc.SetBinding(ctx, d.ID, "temoin", 999)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRenderProducesPDFAndArchivesCopy(t *testing.T) {
	f := newFixture(t)
	f.seedMairie(t)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, template.Input{
		NomDocument: "Attestation",
		Body:        "Fait par {{maire.prenom}} pour 100% des habitants.",
	})
	require.NoError(t, err)
	d, err := f.svc.Create(ctx, tpl.ID)
	require.NoError(t, err)

	p, err := f.persons.Create(ctx, personne.Input{Nom: "TCHAGNAO", Prenom: "Abdel-Ganiou"})
	require.NoError(t, err)
	_, err = f.svc.SetBinding(ctx, d.ID, "maire.prenom", p.ID)
	require.NoError(t, err)

	pdf, err := f.svc.Render(ctx, d.ID)
	require.NoError(t, err)
	require.Contains(t, string(pdf), "%PDF")
	require.Len(t, f.uploads.keys, 1)
	require.Contains(t, f.uploads.keys[0], "renders/")
}

func TestRenderArchivedTemplateStillWorks(t *testing.T) {
	f := newFixture(t)
	f.seedMairie(t)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, template.Input{NomDocument: "Acte", Body: "corps"})
	require.NoError(t, err)
	d, err := f.svc.Create(ctx, tpl.ID)
	require.NoError(t, err)
	_, err = f.templates.Archive(ctx, tpl.ID, 1)
	require.NoError(t, err)

	pdf, err := f.svc.Render(ctx, d.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
}

func TestRenderWithoutMunicipalityMetadata(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, template.Input{NomDocument: "Acte", Body: "corps"})
	require.NoError(t, err)
	d, err := f.svc.Create(ctx, tpl.ID)
	require.NoError(t, err)

	_, err = f.svc.Render(ctx, d.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDocumentArchiveLifecycleAndCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, template.Input{NomDocument: "Acte", Body: "{{temoin}}"})
	require.NoError(t, err)
	d, err := f.svc.Create(ctx, tpl.ID)
	require.NoError(t, err)
	p, err := f.persons.Create(ctx, personne.Input{Nom: "UN", Prenom: "Temoin"})
	require.NoError(t, err)
	_, err = f.svc.SetBinding(ctx, d.ID, "temoin", p.ID)
	require.NoError(t, err)

	// while the document exists, the template cannot be purged
	_, err = f.templates.Archive(ctx, tpl.ID, 1)
	require.NoError(t, err)
	err = f.templates.PermanentlyDelete(ctx, tpl.ID)
	require.True(t, apperr.IsKind(err, apperr.KindReferenced))

	archived, err := f.svc.Archive(ctx, d.ID, 1)
	require.NoError(t, err)
	require.True(t, archived.Archived)

	_, err = f.svc.Archive(ctx, d.ID, 1)
	require.True(t, apperr.IsKind(err, apperr.KindAlreadyArchived))

	restored, err := f.svc.Restore(ctx, d.ID)
	require.NoError(t, err)
	require.False(t, restored.Archived)

	require.NoError(t, f.svc.PermanentlyDelete(ctx, d.ID))
	_, err = f.svc.Get(ctx, d.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// purge cascaded to bindings, so the template is now free
	require.NoError(t, f.templates.PermanentlyDelete(ctx, tpl.ID))
}
