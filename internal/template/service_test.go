package template

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
)

type fakeRefs struct {
	counts map[int64]int64
}

func (f *fakeRefs) CountByTemplate(_ context.Context, templateID int64) (int64, error) {
	return f.counts[templateID], nil
}

func TestTemplateCreateAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, Input{NomDocument: "Acte de naissance", Body: "Je soussigné {{maire}}..."})
	require.NoError(t, err)
	require.NotZero(t, tpl.ID)

	got, err := svc.Get(ctx, tpl.ID)
	require.NoError(t, err)
	require.Equal(t, "Acte de naissance", got.NomDocument)

	_, err = svc.Get(ctx, 999)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestTemplateDuplicateLabelRejected(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{NomDocument: "Attestation", Body: "a"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Input{NomDocument: "Attestation", Body: "b"})
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))
}

func TestTemplateUpdateKeepsOwnLabel(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, Input{NomDocument: "Attestation", Body: "a"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, Input{NomDocument: "Certificat", Body: "b"})
	require.NoError(t, err)

	// renaming to its own current label is fine
	got, err := svc.Update(ctx, tpl.ID, Input{NomDocument: "Attestation", Body: "a2"})
	require.NoError(t, err)
	require.Equal(t, "a2", got.Body)

	// renaming onto another template's label is not
	_, err = svc.Update(ctx, other.ID, Input{NomDocument: "Attestation", Body: "b"})
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))
}

func TestTemplatePlaceholders(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, Input{
		NomDocument: "Acte",
		Body:        "{{maire}} certifie que {{pere.profession}} à {{mairie.ville}}. Signé {{maire}}.",
	})
	require.NoError(t, err)

	names, err := svc.Placeholders(ctx, tpl.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"maire", "pere.profession", "mairie.ville"}, names)
}

func TestTemplateArchiveLifecycle(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, Input{NomDocument: "Acte", Body: "x"})
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, tpl.ID, 7)
	require.NoError(t, err)
	require.True(t, archived.Archived)
	require.NotNil(t, archived.ArchivedAt)
	require.EqualValues(t, 7, archived.ArchivedBy)

	// archived templates disappear from the active list but stay resolvable
	active, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, active)
	_, err = svc.Get(ctx, tpl.ID)
	require.NoError(t, err)

	_, err = svc.Archive(ctx, tpl.ID, 7)
	require.True(t, apperr.IsKind(err, apperr.KindAlreadyArchived))

	restored, err := svc.Restore(ctx, tpl.ID)
	require.NoError(t, err)
	require.False(t, restored.Archived)
	require.Nil(t, restored.ArchivedAt)
}

func TestTemplatePermanentDeleteGuard(t *testing.T) {
	refs := &fakeRefs{counts: map[int64]int64{}}
	svc := NewService(NewMemoryRepository(), refs)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, Input{NomDocument: "Acte", Body: "x"})
	require.NoError(t, err)
	_, err = svc.Archive(ctx, tpl.ID, 1)
	require.NoError(t, err)

	refs.counts[tpl.ID] = 2
	err = svc.PermanentlyDelete(ctx, tpl.ID)
	require.True(t, apperr.IsKind(err, apperr.KindReferenced))

	refs.counts[tpl.ID] = 0
	require.NoError(t, svc.PermanentlyDelete(ctx, tpl.ID))
	_, err = svc.Get(ctx, tpl.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

type updateFailRepo struct {
	*MemoryRepository
	err error
}

func (r *updateFailRepo) Update(_ context.Context, _ int64, _, _ string) error {
	return r.err
}

func TestUpdateStoreFailureIsNotAMissingRecord(t *testing.T) {
	mem := NewMemoryRepository()
	boom := errors.New("connection reset")
	svc := NewService(&updateFailRepo{MemoryRepository: mem, err: boom}, nil)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, Input{NomDocument: "Attestation", Body: "x"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, tpl.ID, Input{NomDocument: "Attestation", Body: "y"})
	require.ErrorIs(t, err, boom)
	require.False(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateMissingTemplateIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)

	_, err := svc.Update(context.Background(), 99, Input{NomDocument: "Attestation", Body: "y"})
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
