package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email:    "agent@mairie.example",
		Nom:      "ABALO",
		Prenom:   "Kossi",
		Role:     RoleAgent,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.NotEmpty(t, u.PasswordHash)

	got, err := svc.Authenticate(ctx, "agent@mairie.example", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "agent@mairie.example", "wrong")
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))

	_, err = svc.Authenticate(ctx, "nobody@mairie.example", "s3cret-pass")
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	// short password
	_, err := svc.Register(ctx, RegisterInput{
		Email: "x@y.example", Nom: "A", Prenom: "B", Role: RoleAgent, Password: "short",
	})
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))

	// unknown role
	_, err = svc.Register(ctx, RegisterInput{
		Email: "x@y.example", Nom: "A", Prenom: "B", Role: "superuser", Password: "s3cret-pass",
	})
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))

	// duplicate email
	_, err = svc.Register(ctx, RegisterInput{
		Email: "x@y.example", Nom: "A", Prenom: "B", Role: RoleAdmin, Password: "s3cret-pass",
	})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{
		Email: "x@y.example", Nom: "C", Prenom: "D", Role: RoleAgent, Password: "s3cret-pass",
	})
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))
}

func TestArchivedAccountCannotSignIn(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email: "a@mairie.example", Nom: "A", Prenom: "B", Role: RoleAgent, Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Archive(ctx, u.ID, 1)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "a@mairie.example", "s3cret-pass")
	require.True(t, apperr.IsKind(err, apperr.KindInvalid))

	// restore lets the agent back in
	_, err = svc.Restore(ctx, u.ID)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "a@mairie.example", "s3cret-pass")
	require.NoError(t, err)
}
