package repository

import (
	"context"

	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/document"
)

// Repository defines persistence operations for documents.
type Repository interface {
	archive.Store
	Create(ctx context.Context, d *document.Document) (int64, error)
	GetByID(ctx context.Context, id int64) (*document.Document, error)
	List(ctx context.Context) ([]*document.Document, error)
	ListArchived(ctx context.Context) ([]*document.Document, error)
	CountByTemplate(ctx context.Context, templateID int64) (int64, error)
}

// BindingRepository defines persistence for role bindings. The store does not
// enforce (document, fonction) uniqueness; callers rely on creation order.
type BindingRepository interface {
	Add(ctx context.Context, b *document.RoleBinding) (int64, error)
	ListByDocument(ctx context.Context, docID int64) ([]*document.RoleBinding, error)
	DeleteByFonction(ctx context.Context, docID int64, fonction string) (int64, error)
	DeleteByDocument(ctx context.Context, docID int64) error
}
