package archive

import (
	"context"
	"time"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/pkg/metrics"
)

// Audit carries the soft-delete state embedded in every archivable model
// (templates, persons, documents, users).
type Audit struct {
	Archived   bool       `bson:"archived" json:"archived"`
	ArchivedAt *time.Time `bson:"archivedAt,omitempty" json:"archivedAt,omitempty"`
	ArchivedBy int64      `bson:"archivedBy,omitempty" json:"archivedBy,omitempty"`
}

// Store is the persistence surface the lifecycle controller needs for one
// entity kind. MarkArchived and ClearArchived must be conditional single-record
// updates (matched=false when the record is not in the expected state) so that
// concurrent double transitions cannot both succeed.
type Store interface {
	Exists(ctx context.Context, id int64) (bool, error)
	MarkArchived(ctx context.Context, id int64, actor int64, at time.Time) (bool, error)
	ClearArchived(ctx context.Context, id int64) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

// Guard refuses a permanent deletion, typically because another record still
// references the target.
type Guard func(ctx context.Context, id int64) error

// Controller applies the archive state machine to one entity kind.
type Controller struct {
	entity string
	store  Store
	guard  Guard
}

// NewController builds a lifecycle controller. guard may be nil when the
// entity has no referential constraint on permanent deletion.
func NewController(entity string, store Store, guard Guard) *Controller {
	return &Controller{entity: entity, store: store, guard: guard}
}

// Archive transitions active -> archived, stamping timestamp and actor.
// Archiving an already-archived record is a precondition error, not a no-op.
func (c *Controller) Archive(ctx context.Context, id, actor int64) error {
	ok, err := c.store.MarkArchived(ctx, id, actor, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		exists, err := c.store.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("%s %d not found", c.entity, id)
		}
		return apperr.AlreadyArchived("%s %d is already archived", c.entity, id)
	}
	metrics.ArchiveTransitions.WithLabelValues(c.entity, "archive").Inc()
	return nil
}

// Restore transitions archived -> active. Timestamp and actor are cleared
// rather than re-stamped with the restorer.
func (c *Controller) Restore(ctx context.Context, id int64) error {
	ok, err := c.store.ClearArchived(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		exists, err := c.store.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("%s %d not found", c.entity, id)
		}
		return apperr.NotArchived("%s %d is not archived", c.entity, id)
	}
	metrics.ArchiveTransitions.WithLabelValues(c.entity, "restore").Inc()
	return nil
}

// PermanentlyDelete removes the record for good. No archived precondition is
// enforced; the guard (when set) may still refuse.
func (c *Controller) PermanentlyDelete(ctx context.Context, id int64) error {
	if c.guard != nil {
		if err := c.guard(ctx, id); err != nil {
			return err
		}
	}
	ok, err := c.store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("%s %d not found", c.entity, id)
	}
	metrics.ArchiveTransitions.WithLabelValues(c.entity, "purge").Inc()
	return nil
}
