package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

// ErrAlertNotFound is returned when no live alert has the requested id.
var ErrAlertNotFound = errors.New("alert not found")

// AlertStore is the sole owner of alert records and their identities.
// Implementations must be safe for concurrent use and keep insertion order.
type AlertStore interface {
	// Create assigns a fresh id to alert and appends it. Other fields are stored as given.
	Create(ctx context.Context, alert *model.Alert) error

	// Get returns a copy of the alert with the given id.
	Get(ctx context.Context, id string) (*model.Alert, error)

	// UpdateStatus overwrites the status and stamps updated_at.
	UpdateStatus(ctx context.Context, id string, status model.Status, at time.Time) (*model.Alert, error)

	// Delete removes the alert and returns it.
	Delete(ctx context.Context, id string) (*model.Alert, error)

	// Acknowledge marks every listed alert acknowledged without stamping updated_at.
	// Unknown ids are skipped. It returns the number of ids that matched an
	// alert, so a repeated id is counted each time.
	Acknowledge(ctx context.Context, ids []string) (int, error)

	// List returns a snapshot copy of all alerts in insertion order.
	List(ctx context.Context) ([]model.Alert, error)

	// Close releases resources.
	Close() error
}
