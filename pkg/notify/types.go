// Package notify delivers alert lifecycle notifications to external systems.
package notify

import (
	"context"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

// EventAlertCreated is sent when a new alert enters the store.
const EventAlertCreated = "alert_created"

// Notification describes one alert lifecycle event.
type Notification struct {
	Event   string      `json:"event"`
	Alert   model.Alert `json:"alert"`
	Message string      `json:"message"`
}

// Notifier sends notifications to external systems.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers a notification. Implementations must be safe for concurrent use.
	Send(ctx context.Context, n Notification) error
}
