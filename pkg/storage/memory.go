package storage

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

// Memory is an in-process AlertStore backed by an ordered id index.
type Memory struct {
	mu    sync.RWMutex
	ids   IDGenerator
	order []string
	byID  map[string]*model.Alert
}

// NewMemory creates an empty in-memory store.
func NewMemory(ids IDGenerator) *Memory {
	return &Memory{
		ids:  ids,
		byID: make(map[string]*model.Alert),
	}
}

func (m *Memory) Create(_ context.Context, alert *model.Alert) error {
	id := m.ids.Next()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[id]; exists {
		return fmt.Errorf("alert id %q already exists", id)
	}
	alert.ID = id
	stored := cloneAlert(alert)
	m.byID[id] = &stored
	m.order = append(m.order, id)
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.byID[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	c := cloneAlert(a)
	return &c, nil
}

func (m *Memory) UpdateStatus(_ context.Context, id string, status model.Status, at time.Time) (*model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.byID[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	a.Status = status
	a.UpdatedAt = &at
	c := cloneAlert(a)
	return &c, nil
}

func (m *Memory) Delete(_ context.Context, id string) (*model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.byID[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	delete(m.byID, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return a, nil
}

func (m *Memory) Acknowledge(_ context.Context, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Each occurrence of a repeated id is counted.
	updated := 0
	for _, id := range ids {
		if a, ok := m.byID[id]; ok {
			a.Status = model.StatusAcknowledged
			updated++
		}
	}
	return updated, nil
}

func (m *Memory) List(_ context.Context) ([]model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Alert, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, cloneAlert(m.byID[id]))
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

func cloneAlert(a *model.Alert) model.Alert {
	c := *a
	c.Metadata = maps.Clone(a.Metadata)
	if a.UpdatedAt != nil {
		at := *a.UpdatedAt
		c.UpdatedAt = &at
	}
	return c
}
