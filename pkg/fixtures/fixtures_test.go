package fixtures_test

import (
	"testing"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/fixtures"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ds, err := fixtures.Load()
	require.NoError(t, err)

	assert.Len(t, ds.Alerts, 7)
	assert.Len(t, ds.CostHistory, 7)
	assert.Len(t, ds.Optimizations, 6)
	assert.Len(t, ds.Standards, 5)
	assert.Len(t, ds.Resources["aws"], 4)
	assert.Len(t, ds.Resources["gcp"], 3)
	assert.Len(t, ds.Resources["azure"], 3)

	assert.Equal(t, "2024-01-21", ds.CostHistory[6].Date)
	assert.Equal(t, 3189.0, ds.CostHistory[6].Cost)
	require.NotNil(t, ds.CostHistory[0].Predicted)
	assert.Equal(t, 2900.0, *ds.CostHistory[0].Predicted)
	assert.Equal(t, 450.0, ds.Optimizations[2].Savings)
}

func TestAlertsAt(t *testing.T) {
	ds, err := fixtures.Load()
	require.NoError(t, err)

	now := time.Date(2024, 1, 21, 12, 0, 0, 0, time.UTC)
	alerts, err := ds.AlertsAt(now)
	require.NoError(t, err)
	require.Len(t, alerts, 7)

	first := alerts[0]
	assert.Equal(t, "High CPU Usage", first.Title)
	assert.Equal(t, model.SeverityCritical, first.Severity)
	assert.Equal(t, model.StatusActive, first.Status)
	assert.Equal(t, now.Add(-2*time.Minute), first.Timestamp)
	assert.Equal(t, 92.5, first.Metadata["cpu_usage"])

	assert.Equal(t, model.StatusAcknowledged, alerts[2].Status)
	assert.Equal(t, model.StatusResolved, alerts[3].Status)
	assert.Equal(t, "2.3GB", alerts[3].Metadata["backup_size"])
}

func TestStandardsAt(t *testing.T) {
	ds, err := fixtures.Load()
	require.NoError(t, err)

	now := time.Now()
	standards, err := ds.StandardsAt(now)
	require.NoError(t, err)
	require.Len(t, standards, 5)

	pci := standards[2]
	assert.Equal(t, "pci", pci.ID)
	assert.Equal(t, 87, pci.Score)
	assert.Equal(t, model.ComplianceWarning, pci.Status)
	assert.Equal(t, now.Add(-time.Hour), pci.LastChecked)
	require.Len(t, pci.Issues, 2)
	assert.Equal(t, model.IssueHigh, pci.Issues[0].Severity)
	assert.Equal(t, "open", pci.Issues[0].Status)
}

func TestResourcesAt(t *testing.T) {
	ds, err := fixtures.Load()
	require.NoError(t, err)

	now := time.Now()
	azure, err := ds.ResourcesAt("azure", now)
	require.NoError(t, err)
	require.Len(t, azure, 3)
	assert.Equal(t, "stopped", azure[0].Status)
	assert.Equal(t, "azure", azure[0].Provider)
	assert.Equal(t, now.Add(-50*24*time.Hour), azure[0].CreatedAt)

	none, err := ds.ResourcesAt("oracle", now)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPricing(t *testing.T) {
	assert.Contains(t, string(fixtures.Pricing()), "gpt-3.5-turbo")
}
