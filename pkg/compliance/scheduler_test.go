package compliance_test

import (
	"context"
	"testing"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	svc := newService(t, driftSource{})
	_, err := compliance.NewScheduler(svc, "every tuesday", quietLogger())
	assert.ErrorContains(t, err, "parse compliance schedule")
}

func TestScheduler_StartStop(t *testing.T) {
	svc := newService(t, driftSource{})
	s, err := compliance.NewScheduler(svc, "0 3 * * *", quietLogger())
	require.NoError(t, err)

	s.Start()
	s.Stop(context.Background())
}

func TestScheduler_RunsForcedChecks(t *testing.T) {
	rec := &scoreRecorder{}
	svc := newService(t, driftSource{delta: -1}, compliance.WithRecorder(rec))
	initial := rec.callCount()

	s, err := compliance.NewScheduler(svc, "@every 1s", quietLogger())
	require.NoError(t, err)
	s.Start()

	require.Eventually(t, func() bool {
		return rec.callCount() > initial
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Stop(ctx)

	st, err := svc.Get("hipaa")
	require.NoError(t, err)
	assert.Less(t, st.Score, 98)
}
