package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/ikkim/freshcart-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Initialize(logger.Config{Level: "disabled"})
}

type countingMirrorer struct {
	calls atomic.Int32
}

func (m *countingMirrorer) MirrorNow() {
	m.calls.Add(1)
}

func TestMirrorScheduler_InvalidSchedule(t *testing.T) {
	s := NewMirrorScheduler("not a schedule", &countingMirrorer{})
	assert.Error(t, s.Start())
}

func TestMirrorScheduler_Disabled(t *testing.T) {
	m := &countingMirrorer{}
	s := NewMirrorScheduler("", m)
	require.NoError(t, s.Start())
	s.Stop()
	assert.Equal(t, int32(0), m.calls.Load())
}

func TestMirrorScheduler_RunsJob(t *testing.T) {
	m := &countingMirrorer{}
	s := NewMirrorScheduler("@every 1s", m)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return m.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}
