package statefile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtreck/internal/domain"
)

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "timer.json"))
	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.TimerState{}, st)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "timer.json"))
	in := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	want := domain.TimerState{TotalSeconds: 90, Running: true, ClockIn: &in, ResumedAt: &in}

	require.NoError(t, s.Save(want))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want.TotalSeconds, got.TotalSeconds)
	assert.True(t, got.Running)
	require.NotNil(t, got.ClockIn)
	assert.True(t, in.Equal(*got.ClockIn))
	assert.Nil(t, got.ClockOut)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"isTimerRunning": true`)
	assert.Contains(t, string(raw), `"clockOutTime": null`)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timer.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := New(path).Load()
	assert.Error(t, err)
}
