package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFake(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	require.Equal(t, start, fake.Now())

	fake.Advance(90 * time.Second)
	require.Equal(t, start.Add(90*time.Second), fake.Now())
}

func TestSystem(t *testing.T) {
	before := time.Now()
	got := System().Now()
	require.False(t, got.Before(before))
}
