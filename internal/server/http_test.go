package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/ecosim/internal/core/system"
	"github.com/zeusync/ecosim/internal/core/systems/hazard"
	"github.com/zeusync/ecosim/internal/core/systems/physics"
)

func testSnapshot(tick uint64) *system.Snapshot {
	center := physics.V(100, 100)
	return &system.Snapshot{
		Tick:    tick,
		SimTime: float64(tick) * 16,
		Width:   1000,
		Height:  1000,
		Bodies:    3,
		Submerged: 1,
		Hazards: []hazard.Record{
			{
				ID:        "global-1",
				Kind:      hazard.KindDrought,
				Global:    true,
				Intensity: 1,
				Duration:  1000,
				State:     "active",
				Modifiers: []hazard.Modifier{{Channel: hazard.ChannelFood, Value: 0.5, Operation: hazard.OpMultiply}},
			},
			{
				ID:        "local-1",
				Kind:      hazard.KindWildfire,
				Center:    &center,
				Radius:    100,
				Intensity: 1,
				Duration:  1000,
				State:     "active",
				Modifiers: []hazard.Modifier{{Channel: hazard.ChannelFood, Value: 0.8, Operation: hazard.OpMultiply}},
			},
		},
		HazardStats: hazard.Stats{Active: 2, Triggered: 2},
	}
}

func get(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRoutesBeforeFirstSnapshot(t *testing.T) {
	feed := NewFeedServer(Config{}, nil)
	s := httptest.NewServer(feed.Handler())
	defer s.Close()

	for _, path := range []string{"/stats", "/hazards", "/hazards/x", "/effects?x=1&y=1"} {
		var body map[string]string
		require.Equal(t, http.StatusServiceUnavailable, get(t, s.URL+path, &body), path)
		require.Equal(t, ErrNoSnapshot.Error(), body["error"])
	}
}

func TestStatsRoute(t *testing.T) {
	feed := NewFeedServer(Config{}, nil)
	feed.Publish(testSnapshot(7))
	s := httptest.NewServer(feed.Handler())
	defer s.Close()

	var stats StatsResponse
	require.Equal(t, http.StatusOK, get(t, s.URL+"/stats", &stats))
	require.Equal(t, uint64(7), stats.Tick)
	require.Equal(t, 3, stats.Bodies)
	require.Equal(t, 1, stats.Submerged)
	require.Equal(t, 2, stats.Hazards.Active)
}

func TestHazardRoutes(t *testing.T) {
	feed := NewFeedServer(Config{}, nil)
	feed.Publish(testSnapshot(1))
	s := httptest.NewServer(feed.Handler())
	defer s.Close()

	var list []hazard.Record
	require.Equal(t, http.StatusOK, get(t, s.URL+"/hazards", &list))
	require.Len(t, list, 2)

	var rec hazard.Record
	require.Equal(t, http.StatusOK, get(t, s.URL+"/hazards/local-1", &rec))
	require.Equal(t, hazard.KindWildfire, rec.Kind)
	require.Equal(t, physics.V(100, 100), *rec.Center)

	require.Equal(t, http.StatusNotFound, get(t, s.URL+"/hazards/nope", nil))
}

func TestEffectsRoute(t *testing.T) {
	feed := NewFeedServer(Config{}, nil)
	feed.Publish(testSnapshot(1))
	s := httptest.NewServer(feed.Handler())
	defer s.Close()

	tests := []struct {
		x, y     float64
		effects  int
		resolved float64
	}{
		{100, 100, 2, 0.3},
		{900, 900, 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v,%v", tt.x, tt.y), func(t *testing.T) {
			var body EffectsResponse
			url := fmt.Sprintf("%s/effects?x=%v&y=%v", s.URL, tt.x, tt.y)
			require.Equal(t, http.StatusOK, get(t, url, &body))
			require.Len(t, body.Effects, tt.effects)
			require.InDelta(t, tt.resolved, body.Resolved[hazard.ChannelFood].Value, 1e-12)
		})
	}

	require.Equal(t, http.StatusBadRequest, get(t, s.URL+"/effects?x=a&y=1", nil))
	for _, q := range []string{"x=NaN&y=100", "x=100&y=Inf", "x=-Inf&y=1"} {
		require.Equal(t, http.StatusBadRequest, get(t, s.URL+"/effects?"+q, nil), q)
	}
	require.Equal(t, http.StatusNotFound, get(t, s.URL+"/effects?x=1", nil))
}

func TestStartStop(t *testing.T) {
	feed := NewFeedServer(Config{Addr: "127.0.0.1:0"}, nil)
	require.ErrorIs(t, feed.Stop(context.Background()), ErrServerNotRunning)

	require.NoError(t, feed.Start(context.Background()))
	require.ErrorIs(t, feed.Start(context.Background()), ErrServerAlreadyRunning)

	feed.Publish(testSnapshot(4))
	var stats StatsResponse
	require.Equal(t, http.StatusOK, get(t, "http://"+feed.Addr().String()+"/stats", &stats))
	require.Equal(t, uint64(4), stats.Tick)

	require.NoError(t, feed.Stop(context.Background()))
}
