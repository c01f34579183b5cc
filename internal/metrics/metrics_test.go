package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dungeonrespawn/internal/respawn"
)

var _ respawn.Recorder = (*Collector)(nil)

func TestCollector_Counts(t *testing.T) {
	c := NewCollector()

	c.TeleportDecision("redirect", true)
	c.TeleportDecision("not_queued", false)
	c.TeleportDecision("not_queued", false)
	c.Enqueued()
	c.StoreError("save")
	c.Population(12, 3)

	assert.InDelta(t, 1, testutil.ToFloat64(c.decisions.WithLabelValues("redirect", "redirect")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.decisions.WithLabelValues("not_queued", "allow")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.enqueued), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.storeErrors.WithLabelValues("save")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(c.tracked), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(c.queued), 0)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.TeleportDecision("redirect", true)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dungeonrespawn_teleport_decisions_total{outcome="redirect",reason="redirect"} 1`)
	assert.Contains(t, string(body), "dungeonrespawn_tracked_characters")
}

func TestCollector_WithModule(t *testing.T) {
	c := NewCollector()
	m := respawn.NewModule(nil, c)

	assert.True(t, m.OnPlayerBeforeTeleport(nil, 1, 0, 0, 0, 0))
	assert.InDelta(t, 1, testutil.ToFloat64(c.decisions.WithLabelValues("disabled", "allow")), 0)
}
