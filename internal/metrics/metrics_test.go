package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe("related_episodes", OutcomeRendered, 3, 0.01)
	m.Observe("related_episodes", OutcomeCached, 3, 0.001)
	m.Observe("related_episodes", OutcomeError, 0, 0.5)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	counts := map[string]uint64{}
	for _, f := range families {
		switch f.GetName() {
		case "episodeblock_renders_total":
			assert.Len(t, f.GetMetric(), 3)
		case "episodeblock_items", "episodeblock_render_duration_seconds":
			require.Len(t, f.GetMetric(), 1)
			counts[f.GetName()] = f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	// Errors are counted but not observed
	assert.Equal(t, uint64(2), counts["episodeblock_items"])
	assert.Equal(t, uint64(2), counts["episodeblock_render_duration_seconds"])
}

func TestHandler(t *testing.T) {
	m := New()
	m.Observe("related_episodes", OutcomeRendered, 2, 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `episodeblock_renders_total{block="related_episodes",outcome="rendered"} 1`)
	assert.Contains(t, string(body), `episodeblock_items_sum{block="related_episodes"} 2`)
}
