package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/research-matcher/internal/researchapi"
)

func TestCollector(t *testing.T) {
	c := New()

	c.ObserveRequest("matches", "ok", 120*time.Millisecond)
	c.ObserveRequest("matches", "ok", 80*time.Millisecond)
	c.ObserveRequest("matching_status", "error", time.Second)
	c.ObserveTick("error", nil)
	c.ObserveTick("ok", &researchapi.MatchingJobStatus{Status: researchapi.JobInProgress, Progress: 40})
	c.SetMatchesDisplayed(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.APIRequests.WithLabelValues("matches", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.APIRequests.WithLabelValues("matching_status", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PollTicks.WithLabelValues("error")))
	assert.Equal(t, 40.0, testutil.ToFloat64(c.JobProgress))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.MatchesDisplayed))
}

func TestHandler(t *testing.T) {
	c := New()
	c.SetMatchesDisplayed(3)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "research_matcher_matches_displayed 3"))
}
