package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveExport(t *testing.T) {
	m := New()

	m.ObserveExport("pdf", 3, 200*time.Millisecond, nil)
	m.ObserveExport("pdf", 0, time.Second, errors.New("chrome crashed"))
	m.ObserveExport("txt", 1, time.Millisecond, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.exports.WithLabelValues("pdf", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.exports.WithLabelValues("pdf", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.exports.WithLabelValues("txt", "ok")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveExport("html", 2, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `foodgram_shopping_list_exports_total{format="html",status="ok"} 1`)
}
