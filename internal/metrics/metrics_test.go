package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/notification"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.RecordScan("success")
	r.RecordScan("success")
	r.RecordScan("transport_error")
	r.RecordNotification(notification.SeverityError)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.scans.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.scans.WithLabelValues("transport_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.toasts.WithLabelValues("error")))
}

func TestRecorder_ObserveRemote(t *testing.T) {
	r := New()

	r.ObserveRemote("scan", 3*time.Second, nil)
	r.ObserveRemote("scan", time.Second, domain.NewError("scan", domain.KindRemote, errors.New("데이터 없음")))
	r.ObserveRemote("market", time.Millisecond, errors.New("dial tcp"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.remoteErrors.WithLabelValues("scan", "remote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.remoteErrors.WithLabelValues("market", "transport")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.remoteDuration))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.RecordScan("success")
	r.ClientConnected()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `quantdesk_scans_total{outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), "quantdesk_ws_clients 1")
}
