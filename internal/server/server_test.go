package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/quantdesk/internal/dashboard"
	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/metrics"
	"github.com/assist-by/quantdesk/internal/remote"
	"github.com/assist-by/quantdesk/internal/view"
)

// analysisStub은 분석 서버를 흉내 냅니다
type analysisStub struct {
	gate     chan struct{}
	addCalls atomic.Int32
	once     sync.Once
}

func (a *analysisStub) release() {
	a.once.Do(func() { close(a.gate) })
}

func (a *analysisStub) handler() http.Handler {
	signals := []domain.Signal{
		{Ticker: "005930", Name: "삼성전자", Strategy: domain.Pullback, Confidence: 82, Verdict: domain.VerdictApproved},
		{Ticker: "000660", Name: "SK하이닉스", Strategy: domain.GoldenCross, Confidence: 64, Verdict: domain.VerdictWatch},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/results", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.ScanResponse{Signals: signals, Summary: &domain.Summary{TotalSignals: 2}})
	})
	mux.HandleFunc("/api/scan", func(w http.ResponseWriter, r *http.Request) {
		<-a.gate
		json.NewEncoder(w).Encode(domain.ScanResponse{Signals: signals})
	})
	mux.HandleFunc("/api/progress", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.ScanProgress{Percent: 10, Message: "수집 중"})
	})
	mux.HandleFunc("/api/watchlist", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})
	mux.HandleFunc("/api/watchlist/add", func(w http.ResponseWriter, r *http.Request) {
		a.addCalls.Add(1)
		w.Write([]byte(`{"ticker":"005930","name":"삼성전자"}`))
	})
	mux.HandleFunc("/api/stock/", func(w http.ResponseWriter, r *http.Request) {
		ticker := strings.TrimPrefix(r.URL.Path, "/api/stock/")
		json.NewEncoder(w).Encode(domain.StockAnalysis{Ticker: ticker, Total: 1, Signals: signals[:1]})
	})
	mux.HandleFunc("/api/approve/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setup(t *testing.T) (*Server, *analysisStub, *dashboard.Dashboard) {
	t.Helper()

	stub := &analysisStub{gate: make(chan struct{})}
	analysis := httptest.NewServer(stub.handler())
	t.Cleanup(func() {
		stub.release()
		analysis.Close()
	})

	rec := metrics.New()
	client := remote.NewClient(analysis.URL, remote.WithObserver(rec.ObserveRemote))
	dash := dashboard.New(client, dashboard.Config{
		PollInterval: 10 * time.Millisecond,
		Logger:       zerolog.Nop(),
		OnNotify:     rec.RecordNotification,
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	dash.Bootstrap(ctx)

	return New(dash, rec, 5*time.Second), stub, dash
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodeView(t *testing.T, env envelope) view.ViewModel {
	t.Helper()
	var vm view.ViewModel
	require.NoError(t, json.Unmarshal(env.Data, &vm))
	return vm
}

func TestServer_GetView(t *testing.T) {
	s, _, _ := setup(t)

	rec, env := do(t, s, http.MethodGet, "/api/view", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)

	vm := decodeView(t, env)
	assert.Len(t, vm.Signals.Cards, 2)
	assert.Equal(t, 2, vm.Summary.TotalSignals)
}

func TestServer_Filter(t *testing.T) {
	s, _, _ := setup(t)

	rec, env := do(t, s, http.MethodPost, "/api/actions/filter", `{"value":"approved"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeView(t, env).Signals.Cards, 1)

	rec, env = do(t, s, http.MethodPost, "/api/actions/filter", `{"value":"momentum"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", env.Status)
}

func TestServer_ScanConflict(t *testing.T) {
	s, stub, dash := setup(t)

	rec, _ := do(t, s, http.MethodPost, "/api/actions/scan", `{"top_rank":200}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/api/actions/scan", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	stub.release()
	require.Eventually(t, func() bool { return !dash.Scanning() }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_AddWatchValidation(t *testing.T) {
	s, stub, _ := setup(t)

	rec, _ := do(t, s, http.MethodPost, "/api/actions/watchlist/add", `{"ticker":"005930","buy_price":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.addCalls.Load())

	rec, _ = do(t, s, http.MethodPost, "/api/actions/watchlist/add", `{"ticker":"005930","buy_price":70000}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), stub.addCalls.Load())
}

func TestServer_GetStock(t *testing.T) {
	s, _, _ := setup(t)

	rec, env := do(t, s, http.MethodGet, "/api/stock/005930", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got view.StockView
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "005930", got.Ticker)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "삼성전자", got.Cards[0].Name)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s, _, _ := setup(t)

	rec, env := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)

	rec, _ = do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantdesk_remote_request_duration_seconds")
}

func TestServer_StreamPushesChanges(t *testing.T) {
	s, _, _ := setup(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var first view.ViewModel
	require.NoError(t, conn.ReadJSON(&first))
	assert.Len(t, first.Signals.Cards, 2)

	resp, err := http.Post(srv.URL+"/api/actions/search", "application/json", strings.NewReader(`{"query":"하이닉스"}`))
	require.NoError(t, err)
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var next view.ViewModel
		require.NoError(t, conn.ReadJSON(&next))
		if next.FilterBar.Query == "하이닉스" {
			require.Len(t, next.Signals.Cards, 1)
			assert.Equal(t, "000660", next.Signals.Cards[0].Ticker)
			break
		}
	}
}
