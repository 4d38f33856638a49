package watchlist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/notification"
)

type note struct {
	text     string
	severity notification.Severity
}

type recorder struct {
	notes []note
}

func (r *recorder) Notify(text string, severity notification.Severity) {
	r.notes = append(r.notes, note{text: text, severity: severity})
}

type fakeAPI struct {
	items     []domain.WatchlistItem
	check     []domain.CheckResult
	addResp   *domain.AddWatchResponse
	err       error
	calls     []string
	lastAdd   domain.AddWatchRequest
	reportTxt string
}

func (f *fakeAPI) Watchlist(ctx context.Context) ([]domain.WatchlistItem, error) {
	f.calls = append(f.calls, "watchlist")
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeAPI) AddWatch(ctx context.Context, req domain.AddWatchRequest) (*domain.AddWatchResponse, error) {
	f.calls = append(f.calls, "add")
	f.lastAdd = req
	if f.err != nil {
		return nil, f.err
	}
	return f.addResp, nil
}

func (f *fakeAPI) RemoveWatch(ctx context.Context, ticker string) error {
	f.calls = append(f.calls, "remove:"+ticker)
	return f.err
}

func (f *fakeAPI) CheckWatchlist(ctx context.Context) ([]domain.CheckResult, error) {
	f.calls = append(f.calls, "check")
	if f.err != nil {
		return nil, f.err
	}
	return f.check, nil
}

func (f *fakeAPI) StartMonitoring(ctx context.Context) error {
	f.calls = append(f.calls, "start")
	return f.err
}

func (f *fakeAPI) StopMonitoring(ctx context.Context) error {
	f.calls = append(f.calls, "stop")
	return f.err
}

func (f *fakeAPI) WatchlistReport(ctx context.Context) (string, error) {
	f.calls = append(f.calls, "report")
	return f.reportTxt, f.err
}

func TestClient_AddValidation(t *testing.T) {
	tests := []struct {
		name string
		req  domain.AddWatchRequest
	}{
		{"매수가 0", domain.AddWatchRequest{Ticker: "005930", BuyPrice: 0}},
		{"음수 매수가", domain.AddWatchRequest{Ticker: "005930", BuyPrice: -100}},
		{"빈 종목코드", domain.AddWatchRequest{Ticker: "   ", BuyPrice: 70000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			rec := &recorder{}
			c := NewClient(api, rec)

			err := c.Add(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			assert.Empty(t, api.calls)
			require.Len(t, rec.notes, 1)
			assert.Equal(t, notification.SeverityWarning, rec.notes[0].severity)
		})
	}
}

func TestClient_AddReloadsAndClearsDraft(t *testing.T) {
	api := &fakeAPI{
		addResp: &domain.AddWatchResponse{WatchlistItem: domain.WatchlistItem{Ticker: "005930", Name: "삼성전자"}},
		items:   []domain.WatchlistItem{{Ticker: "005930", Name: "삼성전자", BuyPrice: 70000}},
	}
	rec := &recorder{}
	c := NewClient(api, rec)
	c.SetDraft(Draft{Ticker: " 005930 ", BuyPrice: 70000, Quantity: 10})

	require.NoError(t, c.AddDraft(context.Background()))

	assert.Equal(t, []string{"add", "watchlist"}, api.calls)
	assert.Equal(t, "005930", api.lastAdd.Ticker)
	assert.Equal(t, Draft{}, c.Draft())
	assert.Len(t, c.Items(), 1)
	require.Len(t, rec.notes, 1)
	assert.Contains(t, rec.notes[0].text, "삼성전자")
}

func TestClient_AddRemoteError(t *testing.T) {
	api := &fakeAPI{err: domain.NewError("watchlist.add", domain.KindRemote, errors.New("이미 등록된 종목"))}
	rec := &recorder{}
	c := NewClient(api, rec)
	c.SetDraft(Draft{Ticker: "005930", BuyPrice: 70000})

	require.Error(t, c.AddDraft(context.Background()))
	assert.Equal(t, []string{"add"}, api.calls)
	assert.Equal(t, "005930", c.Draft().Ticker)
	require.Len(t, rec.notes, 1)
	assert.Equal(t, notification.SeverityError, rec.notes[0].severity)
	assert.Contains(t, rec.notes[0].text, "이미 등록된 종목")
}

func TestClient_CheckNow(t *testing.T) {
	items := []domain.WatchlistItem{
		{Ticker: "005930", Status: domain.StatusOK},
		{Ticker: "000660", Status: domain.StatusNearStop},
		{Ticker: "035420", Status: domain.StatusStopHit},
	}

	t.Run("경고 없음", func(t *testing.T) {
		api := &fakeAPI{check: []domain.CheckResult{{Item: items[0]}}}
		rec := &recorder{}
		c := NewClient(api, rec)

		_, err := c.CheckNow(context.Background())
		require.NoError(t, err)
		require.Len(t, rec.notes, 1)
		assert.Equal(t, notification.SeveritySuccess, rec.notes[0].severity)
	})

	t.Run("경고 2건", func(t *testing.T) {
		api := &fakeAPI{check: []domain.CheckResult{
			{Item: items[0]},
			{Item: items[1], Alert: true},
			{Item: items[2], Alert: true},
		}}
		rec := &recorder{}
		c := NewClient(api, rec)

		results, err := c.CheckNow(context.Background())
		require.NoError(t, err)
		assert.Len(t, results, 3)
		assert.Len(t, c.Items(), 3)
		require.Len(t, rec.notes, 1)
		assert.Equal(t, notification.SeverityError, rec.notes[0].severity)
		assert.Contains(t, rec.notes[0].text, "2")
	})

	t.Run("실패 시 기존 목록 유지", func(t *testing.T) {
		api := &fakeAPI{items: items}
		rec := &recorder{}
		c := NewClient(api, rec)
		require.NoError(t, c.Load(context.Background()))

		api.err = errors.New("timeout")
		_, err := c.CheckNow(context.Background())
		require.Error(t, err)
		assert.Len(t, c.Items(), 3)
		require.Len(t, rec.notes, 1)
		assert.Equal(t, notification.SeverityError, rec.notes[0].severity)
	})
}

func TestClient_Monitoring(t *testing.T) {
	api := &fakeAPI{}
	rec := &recorder{}
	c := NewClient(api, rec)
	assert.Equal(t, MonitorStopped, c.Label())

	require.NoError(t, c.StartMonitoring(context.Background()))
	assert.Equal(t, MonitorRunning, c.Label())

	api.err = errors.New("연결 실패")
	require.Error(t, c.StopMonitoring(context.Background()))
	assert.Equal(t, MonitorRunning, c.Label())
	assert.Equal(t, notification.SeverityError, rec.notes[len(rec.notes)-1].severity)

	api.err = nil
	require.NoError(t, c.StopMonitoring(context.Background()))
	assert.Equal(t, MonitorStopped, c.Label())
}

func TestClient_RemoveReloads(t *testing.T) {
	api := &fakeAPI{}
	c := NewClient(api, &recorder{})

	require.NoError(t, c.Remove(context.Background(), "005930"))
	assert.Equal(t, []string{"remove:005930", "watchlist"}, api.calls)
}

func TestClient_Report(t *testing.T) {
	api := &fakeAPI{reportTxt: "📋 일일 보고서"}
	c := NewClient(api, &recorder{})

	report, err := c.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "📋 일일 보고서", report)
}
