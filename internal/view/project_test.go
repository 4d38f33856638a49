package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/notification"
	"github.com/assist-by/quantdesk/internal/scan"
	"github.com/assist-by/quantdesk/internal/signal"
	"github.com/assist-by/quantdesk/internal/watchlist"
)

func testState() State {
	return State{
		Signals: []domain.Signal{
			{
				Ticker: "005930", Name: "삼성전자", Strategy: domain.Pullback, Confidence: 86, Grade: domain.GradeS,
				ConfidenceBonus: 10, MultiStrategyCount: 2, MultiStrategies: []domain.Strategy{domain.Pullback, domain.GoldenCross},
				CurrentPrice: 71200, EntryPrice1: 70800, StopLoss: 67800,
				Reasons: []string{"20일선 지지", "거래량 감소"}, Verdict: domain.VerdictApproved,
			},
			{Ticker: "000660", Name: "SK하이닉스", Strategy: domain.GoldenCross, Confidence: 54.9, Grade: domain.GradeB, Verdict: domain.VerdictWatch},
		},
		Filter: signal.FilterAll,
		Watchlist: []domain.WatchlistItem{
			{Ticker: "035420", Name: "NAVER", BuyPrice: 200000, CurrentPrice: 0, PnLPct: -1.5, Status: "보류"},
			{Ticker: "068270", Name: "셀트리온", BuyPrice: 170000, CurrentPrice: 176400, PnLPct: 3.76, StopLossPrice: 161500, Status: domain.StatusWarn},
		},
		Now: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestProject_SignalCards(t *testing.T) {
	vm := Project(testState())

	require.Len(t, vm.Signals.Cards, 2)
	assert.Empty(t, vm.Signals.EmptyMessage)

	first := vm.Signals.Cards[0]
	assert.Equal(t, signal.BandHigh, first.Band)
	require.NotNil(t, first.Grade)
	assert.Equal(t, domain.GradeS, first.Grade.Grade)
	assert.Contains(t, first.MultiNote, "골든크로스")
	assert.Equal(t, "71,200원", first.CurrentPrice)
	assert.Equal(t, Placeholder, first.EntryPrice2)
	assert.Equal(t, "20일선 지지", first.Reason)
	assert.True(t, first.Approved)

	second := vm.Signals.Cards[1]
	assert.Equal(t, signal.BandLow, second.Band)
	assert.Nil(t, second.Grade)
	assert.Empty(t, second.MultiNote)
	assert.Equal(t, Placeholder, second.CurrentPrice)
}

func TestProject_FilterAndSearch(t *testing.T) {
	s := testState()
	s.Filter = signal.FilterApproved
	vm := Project(s)
	require.Len(t, vm.Signals.Cards, 1)
	assert.Equal(t, "005930", vm.Signals.Cards[0].Ticker)
	assert.Equal(t, 2, vm.Signals.Total)

	for _, opt := range vm.FilterBar.Options {
		assert.Equal(t, opt.Value == signal.FilterApproved, opt.Active, opt.Value)
	}

	s.Filter = signal.FilterAll
	s.Query = "없는종목"
	vm = Project(s)
	assert.Empty(t, vm.Signals.Cards)
	assert.NotEmpty(t, vm.Signals.EmptyMessage)
}

func TestProject_WatchRows(t *testing.T) {
	vm := Project(testState())
	require.Len(t, vm.Watchlist.Rows, 2)

	pending := vm.Watchlist.Rows[0]
	assert.Equal(t, Placeholder, pending.CurrentPrice)
	assert.Equal(t, Placeholder, pending.PnL)
	assert.Equal(t, "status-ok", pending.StatusClass)

	priced := vm.Watchlist.Rows[1]
	assert.Equal(t, "176,400원", priced.CurrentPrice)
	assert.Equal(t, "+3.76%", priced.PnL)
	assert.Equal(t, watchlist.PnLProfit, priced.PnLClass)
	assert.Equal(t, "status-warn", priced.StatusClass)

	assert.Equal(t, watchlist.MonitorStopped, vm.Watchlist.Monitor)
}

func TestProject_SummaryDefaults(t *testing.T) {
	vm := Project(State{})
	assert.Equal(t, "0s", vm.Summary.Elapsed)
	assert.Equal(t, "0", vm.Summary.TotalScanned)
	assert.Nil(t, vm.Header.Market)
	assert.Empty(t, vm.Header.Clock)

	s := testState()
	s.Summary = &domain.Summary{TotalSignals: 6, Approved: 2, Watch: 4, TotalScanned: 2480, ElapsedSeconds: 41.23}
	vm = Project(s)
	assert.Equal(t, "2,480", vm.Summary.TotalScanned)
	assert.Equal(t, "41.2s", vm.Summary.Elapsed)
	assert.Equal(t, "2026-10-15 09:30:00", vm.Header.Clock)
}

func TestProject_GradeEnrichment(t *testing.T) {
	s := testState()
	s.Signals[0].GradeLabel = "S급 (3중 교집합 + 수급 + 시장)"
	s.Signals[0].SupplyAcceleration = "수급 급가속"
	s.Signals[1].Grade = domain.GradeBPlus
	s.Signals[1].GradeLabel = "패턴 중첩 O / 수급 미달 (1/2)"

	vm := Project(s)
	require.Len(t, vm.Signals.Cards, 2)

	top := vm.Signals.Cards[0]
	require.NotNil(t, top.Grade)
	assert.Equal(t, "S급", top.Grade.Label)
	assert.Equal(t, "S급 (3중 교집합 + 수급 + 시장)", top.Grade.Detail)
	assert.Empty(t, top.GradeLabel)
	assert.Equal(t, "수급 급가속", top.Supply)

	// 배지가 없는 등급은 서버 설명만 표시합니다
	plus := vm.Signals.Cards[1]
	assert.Nil(t, plus.Grade)
	assert.Equal(t, "패턴 중첩 O / 수급 미달 (1/2)", plus.GradeLabel)
}

func TestProject_SummaryGradesAndStrategies(t *testing.T) {
	t.Run("서버 집계 우선", func(t *testing.T) {
		s := testState()
		s.Intersection = &domain.IntersectionSummary{SGrade: 3, AGrade: 1, BGrade: 7, Description: "S급 3개 · A급 1개 · 단일 7개"}
		s.Summary = &domain.Summary{
			TotalSignals: 11,
			StrategyBreakdown: map[domain.Strategy]int{
				domain.Breakout: 2,
				domain.Pullback: 5,
				"신규전략":           1,
			},
		}

		vm := Project(s)
		assert.Equal(t, GradeTally{S: 3, A: 1, B: 7, Description: "S급 3개 · A급 1개 · 단일 7개"}, vm.Summary.Grades)
		assert.Equal(t, []StrategyCount{
			{Strategy: domain.Pullback, Icon: "🎯", Count: 5},
			{Strategy: domain.Breakout, Icon: signal.StrategyIcon(domain.Breakout), Count: 2},
			{Strategy: "신규전략", Icon: "📊", Count: 1},
		}, vm.Summary.Strategies)
	})

	t.Run("집계가 없으면 시그널에서 계산", func(t *testing.T) {
		vm := Project(testState())
		assert.Equal(t, GradeTally{S: 1, A: 0, B: 1, Description: "S급 1개 · A급 0개 · 단일 1개"}, vm.Summary.Grades)
		assert.Nil(t, vm.Summary.Strategies)
	})
}

func TestProjectStock(t *testing.T) {
	got := ProjectStock(domain.StockAnalysis{
		Ticker: "005930",
		Total:  1,
		Signals: []domain.Signal{
			{Ticker: "005930", Strategy: domain.Breakout, CurrentPrice: 71200, Verdict: domain.VerdictWatch},
		},
	})
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "71,200원", got.Cards[0].CurrentPrice)
	assert.Empty(t, got.EmptyMessage)

	empty := ProjectStock(domain.StockAnalysis{Ticker: "005930"})
	assert.Empty(t, empty.Cards)
	assert.Equal(t, "포착된 전략이 없습니다", empty.EmptyMessage)
}

func TestProject_MarketAndScan(t *testing.T) {
	s := testState()
	s.Market = &domain.MarketCondition{MarketPhase: "UNKNOWN", MaxWeight: 0.5}
	s.Scan = scan.Status{
		State:   scan.StateRunning,
		Control: scan.Control{Disabled: true, Busy: true},
		Overlay: scan.Overlay{Open: true, Caption: scan.Caption, Percent: 30},
	}
	s.Toasts = []notification.Toast{{ID: "a", Text: "스캔 시작", Severity: notification.SeverityInfo, Phase: notification.PhaseShown}}

	vm := Project(s)
	require.NotNil(t, vm.Header.Market)
	assert.Equal(t, "혼조세", vm.Header.Market.Phase.Label)
	assert.Equal(t, 50, vm.Header.Market.MaxWeightPct)
	assert.True(t, vm.ScanControl.Disabled)
	assert.Equal(t, 30, vm.Overlay.Percent)
	require.Len(t, vm.Toasts, 1)
	assert.Equal(t, notification.PhaseShown, vm.Toasts[0].Phase)
}

func TestProject_Deterministic(t *testing.T) {
	s := testState()
	a, err := json.Marshal(Project(s))
	require.NoError(t, err)
	b, err := json.Marshal(Project(s))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}
