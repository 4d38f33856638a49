package view

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/market"
	"github.com/assist-by/quantdesk/internal/notification"
	"github.com/assist-by/quantdesk/internal/scan"
	"github.com/assist-by/quantdesk/internal/signal"
	"github.com/assist-by/quantdesk/internal/watchlist"
)

// Placeholder는 값이 없는 가격 대신 표시됩니다
const Placeholder = watchlist.Placeholder

// ClockLayout은 헤더 시계의 표시 형식입니다
const ClockLayout = "2006-01-02 15:04:05"

// State는 화면을 계산하는 데 필요한 전체 상태입니다
type State struct {
	Signals   []domain.Signal
	Filter    string
	Query     string
	Market    *domain.MarketCondition
	Summary   *domain.Summary
	// Intersection이 nil 이면 Signals 에서 다시 집계합니다
	Intersection *domain.IntersectionSummary
	Watchlist []domain.WatchlistItem
	Monitor   watchlist.MonitorLabel
	Draft     watchlist.Draft
	Scan      scan.Status
	Toasts    []notification.Toast
	Now       time.Time
}

// Project는 상태를 화면 트리로 변환합니다. 부수 효과가 없습니다
func Project(s State) ViewModel {
	vm := ViewModel{
		Header:      Header{Clock: formatClock(s.Now)},
		Summary:     projectSummary(s),
		FilterBar:   projectFilterBar(s),
		Signals:     projectSignals(s),
		Watchlist:   projectWatchlist(s),
		ScanControl: s.Scan.Control,
		Overlay:     s.Scan.Overlay,
		Toasts:      projectToasts(s.Toasts),
	}

	if s.Market != nil {
		d := market.Present(*s.Market)
		vm.Header.Market = &d
	}

	return vm
}

func formatClock(now time.Time) string {
	if now.IsZero() {
		return ""
	}
	return now.Format(ClockLayout)
}

func projectSummary(s State) SummaryNode {
	node := SummaryNode{TotalScanned: "0", Elapsed: "0s"}
	if s.Summary != nil {
		node.TotalSignals = s.Summary.TotalSignals
		node.Approved = s.Summary.Approved
		node.Watch = s.Summary.Watch
		node.TotalScanned = humanize.Comma(int64(s.Summary.TotalScanned))
		node.Elapsed = FormatElapsed(s.Summary.ElapsedSeconds)
		node.Strategies = strategyCounts(s.Summary.StrategyBreakdown)
	}

	grades := signal.SummarizeGrades(s.Signals)
	if s.Intersection != nil {
		grades = *s.Intersection
	}
	node.Grades = GradeTally{S: grades.SGrade, A: grades.AGrade, B: grades.BGrade, Description: grades.Description}
	return node
}

// strategyCounts는 5대 전략 순서로 나열하고, 모르는 전략은 이름 순으로 뒤에 붙입니다
func strategyCounts(breakdown map[domain.Strategy]int) []StrategyCount {
	if len(breakdown) == 0 {
		return nil
	}

	out := make([]StrategyCount, 0, len(breakdown))
	for _, st := range domain.Strategies() {
		if n, ok := breakdown[st]; ok {
			out = append(out, StrategyCount{Strategy: st, Icon: signal.StrategyIcon(st), Count: n})
		}
	}

	var unknown []domain.Strategy
	for st := range breakdown {
		if !st.IsValid() {
			unknown = append(unknown, st)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, st := range unknown {
		out = append(out, StrategyCount{Strategy: st, Icon: signal.StrategyIcon(st), Count: breakdown[st]})
	}
	return out
}

// FormatElapsed는 경과 초를 소수 첫째 자리까지 "41.2s" 형태로 표시합니다
func FormatElapsed(seconds float64) string {
	rounded := math.Round(seconds*10) / 10
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "s"
}

func projectFilterBar(s State) FilterBar {
	active := s.Filter
	if active == "" {
		active = signal.FilterAll
	}

	options := []FilterOption{
		{Value: signal.FilterAll, Label: "전체"},
		{Value: signal.FilterApproved, Label: "매수 승인", Icon: "✅"},
	}
	for _, st := range domain.Strategies() {
		options = append(options, FilterOption{Value: string(st), Label: string(st), Icon: signal.StrategyIcon(st)})
	}

	for i := range options {
		options[i].Count = len(signal.Apply(s.Signals, options[i].Value, ""))
		options[i].Active = options[i].Value == active
	}

	return FilterBar{Options: options, Query: s.Query}
}

func projectSignals(s State) SignalList {
	visible := signal.Apply(s.Signals, s.Filter, s.Query)

	cards := make([]SignalCard, 0, len(visible))
	for _, sig := range visible {
		cards = append(cards, projectCard(sig))
	}

	list := SignalList{Cards: cards, Total: len(s.Signals)}
	if len(cards) == 0 {
		list.EmptyMessage = "조건에 맞는 시그널이 없습니다"
	}
	return list
}

func projectCard(s domain.Signal) SignalCard {
	card := SignalCard{
		Ticker:       s.Ticker,
		Name:         s.Name,
		Strategy:     s.Strategy,
		StrategyIcon: signal.StrategyIcon(s.Strategy),
		Confidence:   s.Confidence,
		Band:         signal.ConfidenceBand(s.Confidence),
		Verdict:      s.Verdict,
		Approved:     s.Verdict.IsApproved(),
		CurrentPrice: FormatPrice(s.CurrentPrice),
		EntryPrice1:  FormatPrice(s.EntryPrice1),
		EntryPrice2:  FormatPrice(s.EntryPrice2),
		TargetPrice1: FormatPrice(s.TargetPrice1),
		TargetPrice2: FormatPrice(s.TargetPrice2),
		StopLoss:     FormatPrice(s.StopLoss),
		Reason:       s.PrimaryReason(),
		Reasons:      s.Reasons,
	}

	if badge, ok := signal.GradeBadgeOf(s); ok {
		card.Grade = &badge
	} else {
		card.GradeLabel = s.GradeLabel
	}
	card.Supply = s.SupplyAcceleration
	if note, ok := signal.MultiStrategyNote(s); ok {
		card.MultiNote = note
	}
	return card
}

// ProjectStock은 단일 종목 분석 결과를 카드 목록으로 바꿉니다. 필터와 검색은 적용하지 않습니다
func ProjectStock(a domain.StockAnalysis) StockView {
	cards := make([]SignalCard, 0, len(a.Signals))
	for _, sig := range a.Signals {
		cards = append(cards, projectCard(sig))
	}

	out := StockView{Ticker: a.Ticker, Total: a.Total, Cards: cards}
	if len(cards) == 0 {
		out.EmptyMessage = "포착된 전략이 없습니다"
	}
	return out
}

// FormatPrice는 가격을 천 단위 구분 기호와 "원" 으로 표시합니다. 0 은 자리표시자입니다
func FormatPrice(price float64) string {
	if price == 0 {
		return Placeholder
	}
	return humanize.Comma(int64(math.Round(price))) + "원"
}

func projectWatchlist(s State) WatchlistNode {
	monitor := s.Monitor
	if monitor == "" {
		monitor = watchlist.MonitorStopped
	}

	rows := make([]WatchRow, 0, len(s.Watchlist))
	for _, item := range s.Watchlist {
		rows = append(rows, projectRow(item))
	}

	node := WatchlistNode{
		Monitor:     monitor,
		MonitorText: monitorText(monitor),
		Rows:        rows,
		Draft:       s.Draft,
	}
	if len(rows) == 0 {
		node.EmptyMessage = "관찰 중인 종목이 없습니다"
	}
	return node
}

func monitorText(label watchlist.MonitorLabel) string {
	if label == watchlist.MonitorRunning {
		return "🟢 실시간 모니터링 중"
	}
	return "⚪ 모니터링 중지됨"
}

func projectRow(item domain.WatchlistItem) WatchRow {
	pnl, class := watchlist.FormatPnL(item)
	style := watchlist.StatusStyleOf(item.Status)

	current := Placeholder
	if item.IsPriced() {
		current = FormatPrice(item.CurrentPrice)
	}

	return WatchRow{
		Ticker:       item.Ticker,
		Name:         item.Name,
		Quantity:     item.Quantity,
		BuyPrice:     FormatPrice(item.BuyPrice),
		CurrentPrice: current,
		StopLoss:     FormatPrice(item.StopLossPrice),
		PnL:          pnl,
		PnLClass:     class,
		Status:       item.Status,
		StatusIcon:   style.Icon,
		StatusClass:  style.Class,
		Reason:       item.PrimaryReason(),
		LastChecked:  item.LastChecked,
	}
}

func projectToasts(toasts []notification.Toast) []ToastNode {
	out := make([]ToastNode, 0, len(toasts))
	for _, t := range toasts {
		out = append(out, ToastNode{ID: t.ID, Text: t.Text, Severity: t.Severity, Phase: t.Phase})
	}
	return out
}
