package view

import (
	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/market"
	"github.com/assist-by/quantdesk/internal/notification"
	"github.com/assist-by/quantdesk/internal/scan"
	"github.com/assist-by/quantdesk/internal/signal"
	"github.com/assist-by/quantdesk/internal/watchlist"
)

// ViewModel은 렌더러가 그대로 그릴 수 있는 화면 트리입니다
type ViewModel struct {
	Header      Header        `json:"header"`
	Summary     SummaryNode   `json:"summary"`
	FilterBar   FilterBar     `json:"filter_bar"`
	Signals     SignalList    `json:"signals"`
	Watchlist   WatchlistNode `json:"watchlist"`
	ScanControl scan.Control  `json:"scan_control"`
	Overlay     scan.Overlay  `json:"overlay"`
	Toasts      []ToastNode   `json:"toasts"`
}

// Header는 시계와 시장 상태 영역입니다
type Header struct {
	Clock  string          `json:"clock"`
	Market *market.Display `json:"market,omitempty"`
}

// SummaryNode는 스캔 요약 영역입니다
type SummaryNode struct {
	TotalSignals int    `json:"total_signals"`
	Approved     int    `json:"approved"`
	Watch        int    `json:"watch"`
	TotalScanned string `json:"total_scanned"`
	Elapsed      string `json:"elapsed"`

	Grades     GradeTally      `json:"grades"`
	Strategies []StrategyCount `json:"strategies,omitempty"`
}

// GradeTally는 등급별 교집합 집계입니다
type GradeTally struct {
	S           int    `json:"s"`
	A           int    `json:"a"`
	B           int    `json:"b"`
	Description string `json:"description"`
}

// StrategyCount는 전략별 시그널 수 한 칸입니다
type StrategyCount struct {
	Strategy domain.Strategy `json:"strategy"`
	Icon     string          `json:"icon"`
	Count    int             `json:"count"`
}

// FilterOption은 필터 버튼 하나입니다
type FilterOption struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Icon   string `json:"icon,omitempty"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

// FilterBar는 필터 버튼과 검색어 영역입니다
type FilterBar struct {
	Options []FilterOption `json:"options"`
	Query   string         `json:"query"`
}

// SignalList는 필터를 통과한 시그널 카드 목록입니다
type SignalList struct {
	Cards        []SignalCard `json:"cards"`
	Total        int          `json:"total"`
	EmptyMessage string       `json:"empty_message,omitempty"`
}

// SignalCard는 시그널 카드 하나입니다
type SignalCard struct {
	Ticker       string             `json:"ticker"`
	Name         string             `json:"name"`
	Strategy     domain.Strategy    `json:"strategy"`
	StrategyIcon string             `json:"strategy_icon"`
	Confidence   float64            `json:"confidence"`
	Band         signal.Band        `json:"band"`
	Grade        *signal.GradeBadge `json:"grade,omitempty"`
	GradeLabel   string             `json:"grade_label,omitempty"`
	Supply       string             `json:"supply_acceleration,omitempty"`
	MultiNote    string             `json:"multi_note,omitempty"`
	Verdict      domain.Verdict     `json:"verdict"`
	Approved     bool               `json:"approved"`
	CurrentPrice string             `json:"current_price"`
	EntryPrice1  string             `json:"entry_price_1"`
	EntryPrice2  string             `json:"entry_price_2"`
	TargetPrice1 string             `json:"target_price_1"`
	TargetPrice2 string             `json:"target_price_2"`
	StopLoss     string             `json:"stop_loss"`
	Reason       string             `json:"reason,omitempty"`
	Reasons      []string           `json:"reasons,omitempty"`
}

// StockView는 단일 종목 분석 결과입니다
type StockView struct {
	Ticker       string       `json:"ticker"`
	Total        int          `json:"total"`
	Cards        []SignalCard `json:"cards"`
	EmptyMessage string       `json:"empty_message,omitempty"`
}

// WatchlistNode는 관찰 리스트 영역입니다
type WatchlistNode struct {
	Monitor      watchlist.MonitorLabel `json:"monitor"`
	MonitorText  string                 `json:"monitor_text"`
	Rows         []WatchRow             `json:"rows"`
	Draft        watchlist.Draft        `json:"draft"`
	EmptyMessage string                 `json:"empty_message,omitempty"`
}

// WatchRow는 관찰 종목 행 하나입니다
type WatchRow struct {
	Ticker       string             `json:"ticker"`
	Name         string             `json:"name"`
	Quantity     int                `json:"quantity"`
	BuyPrice     string             `json:"buy_price"`
	CurrentPrice string             `json:"current_price"`
	StopLoss     string             `json:"stop_loss"`
	PnL          string             `json:"pnl"`
	PnLClass     watchlist.PnLClass `json:"pnl_class"`
	Status       domain.WatchStatus `json:"status"`
	StatusIcon   string             `json:"status_icon"`
	StatusClass  string             `json:"status_class"`
	Reason       string             `json:"reason,omitempty"`
	LastChecked  string             `json:"last_checked,omitempty"`
}

// ToastNode는 토스트 하나입니다
type ToastNode struct {
	ID       string                `json:"id"`
	Text     string                `json:"text"`
	Severity notification.Severity `json:"severity"`
	Phase    notification.Phase    `json:"phase"`
}
