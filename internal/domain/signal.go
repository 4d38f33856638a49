package domain

// Signal은 스캔 시점에 한 종목에서 포착된 전략 일치 결과입니다.
// 같은 종목이 전략별로 여러 번 나타날 수 있습니다.
type Signal struct {
	Ticker             string     `json:"ticker" yaml:"ticker"`
	Name               string     `json:"name" yaml:"name"`
	Strategy           Strategy   `json:"strategy" yaml:"strategy"`
	Confidence         float64    `json:"confidence" yaml:"confidence"`
	Grade              Grade      `json:"grade,omitempty" yaml:"grade,omitempty"`
	GradeLabel         string     `json:"grade_label,omitempty" yaml:"grade_label,omitempty"`
	SupplyAcceleration string     `json:"supply_acceleration,omitempty" yaml:"supply_acceleration,omitempty"`
	ConfidenceBonus    float64    `json:"confidence_bonus,omitempty" yaml:"confidence_bonus,omitempty"`
	MultiStrategyCount int        `json:"multi_strategy_count" yaml:"multi_strategy_count"`
	MultiStrategies    []Strategy `json:"multi_strategies,omitempty" yaml:"multi_strategies,omitempty"`
	CurrentPrice       float64    `json:"current_price" yaml:"current_price"`
	EntryPrice1        float64    `json:"entry_price_1" yaml:"entry_price_1"`
	EntryPrice2        float64    `json:"entry_price_2" yaml:"entry_price_2"`
	TargetPrice1       float64    `json:"target_price_1" yaml:"target_price_1"`
	TargetPrice2       float64    `json:"target_price_2" yaml:"target_price_2"`
	StopLoss           float64    `json:"stop_loss" yaml:"stop_loss"`
	Reasons            []string   `json:"reasons" yaml:"reasons"`
	Verdict            Verdict    `json:"verdict" yaml:"verdict"`
}

// PrimaryReason은 첫 번째 근거를 반환합니다. 근거가 없으면 빈 문자열입니다
func (s Signal) PrimaryReason() string {
	if len(s.Reasons) == 0 {
		return ""
	}
	return s.Reasons[0]
}

// Clone은 슬라이스 필드까지 복사한 사본을 반환합니다
func (s Signal) Clone() Signal {
	c := s
	if s.MultiStrategies != nil {
		c.MultiStrategies = append([]Strategy(nil), s.MultiStrategies...)
	}
	if s.Reasons != nil {
		c.Reasons = append([]string(nil), s.Reasons...)
	}
	return c
}

// Summary는 스캔 요약입니다. 누락된 필드는 0 으로 취급합니다
type Summary struct {
	TotalSignals   int     `json:"total_signals" yaml:"total_signals"`
	Approved       int     `json:"approved" yaml:"approved"`
	Watch          int     `json:"watch" yaml:"watch"`
	TotalScanned   int     `json:"total_scanned" yaml:"total_scanned"`
	ElapsedSeconds float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`

	// StrategyBreakdown은 전략 리터럴별 시그널 수입니다
	StrategyBreakdown map[Strategy]int `json:"strategy_breakdown,omitempty" yaml:"strategy_breakdown,omitempty"`
	MarketPhase       MarketPhase      `json:"market_phase,omitempty" yaml:"market_phase,omitempty"`
}

// IntersectionSummary는 등급별 시그널 수입니다. B+ 는 어느 칸에도 세지 않습니다
type IntersectionSummary struct {
	SGrade      int    `json:"s_grade" yaml:"s_grade"`
	AGrade      int    `json:"a_grade" yaml:"a_grade"`
	BGrade      int    `json:"b_grade" yaml:"b_grade"`
	Description string `json:"description" yaml:"description"`
}

// ScanResponse는 /api/scan 과 /api/results 의 응답 형태입니다
type ScanResponse struct {
	Error           string           `json:"error,omitempty" yaml:"error,omitempty"`
	MarketCondition *MarketCondition `json:"market_condition,omitempty" yaml:"market_condition,omitempty"`
	Signals         []Signal         `json:"signals,omitempty" yaml:"signals,omitempty"`
	Summary         *Summary         `json:"summary,omitempty" yaml:"summary,omitempty"`

	IntersectionSummary *IntersectionSummary `json:"intersection_summary,omitempty" yaml:"intersection_summary,omitempty"`
}

// StockAnalysis는 /api/stock/{ticker} 의 단일 종목 분석 결과입니다
type StockAnalysis struct {
	Error   string   `json:"error,omitempty"`
	Ticker  string   `json:"ticker"`
	Signals []Signal `json:"signals"`
	Total   int      `json:"total"`
}

// ScanProgress는 /api/progress 응답입니다
type ScanProgress struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ScanParams는 /api/scan 에 전달되는 선택적 파라미터입니다
type ScanParams struct {
	MinMarketCap int64
	TopRank      int
	Strategies   []string
}
