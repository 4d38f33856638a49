package market

import (
	"math"
	"strings"

	"github.com/assist-by/quantdesk/internal/domain"
)

// IndexClass는 지수가 5일 이동평균 위에 있는지를 나타내는 표시 구분입니다
type IndexClass string

const (
	IndexBull IndexClass = "bull"
	IndexBear IndexClass = "bear"
)

// Access는 허용 전략 범위 배지입니다
type Access string

const (
	AccessFull       Access = "full"
	AccessRestricted Access = "restricted"
)

// PhaseStyle은 시장 국면의 표시 묶음입니다
type PhaseStyle struct {
	Class string `json:"class"`
	Badge string `json:"badge"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

var phaseStyles = map[domain.MarketPhase]PhaseStyle{
	domain.PhaseBull:    {Class: "phase-bull", Badge: "badge-bull", Emoji: "🟢", Label: "강세장"},
	domain.PhaseBear:    {Class: "phase-bear", Badge: "badge-bear", Emoji: "🔴", Label: "약세장"},
	domain.PhaseNeutral: {Class: "phase-neutral", Badge: "badge-neutral", Emoji: "🟡", Label: "혼조세"},
}

// PhaseStyleOf는 국면별 표시 묶음을 반환합니다. 알 수 없는 국면은 NEUTRAL 로 봅니다
func PhaseStyleOf(phase domain.MarketPhase) PhaseStyle {
	if style, ok := phaseStyles[phase]; ok {
		return style
	}
	return phaseStyles[domain.PhaseNeutral]
}

// IndexDisplay는 지수 하나의 표시 상태입니다
type IndexDisplay struct {
	Name   string     `json:"name"`
	Value  float64    `json:"value"`
	MA5    float64    `json:"ma5"`
	Class  IndexClass `json:"class"`
	Reason string     `json:"reason,omitempty"`
}

// Display는 시장 상태 스냅샷의 표시 상태입니다
type Display struct {
	Kospi         IndexDisplay `json:"kospi"`
	Kosdaq        IndexDisplay `json:"kosdaq"`
	Phase         PhaseStyle   `json:"phase"`
	MaxWeightPct  int          `json:"max_weight_pct"`
	Strategies    []string     `json:"strategies"`
	StrategyText  string       `json:"strategy_text"`
	StrategyCount int          `json:"strategy_count"`
	Access        Access       `json:"access"`
	Timestamp     string       `json:"timestamp,omitempty"`
}

// Present는 시장 상태를 표시 상태로 변환합니다.
// reasons 는 앞에서부터 KOSPI, KOSDAQ 에 대응합니다
func Present(c domain.MarketCondition) Display {
	strategies := TranslateStrategies(c.AllowedStrategies)

	access := AccessFull
	if c.MarketPhase == domain.PhaseBear {
		access = AccessRestricted
	}

	return Display{
		Kospi:         indexDisplay("KOSPI", c.KospiValue, c.KospiMA5, c.KospiAboveMA5, reasonAt(c.Reasons, 0)),
		Kosdaq:        indexDisplay("KOSDAQ", c.KosdaqValue, c.KosdaqMA5, c.KosdaqAboveMA5, reasonAt(c.Reasons, 1)),
		Phase:         PhaseStyleOf(c.MarketPhase),
		MaxWeightPct:  int(math.Round(c.MaxWeight * 100)),
		Strategies:    strategies,
		StrategyText:  strings.Join(strategies, ", "),
		StrategyCount: len(strategies),
		Access:        access,
		Timestamp:     c.Timestamp,
	}
}

func indexDisplay(name string, value, ma5 float64, above bool, reason string) IndexDisplay {
	class := IndexBear
	if above {
		class = IndexBull
	}
	return IndexDisplay{Name: name, Value: value, MA5: ma5, Class: class, Reason: reason}
}

func reasonAt(reasons []string, i int) string {
	if i < len(reasons) {
		return reasons[i]
	}
	return ""
}

// TranslateStrategies는 영문 전략 키를 한글 전략명으로 옮깁니다.
// 이미 한글 리터럴이거나 모르는 키는 그대로 둡니다
func TranslateStrategies(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if s, ok := domain.StrategyFromKey(key); ok {
			out = append(out, string(s))
			continue
		}
		out = append(out, key)
	}
	return out
}
