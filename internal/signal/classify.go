package signal

import (
	"fmt"
	"strings"

	"github.com/assist-by/quantdesk/internal/domain"
)

// Band는 신뢰도 구간입니다
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// ConfidenceBand는 신뢰도를 low(<55), medium(55~75 미만), high(75 이상)로 나눕니다.
// 범위를 벗어난 값도 거부하지 않고 양 끝 구간에 넣습니다
func ConfidenceBand(confidence float64) Band {
	switch {
	case confidence >= 75:
		return BandHigh
	case confidence >= 55:
		return BandMedium
	default:
		return BandLow
	}
}

// GradeBadge는 카드에 표시되는 등급 배지입니다
type GradeBadge struct {
	Grade  domain.Grade `json:"grade"`
	Label  string       `json:"label"`
	Detail string       `json:"detail,omitempty"`
}

var gradeBadges = map[domain.Grade]GradeBadge{
	domain.GradeS: {Grade: domain.GradeS, Label: "S급"},
	domain.GradeA: {Grade: domain.GradeA, Label: "A급"},
}

// GradeBadgeOf는 S, A 등급일 때만 배지를 반환합니다. B, B+, 빈 값은 배지가 없습니다
// 서버가 grade_label 을 보냈다면 Detail 에 그대로 담습니다
func GradeBadgeOf(s domain.Signal) (GradeBadge, bool) {
	badge, ok := gradeBadges[s.Grade]
	if !ok {
		return GradeBadge{}, false
	}
	badge.Detail = s.GradeLabel
	return badge, true
}

// SummarizeGrades는 서버가 intersection_summary 를 보내지 않았을 때 시그널에서
// 등급별 집계를 다시 만듭니다. 등급이 없으면 B 로 세고 B+ 는 세지 않습니다
func SummarizeGrades(signals []domain.Signal) domain.IntersectionSummary {
	var out domain.IntersectionSummary
	for _, s := range signals {
		switch s.Grade {
		case domain.GradeS:
			out.SGrade++
		case domain.GradeA:
			out.AGrade++
		case domain.GradeB, "":
			out.BGrade++
		}
	}
	out.Description = fmt.Sprintf("S급 %d개 · A급 %d개 · 단일 %d개", out.SGrade, out.AGrade, out.BGrade)
	return out
}

// MultiStrategyNote는 2개 이상 전략이 겹친 시그널의 안내 문구를 만듭니다.
// multi_strategy_count 가 1 이하이면 multi_strategies 에 값이 있어도 문구가 없습니다
func MultiStrategyNote(s domain.Signal) (string, bool) {
	if s.MultiStrategyCount < 2 {
		return "", false
	}

	seen := map[domain.Strategy]bool{s.Strategy: true}
	others := make([]string, 0, len(s.MultiStrategies))
	for _, st := range s.MultiStrategies {
		if seen[st] {
			continue
		}
		seen[st] = true
		others = append(others, string(st))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔗 %d개 전략 동시 포착", s.MultiStrategyCount))
	if len(others) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(others, ", "))
	}
	if s.ConfidenceBonus != 0 {
		b.WriteString(fmt.Sprintf(" (가산점 +%g)", s.ConfidenceBonus))
	}
	return b.String(), true
}

// strategyIcons는 전략별 아이콘입니다. 목록에 없는 전략은 📊 입니다
var strategyIcons = map[domain.Strategy]string{
	domain.Pullback:     "🎯",
	domain.BottomEscape: "🌱",
	domain.GoldenCross:  "✨",
	domain.Breakout:     "🚀",
	domain.Convergence:  "📈",
}

// StrategyIcon은 전략 아이콘을 반환합니다
func StrategyIcon(s domain.Strategy) string {
	if icon, ok := strategyIcons[s]; ok {
		return icon
	}
	return "📊"
}

// StrategyLabel은 영문 전략 키를 한글 전략명으로 옮깁니다. 모르는 키는 그대로 둡니다
func StrategyLabel(key string) string {
	if s, ok := domain.StrategyFromKey(key); ok {
		return string(s)
	}
	return key
}
