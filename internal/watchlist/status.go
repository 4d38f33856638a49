package watchlist

import (
	"fmt"

	"github.com/assist-by/quantdesk/internal/domain"
)

// Placeholder는 아직 시세가 반영되지 않은 값 대신 표시됩니다
const Placeholder = "—"

// StatusStyle은 상태 리터럴의 표시 묶음입니다
type StatusStyle struct {
	Icon  string `json:"icon"`
	Class string `json:"class"`
}

var statusStyles = map[domain.WatchStatus]StatusStyle{
	domain.StatusOK:       {Icon: "✅", Class: "status-ok"},
	domain.StatusWarn:     {Icon: "⚠️", Class: "status-warn"},
	domain.StatusNearStop: {Icon: "🚨", Class: "status-near"},
	domain.StatusStopHit:  {Icon: "💀", Class: "status-hit"},
}

// StatusStyleOf는 상태별 아이콘과 클래스를 반환합니다. 알 수 없는 상태는 정상으로 봅니다
func StatusStyleOf(status domain.WatchStatus) StatusStyle {
	if style, ok := statusStyles[status]; ok {
		return style
	}
	return statusStyles[domain.StatusOK]
}

// PnLClass는 손익 표시 구분입니다
type PnLClass string

const (
	PnLProfit  PnLClass = "profit"
	PnLLoss    PnLClass = "loss"
	PnLPending PnLClass = "pending"
)

// FormatPnL은 손익률 문자열과 표시 구분을 반환합니다.
// 현재가가 0 이면 아직 시세가 없으므로 자리표시자를 씁니다
func FormatPnL(item domain.WatchlistItem) (string, PnLClass) {
	if !item.IsPriced() {
		return Placeholder, PnLPending
	}
	if item.PnLPct >= 0 {
		return fmt.Sprintf("+%.2f%%", item.PnLPct), PnLProfit
	}
	return fmt.Sprintf("%.2f%%", item.PnLPct), PnLLoss
}
