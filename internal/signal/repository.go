package signal

import (
	"fmt"
	"strings"
	"sync"

	"github.com/assist-by/quantdesk/internal/domain"
)

const (
	// FilterAll은 모든 시그널을 통과시킵니다
	FilterAll = "all"
	// FilterApproved는 매수 승인 시그널만 통과시킵니다
	FilterApproved = "approved"
)

// Repository는 현재 시그널 집합과 필터/검색 상태를 보유합니다.
// 종목 기준 중복 제거는 하지 않습니다
type Repository struct {
	mu      sync.RWMutex
	signals []domain.Signal
	filter  string
	query   string
}

// NewRepository는 필터가 "all" 인 빈 저장소를 생성합니다
func NewRepository() *Repository {
	return &Repository{filter: FilterAll}
}

// ReplaceAll은 시그널 집합 전체를 원자적으로 교체합니다
func (r *Repository) ReplaceAll(signals []domain.Signal) {
	next := make([]domain.Signal, len(signals))
	for i, s := range signals {
		next[i] = s.Clone()
	}

	r.mu.Lock()
	r.signals = next
	r.mu.Unlock()
}

// IsValidFilter는 필터 값이 "all", "approved" 또는 전략 리터럴인지 확인합니다
func IsValidFilter(value string) bool {
	return value == FilterAll || value == FilterApproved || domain.Strategy(value).IsValid()
}

// SetStrategyFilter는 전략 필터를 설정합니다. 허용되지 않은 값이면 기존 필터를 유지합니다
func (r *Repository) SetStrategyFilter(value string) error {
	if !IsValidFilter(value) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownFilter, value)
	}

	r.mu.Lock()
	r.filter = value
	r.mu.Unlock()
	return nil
}

// SetSearchQuery는 앞뒤 공백을 제거한 검색어를 설정합니다. 빈 문자열은 검색을 끕니다
func (r *Repository) SetSearchQuery(text string) {
	r.mu.Lock()
	r.query = strings.TrimSpace(text)
	r.mu.Unlock()
}

// Filter는 현재 전략 필터를 반환합니다
func (r *Repository) Filter() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter
}

// Query는 현재 검색어를 반환합니다
func (r *Repository) Query() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.query
}

// Visible은 필터와 검색을 모두 통과한 시그널을 원래 순서대로 반환합니다
func (r *Repository) Visible() []domain.Signal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Apply(r.signals, r.filter, r.query)
}

// All은 저장된 시그널 전체의 사본을 반환합니다
func (r *Repository) All() []domain.Signal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Signal, len(r.signals))
	for i, s := range r.signals {
		out[i] = s.Clone()
	}
	return out
}

// Len은 저장된 시그널 수를 반환합니다
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.signals)
}

// ApprovedCount는 매수 승인 상태인 시그널 수를 반환합니다
func (r *Repository) ApprovedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return CountApproved(r.signals)
}

// MarkVerdict는 해당 종목의 모든 전략 항목의 승인 상태를 로컬에서 바꿉니다.
// 변경된 항목 수를 반환합니다
func (r *Repository) MarkVerdict(ticker string, verdict domain.Verdict) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := 0
	for i := range r.signals {
		if r.signals[i].Ticker == ticker {
			r.signals[i].Verdict = verdict
			changed++
		}
	}
	return changed
}

// Apply는 필터와 검색어를 적용한 안정 필터 결과를 반환합니다
func Apply(signals []domain.Signal, filter, query string) []domain.Signal {
	query = strings.TrimSpace(query)
	lowered := strings.ToLower(query)

	out := make([]domain.Signal, 0, len(signals))
	for _, s := range signals {
		if !matchesFilter(s, filter) {
			continue
		}
		if query != "" && !matchesQuery(s, query, lowered) {
			continue
		}
		out = append(out, s.Clone())
	}
	return out
}

func matchesFilter(s domain.Signal, filter string) bool {
	switch filter {
	case FilterAll, "":
		return true
	case FilterApproved:
		return s.Verdict.IsApproved()
	default:
		// multi_strategies 는 보지 않습니다
		return string(s.Strategy) == filter
	}
}

// matchesQuery는 이름은 대소문자 무시, 종목코드는 그대로 부분 일치를 봅니다
func matchesQuery(s domain.Signal, query, lowered string) bool {
	return strings.Contains(strings.ToLower(s.Name), lowered) || strings.Contains(s.Ticker, query)
}

// CountApproved는 매수 승인 시그널 수를 셉니다
func CountApproved(signals []domain.Signal) int {
	n := 0
	for _, s := range signals {
		if s.Verdict.IsApproved() {
			n++
		}
	}
	return n
}
