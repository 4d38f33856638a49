package market

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/assist-by/quantdesk/internal/domain"
)

// API는 시장 상태 조회에 필요한 원격 호출입니다
type API interface {
	Market(ctx context.Context) (*domain.MarketCondition, error)
}

// Model은 마지막으로 받은 시장 상태를 보관합니다
type Model struct {
	mu        sync.RWMutex
	condition *domain.MarketCondition
	api       API
	logger    zerolog.Logger
}

// NewModel은 새로운 시장 상태 모델을 생성합니다
func NewModel(api API, logger zerolog.Logger) *Model {
	return &Model{api: api, logger: logger}
}

// Update는 스냅샷을 교체합니다. nil 은 무시합니다
func (m *Model) Update(c *domain.MarketCondition) {
	if c == nil {
		return
	}
	next := *c
	next.AllowedStrategies = append([]string(nil), c.AllowedStrategies...)
	next.Reasons = append([]string(nil), c.Reasons...)

	m.mu.Lock()
	m.condition = &next
	m.mu.Unlock()
}

// Snapshot은 현재 시장 상태의 사본을 반환합니다
func (m *Model) Snapshot() (domain.MarketCondition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.condition == nil {
		return domain.MarketCondition{}, false
	}
	return *m.condition, true
}

// Display는 현재 시장 상태의 표시 상태를 반환합니다
func (m *Model) Display() (Display, bool) {
	c, ok := m.Snapshot()
	if !ok {
		return Display{}, false
	}
	return Present(c), true
}

// Refresh는 서버에서 시장 상태를 다시 받아옵니다. 실패하면 이전 상태를 유지합니다
func (m *Model) Refresh(ctx context.Context) error {
	c, err := m.api.Market(ctx)
	if err == nil && c == nil {
		err = domain.NewError("market", domain.KindTransport, errors.New("빈 응답"))
	}
	if err != nil {
		m.logger.Warn().Err(err).Msg("시장 상태 조회 실패")
		return err
	}
	m.Update(c)
	m.logger.Debug().Str("phase", string(c.MarketPhase)).Msg("시장 상태 갱신")
	return nil
}
