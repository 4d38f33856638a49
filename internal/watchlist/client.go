package watchlist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/notification"
)

// API는 관찰 리스트 관련 원격 호출입니다
type API interface {
	Watchlist(ctx context.Context) ([]domain.WatchlistItem, error)
	AddWatch(ctx context.Context, req domain.AddWatchRequest) (*domain.AddWatchResponse, error)
	RemoveWatch(ctx context.Context, ticker string) error
	CheckWatchlist(ctx context.Context) ([]domain.CheckResult, error)
	StartMonitoring(ctx context.Context) error
	StopMonitoring(ctx context.Context) error
	WatchlistReport(ctx context.Context) (string, error)
}

// MonitorLabel은 서버 측 주기 점검 상태 표시입니다
type MonitorLabel string

const (
	MonitorStopped MonitorLabel = "stopped"
	MonitorRunning MonitorLabel = "monitoring"
)

// Draft는 추가 입력 폼의 현재 값입니다
type Draft struct {
	Ticker   string  `json:"ticker"`
	BuyPrice float64 `json:"buy_price"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
}

// Request는 입력 폼 값을 추가 요청으로 변환합니다
func (d Draft) Request() domain.AddWatchRequest {
	return domain.AddWatchRequest{Ticker: d.Ticker, BuyPrice: d.BuyPrice, Name: d.Name, Quantity: d.Quantity}
}

// Client는 관찰 종목 집합과 모니터링 표시 상태를 관리합니다.
// status, pnl, 손절가는 서버가 계산한 값을 그대로 씁니다
type Client struct {
	mu       sync.RWMutex
	items    []domain.WatchlistItem
	label    MonitorLabel
	draft    Draft
	api      API
	notifier notification.Notifier
	validate *validator.Validate
	logger   zerolog.Logger
	onChange func()
}

// Option은 클라이언트 생성 옵션을 정의합니다
type Option func(*Client)

// WithLogger는 로거를 설정합니다
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithOnChange는 상태가 바뀔 때마다 호출될 함수를 설정합니다
func WithOnChange(f func()) Option {
	return func(c *Client) {
		c.onChange = f
	}
}

// NewClient는 새로운 관찰 리스트 클라이언트를 생성합니다
func NewClient(api API, notifier notification.Notifier, opts ...Option) *Client {
	c := &Client{
		label:    MonitorStopped,
		api:      api,
		notifier: notifier,
		validate: validator.New(),
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Items는 관찰 종목의 사본을 반환합니다
func (c *Client) Items() []domain.WatchlistItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.WatchlistItem(nil), c.items...)
}

// Label은 모니터링 표시 상태를 반환합니다
func (c *Client) Label() MonitorLabel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.label
}

// Draft는 입력 폼 값을 반환합니다
func (c *Client) Draft() Draft {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.draft
}

// SetDraft는 입력 폼 값을 갱신합니다
func (c *Client) SetDraft(d Draft) {
	c.mu.Lock()
	c.draft = d
	c.mu.Unlock()
	c.changed()
}

// Load는 관찰 리스트 전체를 다시 받아와 교체합니다
func (c *Client) Load(ctx context.Context) error {
	items, err := c.api.Watchlist(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("관찰 리스트 조회 실패")
		c.fail("관찰 리스트를 불러오지 못했습니다", err)
		return err
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	c.changed()
	return nil
}

// Add는 관찰 종목을 추가하고 목록을 다시 받아옵니다.
// 종목코드가 비었거나 매수가가 0 이하면 요청하지 않습니다
func (c *Client) Add(ctx context.Context, req domain.AddWatchRequest) error {
	const op = "watchlist.add"

	req.Ticker = strings.TrimSpace(req.Ticker)
	req.Name = strings.TrimSpace(req.Name)
	if err := c.validate.Struct(req); err != nil {
		c.notifier.Notify("종목코드와 매수가를 입력하세요", notification.SeverityWarning)
		return domain.NewError(op, domain.KindValidation, err)
	}

	resp, err := c.api.AddWatch(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Str("ticker", req.Ticker).Msg("관찰 종목 추가 실패")
		c.fail("관찰 종목 추가에 실패했습니다", err)
		return err
	}

	name := resp.Name
	if name == "" {
		name = req.Ticker
	}

	c.mu.Lock()
	c.draft = Draft{}
	c.mu.Unlock()

	c.notifier.Notify(fmt.Sprintf("📌 %s 관찰 리스트에 추가", name), notification.SeveritySuccess)
	return c.Load(ctx)
}

// AddDraft는 입력 폼 값으로 Add 를 호출합니다
func (c *Client) AddDraft(ctx context.Context) error {
	return c.Add(ctx, c.Draft().Request())
}

// Remove는 관찰 종목을 삭제하고 목록을 다시 받아옵니다
func (c *Client) Remove(ctx context.Context, ticker string) error {
	if err := c.api.RemoveWatch(ctx, ticker); err != nil {
		c.logger.Error().Err(err).Str("ticker", ticker).Msg("관찰 종목 삭제 실패")
		c.fail("관찰 종목 삭제에 실패했습니다", err)
		return err
	}

	c.notifier.Notify(fmt.Sprintf("%s 관찰 리스트에서 제거", ticker), notification.SeverityInfo)
	return c.Load(ctx)
}

// CheckNow는 전 종목을 즉시 재점검합니다. 반환된 항목으로 목록을 교체하고
// 경고 개수를 요약한 알림 하나를 보냅니다
func (c *Client) CheckNow(ctx context.Context) ([]domain.CheckResult, error) {
	results, err := c.api.CheckWatchlist(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("관찰 리스트 점검 실패")
		c.fail("관찰 리스트 점검에 실패했습니다", err)
		return nil, err
	}

	items := make([]domain.WatchlistItem, 0, len(results))
	alerts := 0
	for _, r := range results {
		items = append(items, r.Item)
		if r.Alert {
			alerts++
		}
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	c.changed()

	if alerts > 0 {
		c.notifier.Notify(fmt.Sprintf("🚨 경고 종목 %d개 발견!", alerts), notification.SeverityError)
	} else {
		c.notifier.Notify(fmt.Sprintf("✅ %d개 종목 모두 정상", len(items)), notification.SeveritySuccess)
	}
	return results, nil
}

// StartMonitoring은 서버 측 주기 점검을 켭니다. 성공한 뒤에만 표시를 바꿉니다
func (c *Client) StartMonitoring(ctx context.Context) error {
	if err := c.api.StartMonitoring(ctx); err != nil {
		c.fail("모니터링 시작에 실패했습니다", err)
		return err
	}
	c.setLabel(MonitorRunning)
	c.notifier.Notify("🔄 실시간 모니터링 시작", notification.SeveritySuccess)
	return nil
}

// StopMonitoring은 서버 측 주기 점검을 끕니다
func (c *Client) StopMonitoring(ctx context.Context) error {
	if err := c.api.StopMonitoring(ctx); err != nil {
		c.fail("모니터링 중지에 실패했습니다", err)
		return err
	}
	c.setLabel(MonitorStopped)
	c.notifier.Notify("⏹ 모니터링 중지", notification.SeverityInfo)
	return nil
}

// Report는 서버가 만든 일일 요약 보고서를 받아옵니다
func (c *Client) Report(ctx context.Context) (string, error) {
	report, err := c.api.WatchlistReport(ctx)
	if err != nil {
		c.fail("보고서를 불러오지 못했습니다", err)
		return "", err
	}
	return report, nil
}

func (c *Client) setLabel(label MonitorLabel) {
	c.mu.Lock()
	c.label = label
	c.mu.Unlock()
	c.changed()
}

// fail은 실패 알림을 하나 보냅니다. 서버가 보낸 메시지가 있으면 그대로 씁니다
func (c *Client) fail(generic string, err error) {
	if msg, ok := domain.RemoteMessage(err); ok {
		c.notifier.Notify("❌ "+msg, notification.SeverityError)
		return
	}
	c.notifier.Notify("❌ "+generic, notification.SeverityError)
}

func (c *Client) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
