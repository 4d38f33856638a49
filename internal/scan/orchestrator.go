package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/notification"
)

// API는 스캔 관련 원격 호출입니다
type API interface {
	Scan(ctx context.Context, params domain.ScanParams) (*domain.ScanResponse, error)
	Results(ctx context.Context) (*domain.ScanResponse, error)
	Progress(ctx context.Context) (*domain.ScanProgress, error)
}

// SignalStore는 스캔 결과 시그널을 받는 저장소입니다
type SignalStore interface {
	ReplaceAll(signals []domain.Signal)
	ApprovedCount() int
}

// MarketStore는 시장 상태 스냅샷을 받는 모델입니다
type MarketStore interface {
	Update(c *domain.MarketCondition)
}

// WatchlistLoader는 초기 로드 성공 시 관찰 리스트를 불러옵니다
type WatchlistLoader interface {
	Load(ctx context.Context) error
}

// Orchestrator는 한 번에 하나의 스캔 요청을 조율합니다.
// Idle → Running → {Succeeded, Failed} → Idle 순서로 진행합니다
type Orchestrator struct {
	mu          sync.Mutex
	state       State
	lastOutcome State
	overlay     Overlay
	summary     *domain.Summary
	grades      *domain.IntersectionSummary

	api          API
	signals      SignalStore
	market       MarketStore
	watchlist    WatchlistLoader
	notifier     notification.Notifier
	logger       zerolog.Logger
	pollInterval time.Duration
	loadTimeout  time.Duration
	onChange     func()
	observer     func(outcome string)
}

// Option은 오케스트레이터 생성 옵션을 정의합니다
type Option func(*Orchestrator)

// WithLogger는 로거를 설정합니다
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithPollInterval은 진행률 조회 주기를 설정합니다
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollInterval = d
	}
}

// WithLoadTimeout은 초기 로드 제한 시간을 설정합니다
func WithLoadTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.loadTimeout = d
	}
}

// WithWatchlist는 초기 로드 성공 시 불러올 관찰 리스트를 설정합니다
func WithWatchlist(w WatchlistLoader) Option {
	return func(o *Orchestrator) {
		o.watchlist = w
	}
}

// WithOnChange는 상태가 바뀔 때마다 호출될 함수를 설정합니다
func WithOnChange(f func()) Option {
	return func(o *Orchestrator) {
		o.onChange = f
	}
}

// WithOutcomeObserver는 스캔이 끝날 때마다 결과를 전달받을 함수를 설정합니다
func WithOutcomeObserver(f func(outcome string)) Option {
	return func(o *Orchestrator) {
		o.observer = f
	}
}

// NewOrchestrator는 새로운 스캔 오케스트레이터를 생성합니다
func NewOrchestrator(api API, signals SignalStore, market MarketStore, notifier notification.Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:          api,
		signals:      signals,
		market:       market,
		notifier:     notifier,
		logger:       zerolog.Nop(),
		pollInterval: 800 * time.Millisecond,
		loadTimeout:  3 * time.Second,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Status는 현재 표시 상태를 반환합니다
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	running := o.state == StateRunning
	return Status{
		State:       o.state,
		LastOutcome: o.lastOutcome,
		Control:     Control{Disabled: running, Busy: running},
		Overlay:     o.overlay,
	}
}

// Running은 스캔이 진행 중인지 확인합니다
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == StateRunning
}

// Summary는 마지막으로 받은 스캔 요약을 반환합니다
func (o *Orchestrator) Summary() (domain.Summary, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.summary == nil {
		return domain.Summary{}, false
	}
	return *o.summary, true
}

// Intersection은 서버가 보낸 등급별 집계를 반환합니다. 시그널과 함께 교체되므로
// 마지막 결과에 집계가 없었다면 false 입니다
func (o *Orchestrator) Intersection() (domain.IntersectionSummary, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.grades == nil {
		return domain.IntersectionSummary{}, false
	}
	return *o.grades, true
}

// Run은 스캔을 시작하고 끝날 때까지 기다립니다
func (o *Orchestrator) Run(ctx context.Context, params domain.ScanParams) error {
	done, err := o.Start(ctx, params)
	if err != nil {
		return err
	}
	return <-done
}

// Start는 Running 으로 전환한 뒤 스캔 요청을 백그라운드에서 실행합니다.
// 이미 진행 중이면 요청 없이 ErrScanInProgress 를 반환합니다
func (o *Orchestrator) Start(ctx context.Context, params domain.ScanParams) (<-chan error, error) {
	o.mu.Lock()
	if o.state == StateRunning {
		o.mu.Unlock()
		return nil, domain.ErrScanInProgress
	}
	o.state = StateRunning
	o.overlay = Overlay{Open: true, Caption: Caption}
	o.mu.Unlock()

	o.logger.Info().Int64("min_market_cap", params.MinMarketCap).Int("top_rank", params.TopRank).Msg("스캔 시작")
	o.notifier.Notify("🔍 전 종목 스캔을 시작합니다", notification.SeverityInfo)
	o.changed()

	done := make(chan error, 1)
	go func() {
		done <- o.execute(ctx, params)
	}()
	return done, nil
}

func (o *Orchestrator) execute(ctx context.Context, params domain.ScanParams) error {
	pollCtx, stopPolling := context.WithCancel(ctx)
	polled := make(chan struct{})
	go o.poll(pollCtx, polled)

	start := time.Now()
	resp, err := o.api.Scan(ctx, params)
	if err == nil && resp == nil {
		resp = &domain.ScanResponse{}
	}

	stopPolling()
	<-polled

	outcome := o.finish(resp, err)
	o.logger.Info().Str("outcome", outcome).Dur("elapsed", time.Since(start)).Msg("스캔 종료")
	if o.observer != nil {
		o.observer(outcome)
	}

	if err != nil {
		return err
	}
	if resp.Error != "" {
		return domain.NewError("scan", domain.KindRemote, errors.New(resp.Error))
	}
	return nil
}

// finish는 결과를 반영하고 Idle 로 돌아갑니다
func (o *Orchestrator) finish(resp *domain.ScanResponse, err error) string {
	var outcome string
	result := StateFailed

	switch {
	case err != nil:
		if msg, ok := domain.RemoteMessage(err); ok {
			outcome = OutcomeRemoteError
			o.notifier.Notify("❌ 스캔 실패: "+msg, notification.SeverityError)
		} else {
			outcome = OutcomeTransportError
			o.logger.Error().Err(err).Msg("스캔 요청 실패")
			o.notifier.Notify("❌ 서버 연결에 실패했습니다", notification.SeverityError)
		}
	case resp.Error != "":
		outcome = OutcomeRemoteError
		o.notifier.Notify("❌ 스캔 실패: "+resp.Error, notification.SeverityError)
	default:
		outcome = OutcomeSuccess
		result = StateSucceeded
		o.apply(resp)

		approved := o.signals.ApprovedCount()
		if approved > 0 {
			o.notifier.Notify(fmt.Sprintf("✅ 스캔 완료: 매수 승인 %d개 / 전체 %d개", approved, len(resp.Signals)), notification.SeveritySuccess)
		} else {
			o.notifier.Notify(fmt.Sprintf("⚠️ 스캔 완료: 매수 승인 종목 없음 (전체 %d개)", len(resp.Signals)), notification.SeverityWarning)
		}
	}

	o.mu.Lock()
	o.lastOutcome = result
	o.state = StateIdle
	o.overlay = Overlay{}
	o.mu.Unlock()
	o.changed()

	return outcome
}

// apply는 시장 상태, 시그널, 요약 순서로 결과를 반영합니다
func (o *Orchestrator) apply(resp *domain.ScanResponse) {
	if resp.MarketCondition != nil {
		o.market.Update(resp.MarketCondition)
	}
	o.signals.ReplaceAll(resp.Signals)

	o.mu.Lock()
	defer o.mu.Unlock()

	o.grades = nil
	if resp.IntersectionSummary != nil {
		grades := *resp.IntersectionSummary
		o.grades = &grades
	}
	if resp.Summary != nil {
		summary := *resp.Summary
		if resp.Summary.StrategyBreakdown != nil {
			summary.StrategyBreakdown = make(map[domain.Strategy]int, len(resp.Summary.StrategyBreakdown))
			for k, v := range resp.Summary.StrategyBreakdown {
				summary.StrategyBreakdown[k] = v
			}
		}
		o.summary = &summary
	}
}

// poll은 스캔이 끝날 때까지 진행률을 주기적으로 조회합니다. 조회 실패는 무시합니다
func (o *Orchestrator) poll(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			progress, err := o.api.Progress(ctx)
			if err != nil {
				o.logger.Debug().Err(err).Msg("진행률 조회 실패")
				continue
			}

			o.mu.Lock()
			updated := o.state == StateRunning
			if updated {
				o.overlay.Percent = progress.Percent
				o.overlay.Message = progress.Message
			}
			o.mu.Unlock()

			if updated {
				o.changed()
			}
		}
	}
}

// Bootstrap은 최근 결과를 제한 시간 안에 불러옵니다. 시간 초과, 실패,
// 빈 결과는 모두 결과 없음으로 보고 데모 데이터를 띄웁니다
func (o *Orchestrator) Bootstrap(ctx context.Context) Origin {
	loadCtx, cancel := context.WithTimeout(ctx, o.loadTimeout)
	resp, err := o.api.Results(loadCtx)
	cancel()

	if err == nil && resp != nil && resp.Error == "" && len(resp.Signals) > 0 {
		o.apply(resp)
		o.changed()
		o.logger.Info().Int("signals", len(resp.Signals)).Msg("최근 스캔 결과 로드")

		if o.watchlist != nil {
			if err := o.watchlist.Load(ctx); err != nil {
				o.logger.Debug().Err(err).Msg("초기 관찰 리스트 로드 실패")
			}
		}
		return OriginResults
	}

	if err != nil {
		o.logger.Debug().Err(err).Msg("최근 결과 없음")
	}

	demo, derr := DemoDataset()
	if derr != nil {
		o.logger.Error().Err(derr).Msg("데모 데이터 로드 실패")
		return OriginDemo
	}
	o.apply(demo)
	o.changed()
	o.notifier.Notify("📋 서버 결과가 없어 데모 데이터를 표시합니다", notification.SeverityInfo)
	return OriginDemo
}

func (o *Orchestrator) changed() {
	if o.onChange != nil {
		o.onChange()
	}
}
