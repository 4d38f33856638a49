package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/market"
	"github.com/assist-by/quantdesk/internal/notification"
	"github.com/assist-by/quantdesk/internal/scan"
	"github.com/assist-by/quantdesk/internal/scheduler"
	"github.com/assist-by/quantdesk/internal/signal"
	"github.com/assist-by/quantdesk/internal/view"
	"github.com/assist-by/quantdesk/internal/watchlist"
)

// Remote는 대시보드가 사용하는 분석 서버 호출 전체입니다
type Remote interface {
	scan.API
	watchlist.API
	market.API
	Approve(ctx context.Context, ticker string, verdict domain.Verdict) error
	Stock(ctx context.Context, ticker string) (*domain.StockAnalysis, error)
}

// Config는 대시보드 구성 값입니다. 0 인 값은 기본값을 씁니다
type Config struct {
	PollInterval  time.Duration
	LoadTimeout   time.Duration
	ToastDuration time.Duration
	ToastFade     time.Duration
	Location      *time.Location
	Logger        zerolog.Logger

	// Schedule은 알림 타이머를 교체합니다. nil 이면 time.AfterFunc 를 씁니다
	Schedule notification.ScheduleFunc

	OnScanOutcome func(outcome string)
	OnNotify      func(severity notification.Severity)
}

// Dashboard는 화면 상태 전체를 소유하고 사용자 동작을 각 컴포넌트로 전달합니다
type Dashboard struct {
	signals   *signal.Repository
	market    *market.Model
	watchlist *watchlist.Client
	scans     *scan.Orchestrator
	toasts    *notification.Queue
	clock     *scheduler.Clock
	remote    Remote
	logger    zerolog.Logger

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

// New는 새로운 대시보드를 생성합니다
func New(remote Remote, cfg Config) *Dashboard {
	d := &Dashboard{
		remote: remote,
		logger: cfg.Logger,
		subs:   make(map[chan struct{}]struct{}),
	}

	queueOpts := []notification.QueueOption{
		notification.WithLogger(cfg.Logger),
		notification.WithOnChange(d.changed),
	}
	if cfg.Schedule != nil {
		queueOpts = append(queueOpts, notification.WithScheduler(cfg.Schedule))
	}
	if cfg.ToastDuration > 0 {
		queueOpts = append(queueOpts, notification.WithDuration(cfg.ToastDuration))
	}
	if cfg.ToastFade > 0 {
		queueOpts = append(queueOpts, notification.WithFade(cfg.ToastFade))
	}
	if cfg.OnNotify != nil {
		queueOpts = append(queueOpts, notification.WithObserver(cfg.OnNotify))
	}
	d.toasts = notification.NewQueue(queueOpts...)

	d.signals = signal.NewRepository()
	d.market = market.NewModel(remote, cfg.Logger)
	d.watchlist = watchlist.NewClient(remote, d.toasts,
		watchlist.WithLogger(cfg.Logger),
		watchlist.WithOnChange(d.changed),
	)

	scanOpts := []scan.Option{
		scan.WithLogger(cfg.Logger),
		scan.WithWatchlist(d.watchlist),
		scan.WithOnChange(d.changed),
	}
	if cfg.PollInterval > 0 {
		scanOpts = append(scanOpts, scan.WithPollInterval(cfg.PollInterval))
	}
	if cfg.LoadTimeout > 0 {
		scanOpts = append(scanOpts, scan.WithLoadTimeout(cfg.LoadTimeout))
	}
	if cfg.OnScanOutcome != nil {
		scanOpts = append(scanOpts, scan.WithOutcomeObserver(cfg.OnScanOutcome))
	}
	d.scans = scan.NewOrchestrator(remote, d.signals, d.market, d.toasts, scanOpts...)

	d.clock = scheduler.NewClock(cfg.Location, func(time.Time) { d.changed() })

	return d
}

// Clock은 1초 주기로 등록할 시계 작업을 반환합니다
func (d *Dashboard) Clock() *scheduler.Clock {
	return d.clock
}

// Notifications는 알림 큐를 반환합니다
func (d *Dashboard) Notifications() *notification.Queue {
	return d.toasts
}

// State는 현재 화면 상태를 모읍니다
func (d *Dashboard) State() view.State {
	s := view.State{
		Signals:   d.signals.All(),
		Filter:    d.signals.Filter(),
		Query:     d.signals.Query(),
		Watchlist: d.watchlist.Items(),
		Monitor:   d.watchlist.Label(),
		Draft:     d.watchlist.Draft(),
		Scan:      d.scans.Status(),
		Toasts:    d.toasts.Snapshot(),
		Now:       d.clock.Now(),
	}
	if c, ok := d.market.Snapshot(); ok {
		s.Market = &c
	}
	if summary, ok := d.scans.Summary(); ok {
		s.Summary = &summary
	}
	if grades, ok := d.scans.Intersection(); ok {
		s.Intersection = &grades
	}
	return s
}

// View는 현재 화면 트리를 계산합니다
func (d *Dashboard) View() view.ViewModel {
	return view.Project(d.State())
}

// Subscribe는 상태가 바뀔 때마다 신호를 받는 채널과 해지 함수를 반환합니다.
// 신호는 합쳐질 수 있으며 느린 구독자가 다른 구독자를 막지 않습니다
func (d *Dashboard) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	d.subMu.Lock()
	d.subs[ch] = struct{}{}
	d.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.subMu.Lock()
			delete(d.subs, ch)
			d.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (d *Dashboard) changed() {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	for ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Bootstrap은 최근 결과 또는 데모 데이터로 초기 화면을 채웁니다
func (d *Dashboard) Bootstrap(ctx context.Context) scan.Origin {
	return d.scans.Bootstrap(ctx)
}

// Startup은 프로세스 시작 시 한 번 호출됩니다. 최근 결과를 받았을 때만
// 시장 상태를 조용히 갱신합니다. 데모 화면에서는 데모 시장 상태를 유지하고
// 조회 실패도 알림 없이 로그만 남깁니다
func (d *Dashboard) Startup(ctx context.Context) scan.Origin {
	origin := d.scans.Bootstrap(ctx)
	if origin != scan.OriginResults {
		return origin
	}

	if err := d.market.Refresh(ctx); err != nil {
		d.logger.Warn().Err(err).Msg("시작 시 시장 상태 조회 실패")
		return origin
	}
	d.changed()
	return origin
}

// SetFilter는 전략 필터를 바꿉니다
func (d *Dashboard) SetFilter(value string) error {
	if err := d.signals.SetStrategyFilter(value); err != nil {
		return domain.NewError("filter", domain.KindValidation, err)
	}
	d.changed()
	return nil
}

// SetSearch는 검색어를 바꿉니다
func (d *Dashboard) SetSearch(text string) {
	d.signals.SetSearchQuery(text)
	d.changed()
}

// Scan은 스캔을 실행하고 끝날 때까지 기다립니다
func (d *Dashboard) Scan(ctx context.Context, params domain.ScanParams) error {
	return d.scans.Run(ctx, params)
}

// StartScan은 스캔을 시작만 하고 바로 반환합니다. 이미 진행 중이면 ErrScanInProgress 입니다
func (d *Dashboard) StartScan(ctx context.Context, params domain.ScanParams) error {
	done, err := d.scans.Start(ctx, params)
	if err != nil {
		return err
	}
	go func() {
		if err := <-done; err != nil {
			d.logger.Warn().Err(err).Msg("스캔 실패")
		}
	}()
	return nil
}

// Scanning은 스캔이 진행 중인지 확인합니다
func (d *Dashboard) Scanning() bool {
	return d.scans.Running()
}

// Approve는 로컬 승인 상태를 먼저 바꾼 뒤 서버에 전달합니다.
// 서버가 거절해도 로컬 상태는 되돌리지 않습니다
func (d *Dashboard) Approve(ctx context.Context, ticker string, verdict domain.Verdict) error {
	if ticker == "" || (verdict != domain.VerdictApproved && verdict != domain.VerdictWatch) {
		return domain.NewError("approve", domain.KindValidation, fmt.Errorf("잘못된 승인 요청: %q %q", ticker, verdict))
	}

	d.signals.MarkVerdict(ticker, verdict)
	d.changed()

	if err := d.remote.Approve(ctx, ticker, verdict); err != nil {
		d.logger.Error().Err(err).Str("ticker", ticker).Msg("승인 전송 실패")
		if msg, ok := domain.RemoteMessage(err); ok {
			d.toasts.Notify("❌ "+msg, notification.SeverityError)
		} else {
			d.toasts.Notify(fmt.Sprintf("❌ %s 승인 상태 전송에 실패했습니다", ticker), notification.SeverityError)
		}
		return err
	}

	if verdict.IsApproved() {
		d.toasts.Notify(fmt.Sprintf("✅ %s 매수 승인", ticker), notification.SeveritySuccess)
	} else {
		d.toasts.Notify(fmt.Sprintf("👀 %s 관망 처리", ticker), notification.SeverityInfo)
	}
	return nil
}

// AnalyzeStock은 한 종목을 즉시 분석합니다. 결과는 화면 상태에 저장하지 않습니다
func (d *Dashboard) AnalyzeStock(ctx context.Context, ticker string) (view.StockView, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		d.toasts.Notify("종목코드를 입력하세요", notification.SeverityWarning)
		return view.StockView{}, domain.NewError("stock", domain.KindValidation, errors.New("종목코드가 비어 있습니다"))
	}

	result, err := d.remote.Stock(ctx, ticker)
	if err != nil {
		d.logger.Error().Err(err).Str("ticker", ticker).Msg("종목 분석 실패")
		if msg, ok := domain.RemoteMessage(err); ok {
			d.toasts.Notify("❌ "+msg, notification.SeverityError)
		} else {
			d.toasts.Notify(fmt.Sprintf("❌ %s 분석에 실패했습니다", ticker), notification.SeverityError)
		}
		return view.StockView{}, err
	}
	if result == nil {
		result = &domain.StockAnalysis{Ticker: ticker}
	}
	return view.ProjectStock(*result), nil
}

// RefreshMarket은 시장 상태를 다시 받아옵니다
func (d *Dashboard) RefreshMarket(ctx context.Context) error {
	if err := d.market.Refresh(ctx); err != nil {
		d.toasts.Notify("❌ 시장 상태를 불러오지 못했습니다", notification.SeverityError)
		return err
	}
	d.changed()
	return nil
}

// LoadWatchlist는 관찰 리스트를 다시 받아옵니다
func (d *Dashboard) LoadWatchlist(ctx context.Context) error {
	return d.watchlist.Load(ctx)
}

// SetDraft는 관찰 종목 입력 폼 값을 바꿉니다
func (d *Dashboard) SetDraft(draft watchlist.Draft) {
	d.watchlist.SetDraft(draft)
}

// AddWatch는 관찰 종목을 추가합니다
func (d *Dashboard) AddWatch(ctx context.Context, req domain.AddWatchRequest) error {
	return d.watchlist.Add(ctx, req)
}

// AddDraft는 입력 폼 값으로 관찰 종목을 추가합니다
func (d *Dashboard) AddDraft(ctx context.Context) error {
	return d.watchlist.AddDraft(ctx)
}

// RemoveWatch는 관찰 종목을 삭제합니다
func (d *Dashboard) RemoveWatch(ctx context.Context, ticker string) error {
	return d.watchlist.Remove(ctx, ticker)
}

// CheckWatchlist는 관찰 종목을 즉시 점검합니다
func (d *Dashboard) CheckWatchlist(ctx context.Context) ([]domain.CheckResult, error) {
	return d.watchlist.CheckNow(ctx)
}

// StartMonitoring은 서버 측 주기 점검을 켭니다
func (d *Dashboard) StartMonitoring(ctx context.Context) error {
	return d.watchlist.StartMonitoring(ctx)
}

// StopMonitoring은 서버 측 주기 점검을 끕니다
func (d *Dashboard) StopMonitoring(ctx context.Context) error {
	return d.watchlist.StopMonitoring(ctx)
}

// Report는 관찰 리스트 일일 보고서를 받아옵니다
func (d *Dashboard) Report(ctx context.Context) (string, error) {
	return d.watchlist.Report(ctx)
}
