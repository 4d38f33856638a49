package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/view"
	"github.com/assist-by/quantdesk/internal/watchlist"
)

// Engine은 화면 호스트가 전달하는 대시보드 동작입니다
type Engine interface {
	View() view.ViewModel
	Subscribe() (<-chan struct{}, func())

	SetFilter(value string) error
	SetSearch(text string)
	StartScan(ctx context.Context, params domain.ScanParams) error
	Approve(ctx context.Context, ticker string, verdict domain.Verdict) error
	RefreshMarket(ctx context.Context) error

	LoadWatchlist(ctx context.Context) error
	SetDraft(draft watchlist.Draft)
	AddWatch(ctx context.Context, req domain.AddWatchRequest) error
	AddDraft(ctx context.Context) error
	RemoveWatch(ctx context.Context, ticker string) error
	CheckWatchlist(ctx context.Context) ([]domain.CheckResult, error)
	StartMonitoring(ctx context.Context) error
	StopMonitoring(ctx context.Context) error
	Report(ctx context.Context) (string, error)

	AnalyzeStock(ctx context.Context, ticker string) (view.StockView, error)
}

// Handler는 대시보드 동작을 HTTP 로 노출합니다
type Handler struct {
	engine         Engine
	requestTimeout time.Duration
}

// NewHandler는 새로운 핸들러를 생성합니다
func NewHandler(engine Engine, requestTimeout time.Duration) *Handler {
	return &Handler{engine: engine, requestTimeout: requestTimeout}
}

// RegisterRoutes는 경로를 등록합니다
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/view", h.GetView)
	e.GET("/api/watchlist/report", h.GetReport)
	e.GET("/api/stock/:ticker", h.GetStock)

	actions := e.Group("/api/actions")
	actions.POST("/filter", h.SetFilter)
	actions.POST("/search", h.SetSearch)
	actions.POST("/scan", h.Scan)
	actions.POST("/approve/:ticker", h.Approve)
	actions.POST("/market/refresh", h.RefreshMarket)

	actions.POST("/watchlist/load", h.LoadWatchlist)
	actions.POST("/watchlist/draft", h.SetDraft)
	actions.POST("/watchlist/draft/submit", h.SubmitDraft)
	actions.POST("/watchlist/add", h.AddWatch)
	actions.DELETE("/watchlist/:ticker", h.RemoveWatch)
	actions.POST("/watchlist/check", h.CheckWatchlist)
	actions.POST("/watchlist/monitor/start", h.StartMonitoring)
	actions.POST("/watchlist/monitor/stop", h.StopMonitoring)
}

func (h *Handler) withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.requestTimeout)
}

// GetView는 현재 화면 트리를 반환합니다
// GET /api/view
func (h *Handler) GetView(c echo.Context) error {
	return SuccessResponse(c, h.engine.View())
}

type filterRequest struct {
	Value string `json:"value"`
}

// SetFilter는 전략 필터를 바꿉니다
// POST /api/actions/filter
func (h *Handler) SetFilter(c echo.Context) error {
	var req filterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "잘못된 요청 형식입니다")
	}
	if err := h.engine.SetFilter(req.Value); err != nil {
		return FailureResponse(c, "필터를 바꿀 수 없습니다", err)
	}
	return SuccessResponse(c, h.engine.View())
}

type searchRequest struct {
	Query string `json:"query"`
}

// SetSearch는 검색어를 바꿉니다
// POST /api/actions/search
func (h *Handler) SetSearch(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "잘못된 요청 형식입니다")
	}
	h.engine.SetSearch(req.Query)
	return SuccessResponse(c, h.engine.View())
}

type scanRequest struct {
	MinMarketCap int64    `json:"min_market_cap"`
	TopRank      int      `json:"top_rank"`
	Strategies   []string `json:"strategies"`
}

// Scan은 스캔을 백그라운드로 시작합니다. 결과는 /ws 로 전달됩니다
// POST /api/actions/scan
func (h *Handler) Scan(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "잘못된 요청 형식입니다")
	}

	params := domain.ScanParams{MinMarketCap: req.MinMarketCap, TopRank: req.TopRank, Strategies: req.Strategies}
	// 스캔은 요청보다 오래 걸리므로 요청 컨텍스트를 쓰지 않습니다
	if err := h.engine.StartScan(context.Background(), params); err != nil {
		return FailureResponse(c, "스캔을 시작할 수 없습니다", err)
	}
	return AcceptedResponse(c, "스캔을 시작했습니다", h.engine.View())
}

type approveRequest struct {
	Verdict domain.Verdict `json:"verdict"`
}

// Approve는 종목의 승인 상태를 바꿉니다
// POST /api/actions/approve/:ticker
func (h *Handler) Approve(c echo.Context) error {
	var req approveRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "잘못된 요청 형식입니다")
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.engine.Approve(ctx, c.Param("ticker"), req.Verdict); err != nil {
		return FailureResponse(c, "승인 상태를 전송하지 못했습니다", err)
	}
	return SuccessResponse(c, h.engine.View())
}

// RefreshMarket은 시장 상태를 다시 받아옵니다
// POST /api/actions/market/refresh
func (h *Handler) RefreshMarket(c echo.Context) error {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.engine.RefreshMarket(ctx); err != nil {
		return FailureResponse(c, "시장 상태를 불러오지 못했습니다", err)
	}
	return SuccessResponse(c, h.engine.View())
}

// LoadWatchlist는 관찰 리스트를 다시 받아옵니다
// POST /api/actions/watchlist/load
func (h *Handler) LoadWatchlist(c echo.Context) error {
	return h.run(c, "관찰 리스트를 불러오지 못했습니다", h.engine.LoadWatchlist)
}

// SetDraft는 입력 폼 값을 바꿉니다
// POST /api/actions/watchlist/draft
func (h *Handler) SetDraft(c echo.Context) error {
	var draft watchlist.Draft
	if err := c.Bind(&draft); err != nil {
		return BadRequestResponse(c, "잘못된 요청 형식입니다")
	}
	h.engine.SetDraft(draft)
	return SuccessResponse(c, h.engine.View())
}

// SubmitDraft는 입력 폼 값으로 관찰 종목을 추가합니다
// POST /api/actions/watchlist/draft/submit
func (h *Handler) SubmitDraft(c echo.Context) error {
	return h.run(c, "관찰 종목을 추가하지 못했습니다", h.engine.AddDraft)
}

// AddWatch는 요청 본문으로 관찰 종목을 추가합니다
// POST /api/actions/watchlist/add
func (h *Handler) AddWatch(c echo.Context) error {
	var req domain.AddWatchRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "잘못된 요청 형식입니다")
	}
	return h.run(c, "관찰 종목을 추가하지 못했습니다", func(ctx context.Context) error {
		return h.engine.AddWatch(ctx, req)
	})
}

// RemoveWatch는 관찰 종목을 삭제합니다
// DELETE /api/actions/watchlist/:ticker
func (h *Handler) RemoveWatch(c echo.Context) error {
	ticker := c.Param("ticker")
	return h.run(c, "관찰 종목을 삭제하지 못했습니다", func(ctx context.Context) error {
		return h.engine.RemoveWatch(ctx, ticker)
	})
}

// CheckWatchlist는 관찰 종목을 즉시 점검합니다
// POST /api/actions/watchlist/check
func (h *Handler) CheckWatchlist(c echo.Context) error {
	return h.run(c, "관찰 리스트를 점검하지 못했습니다", func(ctx context.Context) error {
		_, err := h.engine.CheckWatchlist(ctx)
		return err
	})
}

// StartMonitoring은 서버 측 주기 점검을 켭니다
// POST /api/actions/watchlist/monitor/start
func (h *Handler) StartMonitoring(c echo.Context) error {
	return h.run(c, "모니터링을 시작하지 못했습니다", h.engine.StartMonitoring)
}

// StopMonitoring은 서버 측 주기 점검을 끕니다
// POST /api/actions/watchlist/monitor/stop
func (h *Handler) StopMonitoring(c echo.Context) error {
	return h.run(c, "모니터링을 중지하지 못했습니다", h.engine.StopMonitoring)
}

// GetReport는 관찰 리스트 일일 보고서를 반환합니다
// GET /api/watchlist/report
func (h *Handler) GetReport(c echo.Context) error {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	report, err := h.engine.Report(ctx)
	if err != nil {
		return FailureResponse(c, "보고서를 불러오지 못했습니다", err)
	}
	return SuccessResponse(c, map[string]string{"report": report})
}

// GetStock은 한 종목의 전략 판별 결과를 반환합니다
// GET /api/stock/:ticker
func (h *Handler) GetStock(c echo.Context) error {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	result, err := h.engine.AnalyzeStock(ctx, c.Param("ticker"))
	if err != nil {
		return FailureResponse(c, "종목을 분석하지 못했습니다", err)
	}
	return SuccessResponse(c, result)
}

// run은 동작을 실행하고 성공하면 갱신된 화면을 반환합니다
func (h *Handler) run(c echo.Context, failure string, action func(ctx context.Context) error) error {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := action(ctx); err != nil {
		return FailureResponse(c, failure, err)
	}
	return SuccessResponse(c, h.engine.View())
}

// Health는 상태 확인 응답입니다
// GET /health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data: map[string]interface{}{
			"status":    "healthy",
			"service":   "quantdesk",
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}
