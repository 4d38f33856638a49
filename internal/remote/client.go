package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/assist-by/quantdesk/internal/domain"
)

// Observer는 원격 호출 하나가 끝날 때마다 호출됩니다
type Observer func(op string, elapsed time.Duration, err error)

// Client는 분석 서버 API 클라이언트를 구현합니다
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	observer   Observer
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient는 HTTP 클라이언트를 교체합니다
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger는 로거를 설정합니다
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithObserver는 호출 결과 관찰자를 설정합니다
func WithObserver(observer Observer) ClientOption {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient는 새로운 분석 서버 클라이언트를 생성합니다
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 200 * time.Second}, // 전 종목 스캔은 수 분이 걸립니다
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doRequest는 HTTP 요청을 실행하고 2xx 응답 본문을 반환합니다.
// 본문에 error 필드가 있는 비정상 응답은 KindRemote, 그 밖의 실패는 KindTransport 입니다
func (c *Client) doRequest(ctx context.Context, op, method, endpoint string, params url.Values, body interface{}) (data []byte, err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer(op, time.Since(start), err)
		}
	}()

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, domain.NewError(op, domain.KindTransport, fmt.Errorf("요청 직렬화 실패: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, domain.NewError(op, domain.KindTransport, fmt.Errorf("요청 생성 실패: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewError(op, domain.KindTransport, fmt.Errorf("API 요청 실패: %w", err))
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(op, domain.KindTransport, fmt.Errorf("응답 읽기 실패: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, domain.NewError(op, domain.KindRemote, errors.New(apiErr.Error))
		}
		return nil, domain.NewError(op, domain.KindTransport, fmt.Errorf("HTTP 에러(%d): %s", resp.StatusCode, string(data)))
	}

	c.logger.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("원격 호출 완료")
	return data, nil
}

// getJSON은 GET 요청 후 응답을 dest 로 디코딩합니다
func (c *Client) getJSON(ctx context.Context, op, endpoint string, params url.Values, dest interface{}) error {
	data, err := c.doRequest(ctx, op, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return domain.NewError(op, domain.KindTransport, fmt.Errorf("응답 파싱 실패: %w", err))
	}
	return nil
}

// Market은 시장 상태를 조회합니다
func (c *Client) Market(ctx context.Context) (*domain.MarketCondition, error) {
	var condition domain.MarketCondition
	if err := c.getJSON(ctx, "market", "/api/market", nil, &condition); err != nil {
		return nil, err
	}
	return &condition, nil
}

// Scan은 전체 스캔을 실행합니다. 응답의 error 필드는 호출자가 해석합니다
func (c *Client) Scan(ctx context.Context, params domain.ScanParams) (*domain.ScanResponse, error) {
	query := url.Values{}
	if params.MinMarketCap > 0 {
		query.Set("min_market_cap", strconv.FormatInt(params.MinMarketCap, 10))
	}
	if params.TopRank > 0 {
		query.Set("top_rank", strconv.Itoa(params.TopRank))
	}
	if len(params.Strategies) > 0 {
		query.Set("strats", strings.Join(params.Strategies, ","))
	}

	var result domain.ScanResponse
	if err := c.getJSON(ctx, "scan", "/api/scan", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Results는 새 스캔 없이 최근 결과를 조회합니다
func (c *Client) Results(ctx context.Context) (*domain.ScanResponse, error) {
	var result domain.ScanResponse
	if err := c.getJSON(ctx, "results", "/api/results", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Progress는 진행 중인 스캔의 진행률을 조회합니다
func (c *Client) Progress(ctx context.Context) (*domain.ScanProgress, error) {
	var progress domain.ScanProgress
	if err := c.getJSON(ctx, "progress", "/api/progress", nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// Stock은 한 종목에 대해 5대 전략을 모두 판별합니다
func (c *Client) Stock(ctx context.Context, ticker string) (*domain.StockAnalysis, error) {
	const op = "stock"

	var result domain.StockAnalysis
	if err := c.getJSON(ctx, op, "/api/stock/"+url.PathEscape(ticker), nil, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, domain.NewError(op, domain.KindRemote, errors.New(result.Error))
	}
	return &result, nil
}

// Approve는 매수 승인/관망 결정을 서버에 전달합니다
func (c *Client) Approve(ctx context.Context, ticker string, verdict domain.Verdict) error {
	body := map[string]string{"action": string(verdict)}
	_, err := c.doRequest(ctx, "approve", http.MethodPost, "/api/approve/"+url.PathEscape(ticker), nil, body)
	return err
}
