package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/assist-by/quantdesk/internal/domain"
)

// Watchlist는 관찰 리스트 전체를 조회합니다
func (c *Client) Watchlist(ctx context.Context) ([]domain.WatchlistItem, error) {
	var items []domain.WatchlistItem
	if err := c.getJSON(ctx, "watchlist", "/api/watchlist", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddWatch는 관찰 종목을 추가합니다. 이름이 비어 있으면 서버가 채웁니다
func (c *Client) AddWatch(ctx context.Context, req domain.AddWatchRequest) (*domain.AddWatchResponse, error) {
	const op = "watchlist.add"

	data, err := c.doRequest(ctx, op, http.MethodPost, "/api/watchlist/add", nil, req)
	if err != nil {
		return nil, err
	}

	var resp domain.AddWatchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, domain.NewError(op, domain.KindTransport, fmt.Errorf("응답 파싱 실패: %w", err))
	}
	if resp.Error != "" {
		return nil, domain.NewError(op, domain.KindRemote, errors.New(resp.Error))
	}
	return &resp, nil
}

// RemoveWatch는 관찰 종목을 제거합니다
func (c *Client) RemoveWatch(ctx context.Context, ticker string) error {
	_, err := c.doRequest(ctx, "watchlist.remove", http.MethodDelete, "/api/watchlist/"+url.PathEscape(ticker), nil, nil)
	return err
}

// CheckWatchlist는 전 종목 상태를 즉시 재점검합니다
func (c *Client) CheckWatchlist(ctx context.Context) ([]domain.CheckResult, error) {
	var results []domain.CheckResult
	if err := c.getJSON(ctx, "watchlist.check", "/api/watchlist/check", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// StartMonitoring은 서버 측 주기 점검을 시작합니다
func (c *Client) StartMonitoring(ctx context.Context) error {
	_, err := c.doRequest(ctx, "monitor.start", http.MethodPost, "/api/watchlist/monitor/start", nil, nil)
	return err
}

// StopMonitoring은 서버 측 주기 점검을 중지합니다
func (c *Client) StopMonitoring(ctx context.Context) error {
	_, err := c.doRequest(ctx, "monitor.stop", http.MethodPost, "/api/watchlist/monitor/stop", nil, nil)
	return err
}

// WatchlistReport는 서버가 만든 일일 요약 보고서를 조회합니다
func (c *Client) WatchlistReport(ctx context.Context) (string, error) {
	var resp struct {
		Report string `json:"report"`
	}
	if err := c.getJSON(ctx, "watchlist.report", "/api/watchlist/report", nil, &resp); err != nil {
		return "", err
	}
	return resp.Report, nil
}
