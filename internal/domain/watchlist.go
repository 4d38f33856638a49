package domain

// WatchlistItem은 관찰 중인 보유 종목입니다.
// status, pnl_pct, stop_loss_price 는 서버만 계산합니다
type WatchlistItem struct {
	Ticker        string      `json:"ticker"`
	Name          string      `json:"name"`
	BuyPrice      float64     `json:"buy_price"`
	Quantity      int         `json:"quantity"`
	AddedDate     string      `json:"added_date,omitempty"`
	StopLossPrice float64     `json:"stop_loss_price"`
	MA20Price     float64     `json:"ma20_price,omitempty"`
	CurrentPrice  float64     `json:"current_price"`
	PnLPct        float64     `json:"pnl_pct"`
	PnLAmount     float64     `json:"pnl_amount,omitempty"`
	Status        WatchStatus `json:"status"`
	LastChecked   string      `json:"last_checked,omitempty"`
	Reasons       []string    `json:"reasons,omitempty"`
}

// IsPriced는 현재가가 한 번이라도 갱신되었는지 확인합니다
func (w WatchlistItem) IsPriced() bool {
	return w.CurrentPrice != 0
}

// PrimaryReason은 첫 번째 근거를 반환합니다
func (w WatchlistItem) PrimaryReason() string {
	if len(w.Reasons) == 0 {
		return ""
	}
	return w.Reasons[0]
}

// CheckResult는 /api/watchlist/check 응답 원소입니다
type CheckResult struct {
	Item  WatchlistItem `json:"item"`
	Alert bool          `json:"alert"`
}

// AddWatchRequest는 /api/watchlist/add 요청 본문입니다
type AddWatchRequest struct {
	Ticker   string  `json:"ticker" validate:"required"`
	BuyPrice float64 `json:"buy_price" validate:"gt=0"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

// AddWatchResponse는 /api/watchlist/add 응답입니다
type AddWatchResponse struct {
	Error string `json:"error,omitempty"`
	WatchlistItem
}
