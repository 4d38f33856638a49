package scan

// State는 스캔 세션의 상태입니다
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

// String은 상태의 문자열 표현을 반환합니다
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText는 JSON 직렬화 시 문자열을 사용하도록 합니다
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Caption은 스캔 중 오버레이에 표시되는 고정 문구입니다
const Caption = "전 종목 스캔 중입니다. 수 분이 걸릴 수 있습니다"

// Control은 스캔 버튼의 표시 상태입니다
type Control struct {
	Disabled bool `json:"disabled"`
	Busy     bool `json:"busy"`
}

// Overlay는 스캔 중 화면을 가리는 오버레이 상태입니다
type Overlay struct {
	Open    bool   `json:"open"`
	Caption string `json:"caption,omitempty"`
	Percent int    `json:"percent"`
	Message string `json:"message,omitempty"`
}

// Status는 오케스트레이터의 현재 표시 상태입니다
type Status struct {
	State       State   `json:"state"`
	LastOutcome State   `json:"last_outcome"`
	Control     Control `json:"control"`
	Overlay     Overlay `json:"overlay"`
}

// Origin은 초기 데이터의 출처입니다
type Origin string

const (
	OriginResults Origin = "results"
	OriginDemo    Origin = "demo"
)

// 스캔 결과 관찰자에 전달되는 값입니다
const (
	OutcomeSuccess        = "success"
	OutcomeRemoteError    = "remote_error"
	OutcomeTransportError = "transport_error"
)
