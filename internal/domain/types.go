package domain

// Strategy는 시그널이 태깅되는 5대 전략 리터럴입니다
type Strategy string

const (
	Pullback     Strategy = "눌림목"
	BottomEscape Strategy = "바닥탈출"
	GoldenCross  Strategy = "골든크로스"
	Breakout     Strategy = "박스권돌파"
	Convergence  Strategy = "정배열초입"
)

// Strategies는 전략 리터럴을 정의 순서대로 반환합니다
func Strategies() []Strategy {
	return []Strategy{Pullback, BottomEscape, GoldenCross, Breakout, Convergence}
}

// strategyKeys는 분석 서버가 allowed_strategies 에 사용하는 영문 키입니다
var strategyKeys = map[string]Strategy{
	"pullback":      Pullback,
	"bottom_escape": BottomEscape,
	"golden_cross":  GoldenCross,
	"breakout":      Breakout,
	"convergence":   Convergence,
}

// StrategyFromKey는 영문 전략 키를 전략 리터럴로 변환합니다
func StrategyFromKey(key string) (Strategy, bool) {
	s, ok := strategyKeys[key]
	return s, ok
}

// IsValid는 5대 전략 중 하나인지 확인합니다
func (s Strategy) IsValid() bool {
	for _, known := range Strategies() {
		if s == known {
			return true
		}
	}
	return false
}

// String은 전략 리터럴을 반환합니다
func (s Strategy) String() string {
	return string(s)
}

// Verdict는 시그널의 승인 상태입니다
type Verdict string

const (
	VerdictApproved Verdict = "매수 승인"
	VerdictWatch    Verdict = "관망"
)

// IsApproved는 매수 승인 상태인지 확인합니다
func (v Verdict) IsApproved() bool {
	return v == VerdictApproved
}

// Grade는 분석 서버가 부여한 교집합 등급입니다 (S, A, B+, B 또는 빈 값)
type Grade string

const (
	GradeS     Grade = "S"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
)

// WatchStatus는 관찰 종목의 상태 리터럴입니다
type WatchStatus string

const (
	StatusOK       WatchStatus = "정상"
	StatusWarn     WatchStatus = "경고"
	StatusNearStop WatchStatus = "손절임박"
	StatusStopHit  WatchStatus = "손절도달"
)

// MarketPhase는 시장 국면입니다
type MarketPhase string

const (
	PhaseBull    MarketPhase = "BULL"
	PhaseBear    MarketPhase = "BEAR"
	PhaseNeutral MarketPhase = "NEUTRAL"
)
