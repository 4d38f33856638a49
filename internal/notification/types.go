package notification

import "time"

// Severity는 토스트 알림의 심각도입니다
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Phase는 토스트의 표시 단계입니다
type Phase string

const (
	PhaseEntering   Phase = "entering"
	PhaseShown      Phase = "shown"
	PhaseDismissing Phase = "dismissing"
)

const (
	// DefaultDuration은 토스트가 표시되는 기본 시간입니다
	DefaultDuration = 4000 * time.Millisecond
	// FadeDuration은 dismissing 이후 제거까지의 페이드 시간입니다
	FadeDuration = 400 * time.Millisecond
)

// Notifier는 상태 메시지 전달 인터페이스를 정의합니다
type Notifier interface {
	// Notify는 기본 표시 시간으로 알림을 추가합니다
	Notify(text string, severity Severity)
}

// Toast는 짧게 표시되는 상태 메시지입니다
type Toast struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Severity  Severity      `json:"severity"`
	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration"`
	Phase     Phase         `json:"phase"`
}

// Options는 개별 알림의 표시 옵션입니다
type Options struct {
	Duration time.Duration `default:"4s"`
}
