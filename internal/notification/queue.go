package notification

import (
	"sync"
	"time"

	"github.com/creasty/defaults"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ScheduleFunc는 d 이후에 f 를 실행하도록 예약합니다
type ScheduleFunc func(d time.Duration, f func())

// Queue는 자동으로 사라지는 토스트 알림을 쌓아 둡니다.
// 개수 제한과 중복 제거는 하지 않습니다
type Queue struct {
	mu       sync.Mutex
	toasts   []*Toast
	schedule ScheduleFunc
	now      func() time.Time
	duration time.Duration
	fade     time.Duration
	onChange func()
	observer func(Severity)
	logger   zerolog.Logger
}

// QueueOption은 큐 생성 옵션을 정의합니다
type QueueOption func(*Queue)

// WithScheduler는 타이머 예약 함수를 교체합니다
func WithScheduler(schedule ScheduleFunc) QueueOption {
	return func(q *Queue) {
		q.schedule = schedule
	}
}

// WithClock은 현재 시각 함수를 교체합니다
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) {
		q.now = now
	}
}

// WithDuration은 기본 표시 시간을 설정합니다
func WithDuration(d time.Duration) QueueOption {
	return func(q *Queue) {
		q.duration = d
	}
}

// WithFade는 페이드 시간을 설정합니다
func WithFade(d time.Duration) QueueOption {
	return func(q *Queue) {
		q.fade = d
	}
}

// WithOnChange는 큐 내용이 바뀔 때마다 호출될 함수를 설정합니다
func WithOnChange(f func()) QueueOption {
	return func(q *Queue) {
		q.onChange = f
	}
}

// WithObserver는 알림이 추가될 때마다 심각도를 전달받을 함수를 설정합니다
func WithObserver(f func(Severity)) QueueOption {
	return func(q *Queue) {
		q.observer = f
	}
}

// WithLogger는 로거를 설정합니다
func WithLogger(logger zerolog.Logger) QueueOption {
	return func(q *Queue) {
		q.logger = logger
	}
}

// NewQueue는 새로운 알림 큐를 생성합니다
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		schedule: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		now:      time.Now,
		fade:     FadeDuration,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Notify는 기본 표시 시간으로 알림을 추가합니다
func (q *Queue) Notify(text string, severity Severity) {
	q.Enqueue(text, severity, Options{})
}

// Enqueue는 알림을 추가하고 등장, 퇴장, 제거를 차례로 예약합니다
func (q *Queue) Enqueue(text string, severity Severity, opts Options) Toast {
	if opts.Duration <= 0 {
		opts.Duration = q.duration
	}
	if err := defaults.Set(&opts); err != nil {
		opts.Duration = DefaultDuration
	}

	toast := &Toast{
		ID:        uuid.NewString(),
		Text:      text,
		Severity:  severity,
		CreatedAt: q.now(),
		Duration:  opts.Duration,
		Phase:     PhaseEntering,
	}

	q.mu.Lock()
	q.toasts = append(q.toasts, toast)
	snapshot := *toast
	q.mu.Unlock()

	q.logger.Debug().Str("severity", string(severity)).Str("text", text).Msg("알림 추가")
	if q.observer != nil {
		q.observer(severity)
	}
	q.changed()

	id := toast.ID
	q.schedule(0, func() { q.transition(id, PhaseEntering, PhaseShown) })
	q.schedule(opts.Duration, func() { q.dismiss(id) })

	return snapshot
}

// transition은 from 단계에 있는 토스트만 to 단계로 옮깁니다
func (q *Queue) transition(id string, from, to Phase) {
	q.mu.Lock()
	moved := false
	if t := q.find(id); t != nil && t.Phase == from {
		t.Phase = to
		moved = true
	}
	q.mu.Unlock()

	if moved {
		q.changed()
	}
}

func (q *Queue) dismiss(id string) {
	q.mu.Lock()
	found := false
	if t := q.find(id); t != nil && t.Phase != PhaseDismissing {
		t.Phase = PhaseDismissing
		found = true
	}
	q.mu.Unlock()

	if !found {
		return
	}
	q.changed()
	q.schedule(q.fade, func() { q.remove(id) })
}

func (q *Queue) remove(id string) {
	q.mu.Lock()
	removed := false
	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			removed = true
			break
		}
	}
	q.mu.Unlock()

	if removed {
		q.changed()
	}
}

func (q *Queue) find(id string) *Toast {
	for _, t := range q.toasts {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (q *Queue) changed() {
	if q.onChange != nil {
		q.onChange()
	}
}

// Snapshot은 현재 표시 중인 알림을 추가된 순서대로 반환합니다
func (q *Queue) Snapshot() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Toast, len(q.toasts))
	for i, t := range q.toasts {
		out[i] = *t
	}
	return out
}

// Len은 현재 큐에 남아 있는 알림 수를 반환합니다
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}
