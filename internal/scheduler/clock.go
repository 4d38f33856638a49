package scheduler

import (
	"context"
	"sync"
	"time"
)

// EverySecond는 1초마다 실행되는 cron 표현식입니다
const EverySecond = "* * * * * *"

// Clock은 화면에 표시되는 현재 시각을 1초마다 갱신합니다.
// 다른 컴포넌트의 상태와는 무관합니다
type Clock struct {
	mu     sync.RWMutex
	now    func() time.Time
	loc    *time.Location
	last   time.Time
	onTick func(time.Time)
}

// NewClock은 새로운 시계를 생성합니다. loc 이 nil 이면 현지 시간대를 씁니다
func NewClock(loc *time.Location, onTick func(time.Time)) *Clock {
	if loc == nil {
		loc = time.Local
	}
	c := &Clock{now: time.Now, loc: loc, onTick: onTick}
	c.last = c.now().In(loc)
	return c
}

// Execute는 현재 시각을 기록합니다. Task 인터페이스를 구현합니다
func (c *Clock) Execute(ctx context.Context) error {
	t := c.now().In(c.loc)

	c.mu.Lock()
	c.last = t
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(t)
	}
	return nil
}

// Now는 마지막으로 기록된 시각을 반환합니다
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}
