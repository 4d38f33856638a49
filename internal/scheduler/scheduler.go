package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Task는 스케줄러가 실행할 작업을 정의하는 인터페이스입니다
type Task interface {
	Execute(ctx context.Context) error
}

// TaskFunc는 함수를 Task 로 사용할 수 있게 합니다
type TaskFunc func(ctx context.Context) error

// Execute는 함수를 호출합니다
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Scheduler는 초 단위 cron 표현식으로 작업을 실행합니다
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger
}

// NewScheduler는 새로운 스케줄러를 생성합니다.
// 이전 실행이 끝나지 않은 작업은 건너뜁니다
func NewScheduler(logger zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Register는 spec 주기로 실행될 작업을 등록합니다
func (s *Scheduler) Register(spec, name string, task Task) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := task.Execute(s.ctx); err != nil {
			// 에러가 발생해도 다음 주기는 계속 실행
			s.logger.Error().Err(err).Str("task", name).Msg("작업 실행 실패")
		}
	})
	if err != nil {
		return fmt.Errorf("%s 작업 등록 실패: %w", name, err)
	}
	return nil
}

// Start는 스케줄러를 시작하고 ctx 가 끝나면 중지합니다
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron.Start()
	s.logger.Info().Int("tasks", len(s.cron.Entries())).Msg("스케줄러 시작")

	select {
	case <-ctx.Done():
	case <-s.ctx.Done():
	}
	s.Stop()
	return ctx.Err()
}

// Stop은 스케줄러를 중지하고 실행 중인 작업이 끝날 때까지 기다립니다
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("스케줄러 중지")
}
