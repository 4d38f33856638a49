package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	osSignal "os/signal"
	"syscall"
	"time"

	"github.com/assist-by/quantdesk/internal/config"
	"github.com/assist-by/quantdesk/internal/dashboard"
	"github.com/assist-by/quantdesk/internal/domain"
	"github.com/assist-by/quantdesk/internal/logger"
	"github.com/assist-by/quantdesk/internal/metrics"
	"github.com/assist-by/quantdesk/internal/remote"
	"github.com/assist-by/quantdesk/internal/scheduler"
	"github.com/assist-by/quantdesk/internal/server"
)

func main() {
	// 명령줄 플래그 정의
	envFile := flag.String("env", ".env", ".env 파일 경로")
	scanOnStart := flag.Bool("scan", false, "시작 직후 전 종목 스캔 실행")
	flag.Parse()

	// 설정 로드
	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 로그 설정
	log, closer, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "로거 생성 실패: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	log.Info().Str("analysis_server", cfg.Remote.BaseURL).Msg("대시보드 시작...")

	// 컨텍스트 생성
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := metrics.New()

	// 분석 서버 클라이언트 생성
	client := remote.NewClient(
		cfg.Remote.BaseURL,
		remote.WithTimeout(cfg.Remote.Timeout),
		remote.WithLogger(log.With().Str("component", "remote").Logger()),
		remote.WithObserver(recorder.ObserveRemote),
	)

	kst, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		kst = time.FixedZone("KST", 9*60*60)
	}

	dash := dashboard.New(client, dashboard.Config{
		PollInterval:  cfg.Remote.ProgressInterval,
		LoadTimeout:   cfg.Remote.InitialLoadTimeout,
		ToastDuration: cfg.Toast.Duration,
		ToastFade:     cfg.Toast.Fade,
		Location:      kst,
		Logger:        log,
		OnScanOutcome: recorder.RecordScan,
		OnNotify:      recorder.RecordNotification,
	})

	// 최근 결과 또는 데모 데이터 로드
	origin := dash.Startup(ctx)
	log.Info().Str("origin", string(origin)).Msg("초기 데이터 로드 완료")

	if *scanOnStart {
		if err := dash.StartScan(ctx, domain.ScanParams{}); err != nil {
			log.Error().Err(err).Msg("스캔 시작 실패")
		}
	}

	// 1초 시계 등록
	sched := scheduler.NewScheduler(log.With().Str("component", "scheduler").Logger())
	if err := sched.Register(scheduler.EverySecond, "clock", dash.Clock()); err != nil {
		log.Fatal().Err(err).Msg("시계 작업 등록 실패")
	}
	go func() {
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("스케줄러 실행 중 에러 발생")
		}
	}()

	srv := server.New(dash, recorder, cfg.Remote.Timeout,
		server.WithAddr(cfg.Dashboard.Addr),
		server.WithLogger(log.With().Str("component", "server").Logger()),
	)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("서버 실행 중 에러 발생")
			cancel()
		}
	}()

	// 시그널 처리
	sigChan := make(chan os.Signal, 1)
	osSignal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("시스템 종료 신호 수신")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("서버 종료 실패")
	}

	cancel()

	log.Info().Msg("프로그램을 종료합니다.")
}
