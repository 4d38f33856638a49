package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/assist-by/quantdesk/internal/metrics"
)

// Server는 화면 트리와 사용자 동작을 HTTP/웹소켓으로 노출합니다
type Server struct {
	echo     *echo.Echo
	engine   Engine
	metrics  *metrics.Recorder
	logger   zerolog.Logger
	upgrader websocket.Upgrader
	addr     string
}

// Option은 서버 생성 옵션을 정의합니다
type Option func(*Server)

// WithAddr는 수신 주소를 설정합니다
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger는 로거를 설정합니다
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New는 새로운 화면 호스트를 생성합니다
func New(engine Engine, rec *metrics.Recorder, requestTimeout time.Duration, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		metrics: rec,
		logger:  zerolog.Nop(),
		addr:    ":8080",
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogging(s.logger))

	e.GET("/health", Health)
	e.GET("/metrics", echo.WrapHandler(rec.Handler()))
	e.GET("/ws", s.Stream)
	NewHandler(engine, requestTimeout).RegisterRoutes(e)

	s.echo = e
	return s
}

// Handler는 HTTP 핸들러를 반환합니다
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start는 서버를 시작합니다. Shutdown 으로 닫힐 때까지 반환하지 않습니다
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.addr).Msg("대시보드 서버 시작")
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("대시보드 서버 실행 실패: %w", err)
	}
	return nil
}

// Shutdown은 서버를 정상 종료합니다
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("대시보드 서버 종료 실패: %w", err)
	}
	s.logger.Info().Msg("대시보드 서버 종료")
	return nil
}

// requestLogging은 요청을 zerolog 로 기록합니다. /health, /metrics 는 건너뜁니다
func requestLogging(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if path == "/health" || path == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			logger.Debug().
				Str("method", c.Request().Method).
				Str("path", path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Msg("HTTP 요청")
			return err
		}
	}
}
