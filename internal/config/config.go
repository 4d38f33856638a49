package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// 분석 서버 설정
	Remote struct {
		BaseURL            string        `envconfig:"ANALYSIS_SERVER_URL" default:"http://127.0.0.1:8000"`
		Timeout            time.Duration `envconfig:"REMOTE_TIMEOUT" default:"200s"`
		InitialLoadTimeout time.Duration `envconfig:"INITIAL_LOAD_TIMEOUT" default:"3s"`
		ProgressInterval   time.Duration `envconfig:"PROGRESS_INTERVAL" default:"800ms"`
	}

	// 대시보드 서버 설정
	Dashboard struct {
		Addr string `envconfig:"DASHBOARD_ADDR" default:":8080"`
	}

	// 알림 설정
	Toast struct {
		Duration time.Duration `envconfig:"TOAST_DURATION" default:"4s"`
		Fade     time.Duration `envconfig:"TOAST_FADE" default:"400ms"`
	}

	// 로그 설정
	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"console"`
		File   string `envconfig:"LOG_FILE"`
	}
}

// ValidateConfig는 설정이 유효한지 확인합니다.
func ValidateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.Remote.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ANALYSIS_SERVER_URL이 올바른 URL이 아닙니다: %q", cfg.Remote.BaseURL)
	}

	if cfg.Remote.Timeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT은 0보다 커야 합니다")
	}

	if cfg.Remote.InitialLoadTimeout <= 0 {
		return fmt.Errorf("INITIAL_LOAD_TIMEOUT은 0보다 커야 합니다")
	}

	if cfg.Remote.ProgressInterval < 100*time.Millisecond {
		return fmt.Errorf("PROGRESS_INTERVAL은 100ms 이상이어야 합니다")
	}

	if cfg.Toast.Duration <= 0 || cfg.Toast.Fade < 0 {
		return fmt.Errorf("TOAST_DURATION은 0보다 크고 TOAST_FADE는 음수가 아니어야 합니다")
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT은 console 또는 json 이어야 합니다: %q", cfg.Log.Format)
	}

	return nil
}

// LoadConfig는 환경변수에서 설정을 로드합니다.
// .env 파일은 없어도 됩니다
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env 파일 로드 실패: %w", err)
	}

	var cfg Config
	// 환경변수를 구조체로 파싱
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("환경변수 처리 실패: %w", err)
	}

	// 설정값 검증
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("설정값 검증 실패: %w", err)
	}

	return &cfg, nil
}
