package scan

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/assist-by/quantdesk/internal/domain"
)

//go:embed demo.yaml
var demoYAML []byte

// DemoDataset은 서버 없이 화면을 띄우기 위한 내장 데모 데이터를 반환합니다.
// 시그널 6개, 시장 상태 1개, 요약 1개로 구성됩니다
func DemoDataset() (*domain.ScanResponse, error) {
	var resp domain.ScanResponse
	if err := yaml.Unmarshal(demoYAML, &resp); err != nil {
		return nil, fmt.Errorf("데모 데이터 파싱 실패: %w", err)
	}
	return &resp, nil
}
