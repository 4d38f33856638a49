package domain

// MarketCondition은 분석 서버가 계산한 시장 상태 스냅샷입니다
type MarketCondition struct {
	KospiAboveMA5     bool        `json:"kospi_above_ma5" yaml:"kospi_above_ma5"`
	KosdaqAboveMA5    bool        `json:"kosdaq_above_ma5" yaml:"kosdaq_above_ma5"`
	KospiValue        float64     `json:"kospi_value" yaml:"kospi_value"`
	KospiMA5          float64     `json:"kospi_ma5" yaml:"kospi_ma5"`
	KosdaqValue       float64     `json:"kosdaq_value" yaml:"kosdaq_value"`
	KosdaqMA5         float64     `json:"kosdaq_ma5" yaml:"kosdaq_ma5"`
	MarketPhase       MarketPhase `json:"market_phase" yaml:"market_phase"`
	MaxWeight         float64     `json:"max_weight" yaml:"max_weight"`
	AllowedStrategies []string    `json:"allowed_strategies" yaml:"allowed_strategies"`
	Reasons           []string    `json:"reasons,omitempty" yaml:"reasons,omitempty"`
	Timestamp         string      `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}
