package config

type Config struct {
	Trading  TradingConf  `json:"trading"`
	Pricing  PricingConf  `json:"pricing"`
	Exchange ExchangeConf `json:"exchange"`
	Fees     FeesConf     `json:"fees"`
	Events   EventsConf   `json:"events"`
	Telegram TelegramConf `json:"telegram"`
}

type TradingConf struct {
	QuoteTimeoutSeconds int `json:"quote_timeout_seconds"` // 行情/费率查询超时（秒），默认5
}

type PricingConf struct {
	DriftIntervalSeconds int     `json:"drift_interval_seconds"` // 价格漂移周期（秒），默认30
	DriftPercent         float64 `json:"drift_percent"`          // 单次最大漂移幅度（±%），默认2
}

type ExchangeConf struct {
	DriftIntervalSeconds int     `json:"drift_interval_seconds"` // 汇率漂移周期（秒），默认60
	DriftPercent         float64 `json:"drift_percent"`          // 单次最大漂移幅度（±%），默认0.5
}

type FeesConf struct {
	TradingFixedFee    string `json:"trading_fixed_fee"`   // 默认交易固定费用，默认 0.50
	TradingPercentage  string `json:"trading_percentage"`  // 默认交易费率，默认 0.01
	ExchangeFixedFee   string `json:"exchange_fixed_fee"`  // 默认兑换固定费用，默认 0.25
	ExchangePercentage string `json:"exchange_percentage"` // 默认兑换费率，默认 0.005
}

type EventsConf struct {
	BufferSize int `json:"buffer_size"` // 每个订阅者的事件缓冲区大小，默认256
	MaxRetries int `json:"max_retries"` // 处理失败的最大重试次数，默认3
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}
