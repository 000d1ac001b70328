package events

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/laoyang/quanta/internal/models"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// 领域事件契约。事件是已发生事实，不可变；
// 投递语义为至少一次，消费方必须按 eventId 或 (类型, 关联实体ID) 幂等。

const (
	TopicWallet  = "wallet-events"
	TopicTrading = "trading-events"
)

// 事件类型判别值，编码在信封的 @type 字段
const (
	TypeUserCreated         = "UserCreated"
	TypeWalletUpdated       = "WalletUpdated"
	TypeDepositCompleted    = "DepositCompleted"
	TypeWithdrawalCompleted = "WithdrawalCompleted"
	TypeCurrencyExchanged   = "CurrencyExchanged"
	TypeTradeCompleted      = "TradeCompleted"
	TypeTradeFailed         = "TradeFailed"
)

// Event 封闭事件集合的统一接口
type Event interface {
	Type() string
	ID() string
}

// Base 事件信封公共字段
type Base struct {
	EventID   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBase 生成新事件的信封字段
func NewBase() Base {
	return Base{
		EventID:   ulid.Make().String(),
		Timestamp: time.Now(),
	}
}

func (b Base) ID() string { return b.EventID }

type UserCreated struct {
	Base
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (UserCreated) Type() string { return TypeUserCreated }

// WalletUpdated 余额快照事件，每次余额变动后发出
type WalletUpdated struct {
	Base
	UserID     string          `json:"userId"`
	Currency   models.Currency `json:"currency"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

func (WalletUpdated) Type() string { return TypeWalletUpdated }

type DepositCompleted struct {
	Base
	UserID   string          `json:"userId"`
	Currency models.Currency `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (DepositCompleted) Type() string { return TypeDepositCompleted }

type WithdrawalCompleted struct {
	Base
	UserID   string          `json:"userId"`
	Currency models.Currency `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (WithdrawalCompleted) Type() string { return TypeWithdrawalCompleted }

type CurrencyExchanged struct {
	Base
	UserID       string          `json:"userId"`
	FromCurrency models.Currency `json:"fromCurrency"`
	ToCurrency   models.Currency `json:"toCurrency"`
	FromAmount   decimal.Decimal `json:"fromAmount"`
	ToAmount     decimal.Decimal `json:"toAmount"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Fees         decimal.Decimal `json:"fees"`
}

func (CurrencyExchanged) Type() string { return TypeCurrencyExchanged }

type TradeCompleted struct {
	Base
	TradeID      string           `json:"tradeId"`
	UserID       string           `json:"userId"`
	Symbol       string           `json:"symbol"`
	TradeType    models.TradeType `json:"tradeType"`
	Quantity     decimal.Decimal  `json:"quantity"`
	PricePerUnit decimal.Decimal  `json:"pricePerUnit"`
	Currency     models.Currency  `json:"currency"`
	TotalAmount  decimal.Decimal  `json:"totalAmount"`
	Fees         decimal.Decimal  `json:"fees"`
}

func (TradeCompleted) Type() string { return TypeTradeCompleted }

type TradeFailed struct {
	Base
	TradeID string `json:"tradeId"`
	UserID  string `json:"userId"`
	Reason  string `json:"reason"`
}

func (TradeFailed) Type() string { return TypeTradeFailed }

// Encode 将事件编码为带 @type 判别字段的JSON信封
func Encode(evt Event) ([]byte, error) {
	data, err := sonic.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", evt.Type(), err)
	}

	var envelope map[string]interface{}
	if err := sonic.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	envelope["@type"] = evt.Type()

	return sonic.Marshal(envelope)
}

// Decode 按 @type 判别字段还原具体事件类型
func Decode(data []byte) (Event, error) {
	var probe struct {
		Type string `json:"@type"`
	}
	if err := sonic.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("malformed event envelope: %w", err)
	}

	var evt Event
	switch probe.Type {
	case TypeUserCreated:
		evt = &UserCreated{}
	case TypeWalletUpdated:
		evt = &WalletUpdated{}
	case TypeDepositCompleted:
		evt = &DepositCompleted{}
	case TypeWithdrawalCompleted:
		evt = &WithdrawalCompleted{}
	case TypeCurrencyExchanged:
		evt = &CurrencyExchanged{}
	case TypeTradeCompleted:
		evt = &TradeCompleted{}
	case TypeTradeFailed:
		evt = &TradeFailed{}
	default:
		return nil, fmt.Errorf("unknown event type: %q", probe.Type)
	}

	if err := sonic.Unmarshal(data, evt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event: %w", probe.Type, err)
	}
	return evt, nil
}
