package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentSource records which ledger operation produced a payment
type PaymentSource int

const (
	// PaymentSourceSale is the payment taken at the counter when a sale is finalized
	PaymentSourceSale PaymentSource = 0
	// PaymentSourceSettlement is an allocation made by the oldest-first settlement walk
	PaymentSourceSettlement PaymentSource = 1
	// PaymentSourceDirect is an ad hoc payment applied against a named sale
	PaymentSourceDirect PaymentSource = 2
)

func (s PaymentSource) String() string {
	names := [...]string{"Sale", "Settlement", "Direct"}
	if s < 0 || int(s) >= len(names) {
		return "Unknown"
	}
	return names[s]
}

func (s PaymentSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentSource) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i < int(PaymentSourceSale) || i > int(PaymentSourceDirect) {
			return fmt.Errorf("unknown payment source %d", i)
		}
		*s = PaymentSource(i)
		return nil
	}
	switch str {
	case "Sale":
		*s = PaymentSourceSale
	case "Settlement":
		*s = PaymentSourceSettlement
	case "Direct":
		*s = PaymentSourceDirect
	default:
		return fmt.Errorf("unknown payment source %q", str)
	}
	return nil
}

func (s PaymentSource) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentSource) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentSourceSale
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentSource(v)
	case int:
		*s = PaymentSource(v)
	}
	return nil
}
