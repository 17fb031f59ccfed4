package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod represents how a payment was tendered
type PaymentMethod int

const (
	PaymentMethodCash   PaymentMethod = 0
	PaymentMethodMobile PaymentMethod = 1
	PaymentMethodBank   PaymentMethod = 2
	PaymentMethodOther  PaymentMethod = 3
)

func (m PaymentMethod) String() string {
	names := [...]string{"Cash", "Mobile", "Bank", "Other"}
	if m < 0 || int(m) >= len(names) {
		return "Unknown"
	}
	return names[m]
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i < int(PaymentMethodCash) || i > int(PaymentMethodOther) {
			return fmt.Errorf("unknown payment method %d", i)
		}
		*m = PaymentMethod(i)
		return nil
	}
	switch str {
	case "Cash":
		*m = PaymentMethodCash
	case "Mobile":
		*m = PaymentMethodMobile
	case "Bank":
		*m = PaymentMethodBank
	case "Other":
		*m = PaymentMethodOther
	default:
		return fmt.Errorf("unknown payment method %q", str)
	}
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
