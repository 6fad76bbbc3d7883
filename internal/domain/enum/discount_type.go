package enum

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// DiscountType represents how a bill-level discount is applied
type DiscountType string

const (
	DiscountTypeAmount  DiscountType = "amount"
	DiscountTypePercent DiscountType = "percent"
)

// ParseDiscountType accepts the wire value of a discount type.
// An empty value means a flat amount, which is what the billing form defaults to.
func ParseDiscountType(s string) (DiscountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DiscountTypeAmount):
		return DiscountTypeAmount, nil
	case string(DiscountTypePercent):
		return DiscountTypePercent, nil
	default:
		return "", fmt.Errorf("unknown discount type %q", s)
	}
}

func (d DiscountType) String() string {
	return string(d)
}

// IsPercent reports whether the discount value is a percentage of the subtotal
func (d DiscountType) IsPercent() bool {
	return d == DiscountTypePercent
}

func (d DiscountType) Value() (driver.Value, error) {
	if d == "" {
		return string(DiscountTypeAmount), nil
	}
	return string(d), nil
}

func (d *DiscountType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = DiscountTypeAmount
	case string:
		*d = DiscountType(v)
	case []byte:
		*d = DiscountType(v)
	default:
		return fmt.Errorf("cannot scan %T into DiscountType", value)
	}
	return nil
}
