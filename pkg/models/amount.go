package models

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Amount is a decimal money value. It is stored in DynamoDB as a number
// attribute and rendered in JSON as a string to avoid float rounding.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// NewAmount parses a decimal string such as "1000" or "0.25".
func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustAmount is NewAmount for constants and tests.
func MustAmount(s string) Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromInt returns an integral amount.
func AmountFromInt(v int64) Amount {
	return Amount{d: decimal.NewFromInt(v)}
}

// AmountFromDecimal wraps a decimal value.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// MulBps multiplies by a basis-point rate (250 = 2.5%).
func (a Amount) MulBps(bps int64) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(bps)).Div(decimal.NewFromInt(10_000))}
}

func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) IsZero() bool { return a.d.IsZero() }

func (a Amount) IsPositive() bool { return a.d.IsPositive() }

func (a Amount) IsNegative() bool { return a.d.IsNegative() }

func (a Amount) String() string { return a.d.String() }

func (a Amount) MarshalJSON() ([]byte, error) {
	return a.d.MarshalJSON()
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		a.d = decimal.Decimal{}
		return nil
	}
	return a.d.UnmarshalJSON(b)
}

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler.
func (a Amount) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: a.d.String()}, nil
}

// UnmarshalDynamoDBAttributeValue implements attributevalue.Unmarshaler.
func (a *Amount) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	case *types.AttributeValueMemberNULL:
		a.d = decimal.Decimal{}
		return nil
	default:
		return fmt.Errorf("cannot unmarshal %T into Amount", av)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid stored amount %q: %w", raw, err)
	}
	a.d = d
	return nil
}
