package models

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is a fixed-point monetary value. It wraps decimal.Decimal so that
// fee arithmetic never drifts the way float64 would, and stores as
// Decimal128 in MongoDB.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func MoneyFromInt(n int64) Money {
	return Money{Decimal: decimal.NewFromInt(n)}
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Round2 rounds half away from zero to 2 decimal places.
func (m Money) Round2() Money {
	return Money{Decimal: m.Decimal.Round(2)}
}

// Percent returns m * p / 100.
func (m Money) Percent(p Money) Money {
	return Money{Decimal: m.Decimal.Mul(p.Decimal).Div(decimal.NewFromInt(100))}
}

func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(m.Decimal.String())
	if err != nil {
		return bsontype.Null, nil, err
	}
	return bson.MarshalValue(d128)
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var d128 primitive.Decimal128
	if err := bson.UnmarshalValue(t, data, &d128); err != nil {
		return err
	}
	d, err := decimal.NewFromString(d128.String())
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}
