package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyFromString(t *testing.T) {
	m, err := MoneyFromString("1234.56")
	assert.NoError(t, err)
	assert.Equal(t, "1234.56", m.String())

	_, err = MoneyFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoneyArithmetic(t *testing.T) {
	a, _ := MoneyFromString("100.10")
	b, _ := MoneyFromString("0.20")

	assert.Equal(t, "100.3", a.Add(b).String())
	assert.True(t, a.IsPositive())
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
}

func TestMoneyPercent(t *testing.T) {
	premium := MoneyFromInt(10000)
	rate, _ := MoneyFromString("3.5")

	assert.Equal(t, "350", premium.Percent(rate).String())

	// fractional result rounds at 2dp
	odd, _ := MoneyFromString("333.33")
	got := odd.Percent(rate).Round2()
	assert.Equal(t, "11.67", got.String())
}

func TestMoneyRound2(t *testing.T) {
	m, _ := MoneyFromString("10.005")
	assert.Equal(t, "10.01", m.Round2().String())

	m, _ = MoneyFromString("10.004")
	assert.Equal(t, "10", m.Round2().String())
}

func TestMoneyNoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3
	a, _ := MoneyFromString("0.1")
	b, _ := MoneyFromString("0.2")
	want, _ := MoneyFromString("0.3")

	assert.True(t, a.Add(b).Equal(want))
}
