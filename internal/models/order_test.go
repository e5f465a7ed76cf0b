package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validLimit() OrderRequest {
	return OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     Buy,
		Type:     Limit,
		Quantity: dec("0.01"),
		Price:    dec("50000"),
	}
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, field, vErr.Field)
}

func TestValidateAcceptsWellFormedOrders(t *testing.T) {
	cases := []OrderRequest{
		{Symbol: "BTCUSDT", Side: Buy, Type: Market, Quantity: dec("0.01")},
		{Symbol: "BTCUSDT", Side: Sell, Type: Limit, Quantity: dec("0.01"), Price: dec("50000")},
		{Symbol: "BTCUSDT", Side: Sell, Type: StopLimit, Quantity: dec("0.01"), Price: dec("49000"), StopPrice: dec("49500")},
		{Symbol: "BTCUSDT", Side: Sell, Type: StopMarket, Quantity: dec("0.01"), StopPrice: dec("49500")},
		{Symbol: "BTCUSDT", Side: Sell, Type: TakeProfit, Quantity: dec("0.01"), Price: dec("52000"), StopPrice: dec("51500")},
		{Symbol: "BTCUSDT", Side: Sell, Type: TakeProfitMarket, Quantity: dec("0.01"), StopPrice: dec("51500")},
		{Symbol: "BTCUSDT", Side: Buy, Type: Limit, Quantity: dec("0.01"), Price: dec("50000"), TimeInForce: IOC},
	}
	for _, req := range cases {
		assert.NoError(t, req.Validate(), "type %s", req.Type)
	}
}

func TestValidateRejectsBadSide(t *testing.T) {
	req := validLimit()
	req.Side = "LONG"
	assertFieldError(t, req.Validate(), "side")
}

func TestValidateRejectsBadType(t *testing.T) {
	req := validLimit()
	req.Type = "trailing_stop"
	assertFieldError(t, req.Validate(), "type")
}

func TestValidateRejectsNonPositiveQuantity(t *testing.T) {
	req := validLimit()
	req.Quantity = decimal.Decimal{}
	assertFieldError(t, req.Validate(), "quantity")

	req.Quantity = dec("-1")
	assertFieldError(t, req.Validate(), "quantity")
}

func TestValidateRequiresPriceForLimitTypes(t *testing.T) {
	for _, typ := range []OrderType{Limit, StopLimit, TakeProfit} {
		req := OrderRequest{
			Symbol:    "BTCUSDT",
			Side:      Buy,
			Type:      typ,
			Quantity:  dec("0.01"),
			StopPrice: dec("49500"),
		}
		assertFieldError(t, req.Validate(), "price")
	}
}

func TestValidateRequiresStopPriceForStopTypes(t *testing.T) {
	for _, typ := range []OrderType{StopLimit, StopMarket, TakeProfit, TakeProfitMarket} {
		req := OrderRequest{
			Symbol:   "BTCUSDT",
			Side:     Buy,
			Type:     typ,
			Quantity: dec("0.01"),
			Price:    dec("50000"),
		}
		assertFieldError(t, req.Validate(), "stop_price")
	}
}

func TestValidateRejectsUnknownTimeInForce(t *testing.T) {
	req := validLimit()
	req.TimeInForce = "GTX"
	assertFieldError(t, req.Validate(), "time_in_force")
}

// Checks run in a fixed order; the first failure wins even when several
// fields are wrong.
func TestValidateReportsFirstFailure(t *testing.T) {
	req := OrderRequest{Symbol: "BTCUSDT", Side: "LONG", Type: "bad", TimeInForce: "GTX"}
	assertFieldError(t, req.Validate(), "side")

	req.Side = Buy
	assertFieldError(t, req.Validate(), "type")

	req.Type = Limit
	assertFieldError(t, req.Validate(), "quantity")
}
