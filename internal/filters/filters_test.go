package filters

import (
	"errors"
	"testing"

	"binance-futures-bot-go/internal/models"

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

func btcFilters() SymbolFilters {
	return SymbolFilters{
		Symbol:   "BTCUSDT",
		PriceMin: dec("0.01"),
		PriceMax: dec("1000000"),
		TickSize: dec("0.01"),
		QtyMin:   dec("0.001"),
		QtyMax:   dec("1000"),
		StepSize: dec("0.001"),
	}
}

func TestFromSymbolInfo(t *testing.T) {
	info := models.SymbolInfo{
		Symbol: "BTCUSDT",
		Filters: []models.Filter{
			{FilterType: "PRICE_FILTER", MinPrice: "0.01", MaxPrice: "1000000", TickSize: "0.01"},
			{FilterType: "LOT_SIZE", MinQty: "0.001", MaxQty: "1000", StepSize: "0.001"},
			{FilterType: "MIN_NOTIONAL", MinNotional: "5"},
		},
	}

	f := FromSymbolInfo(info)
	assert.Equal(t, "BTCUSDT", f.Symbol)
	assert.True(t, f.PriceMin.Equal(dec("0.01")))
	assert.True(t, f.PriceMax.Equal(dec("1000000")))
	assert.True(t, f.TickSize.Equal(dec("0.01")))
	assert.True(t, f.QtyMin.Equal(dec("0.001")))
	assert.True(t, f.QtyMax.Equal(dec("1000")))
	assert.True(t, f.StepSize.Equal(dec("0.001")))
}

func TestFromSymbolInfoMalformedEntriesAreSkipped(t *testing.T) {
	info := models.SymbolInfo{
		Symbol: "ETHUSDT",
		Filters: []models.Filter{
			{FilterType: "PRICE_FILTER", MinPrice: "not-a-number", MaxPrice: "100", TickSize: "0.01"},
			{FilterType: "LOT_SIZE", MinQty: "0.01", MaxQty: "500", StepSize: "0.01"},
		},
	}

	f := FromSymbolInfo(info)
	// The malformed price filter is dropped, defaults remain.
	assert.True(t, f.PriceMin.IsZero())
	assert.True(t, f.TickSize.Equal(decimal.NewFromInt(1)))
	// The well-formed lot filter is still applied.
	assert.True(t, f.StepSize.Equal(dec("0.01")))
}

func TestFromSymbolInfoNoFiltersDefaults(t *testing.T) {
	f := FromSymbolInfo(models.SymbolInfo{Symbol: "NEWUSDT"})
	assert.True(t, f.TickSize.Equal(decimal.NewFromInt(1)))
	assert.True(t, f.StepSize.Equal(decimal.NewFromInt(1)))
	assert.True(t, f.PriceMax.IsZero())
}

func TestValidatePrice(t *testing.T) {
	f := btcFilters()

	assert.True(t, f.ValidatePrice(dec("50000.00")))
	assert.True(t, f.ValidatePrice(dec("50000.07")))
	assert.True(t, f.ValidatePrice(dec("0.01")))

	// Off the tick grid.
	assert.False(t, f.ValidatePrice(dec("50000.075")))
	// Out of range.
	assert.False(t, f.ValidatePrice(dec("0.005")))
	assert.False(t, f.ValidatePrice(dec("2000000")))
}

func TestValidateExactMultipleOnly(t *testing.T) {
	f := SymbolFilters{TickSize: dec("0.001")}
	assert.True(t, f.ValidatePrice(dec("10.001")))
	assert.False(t, f.ValidatePrice(dec("10.0005")))
}

func TestValidateZeroQuantumSkipsGridCheck(t *testing.T) {
	f := SymbolFilters{PriceMin: dec("1"), PriceMax: dec("100")}

	// Any in-range value is valid without a tick size.
	assert.True(t, f.ValidatePrice(dec("3.14159")))
	// Bounds are still enforced.
	assert.False(t, f.ValidatePrice(dec("0.5")))
	assert.False(t, f.ValidatePrice(dec("200")))
}

func TestSnapPriceFloors(t *testing.T) {
	f := btcFilters()

	p, err := f.SnapPrice(dec("50000.075"))
	require.NoError(t, err)
	assert.Equal(t, "50000.07", p.String())

	// Already valid values are returned unchanged.
	p, err = f.SnapPrice(dec("50000.07"))
	require.NoError(t, err)
	assert.Equal(t, "50000.07", p.String())
}

func TestSnapQtyFloors(t *testing.T) {
	f := btcFilters()

	q, err := f.SnapQty(dec("0.0015"))
	require.NoError(t, err)
	assert.Equal(t, "0.001", q.String())
}

func TestSnapNeverExceedsInput(t *testing.T) {
	f := btcFilters()
	for _, raw := range []string{"0.0019", "0.123456", "999.9999", "0.001"} {
		v := dec(raw)
		snapped, err := f.SnapQty(v)
		require.NoError(t, err)
		assert.True(t, snapped.Cmp(v) <= 0, "snap(%s)=%s must not exceed input", raw, snapped)
		assert.True(t, f.ValidateQty(snapped), "snap(%s)=%s must be grid-valid", raw, snapped)

		// Snapping is idempotent.
		again, err := f.SnapQty(snapped)
		require.NoError(t, err)
		assert.True(t, again.Equal(snapped))
	}
}

func TestSnapRangeErrors(t *testing.T) {
	f := btcFilters()

	_, err := f.SnapPrice(dec("0.001"))
	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.True(t, rangeErr.Below)
	assert.Equal(t, "price", rangeErr.Field)

	_, err = f.SnapQty(dec("5000"))
	require.True(t, errors.As(err, &rangeErr))
	assert.False(t, rangeErr.Below)
	assert.Equal(t, "quantity", rangeErr.Field)
}

func TestSnapZeroQuantumReturnsInput(t *testing.T) {
	f := SymbolFilters{PriceMin: dec("1"), PriceMax: dec("100")}
	p, err := f.SnapPrice(dec("3.14159"))
	require.NoError(t, err)
	assert.True(t, p.Equal(dec("3.14159")))
}
