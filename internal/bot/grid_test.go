package bot

import (
	"testing"

	"binance-futures-bot-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridParams() GridParams {
	return GridParams{
		Symbol:    "BTCUSDT",
		Side:      models.Buy,
		Levels:    3,
		StepPct:   dec("1"),
		Quantity:  dec("0.01"),
		BasePrice: dec("50000"),
	}
}

func TestPlaceGridOrdersBuyLaddersDown(t *testing.T) {
	client := &mockClient{info: btcExchangeInfo()}
	b := newTestBot(liveConfig(), client)

	session, err := b.PlaceGridOrders(gridParams(), "test")
	require.NoError(t, err)
	require.Len(t, session.Levels, 3)

	assert.Equal(t, "BTCUSDT", session.Symbol)
	assert.Equal(t, "BUY", session.Side)
	assert.Equal(t, "50000", session.BasePrice)

	// 1% steps below the base price.
	assert.Equal(t, "49500", session.Levels[0].Price)
	assert.Equal(t, "49000", session.Levels[1].Price)
	assert.Equal(t, "48500", session.Levels[2].Price)

	for _, lv := range session.Levels {
		assert.True(t, lv.Success)
		assert.Equal(t, int64(12345), lv.OrderID)
	}
	assert.Equal(t, 3, client.placeCalls)
}

func TestPlaceGridOrdersSellLaddersUp(t *testing.T) {
	client := &mockClient{info: btcExchangeInfo()}
	b := newTestBot(liveConfig(), client)

	p := gridParams()
	p.Side = models.Sell
	session, err := b.PlaceGridOrders(p, "test")
	require.NoError(t, err)

	assert.Equal(t, "50500", session.Levels[0].Price)
	assert.Equal(t, "51000", session.Levels[1].Price)
	assert.Equal(t, "51500", session.Levels[2].Price)
}

func TestPlaceGridOrdersFetchesBasePrice(t *testing.T) {
	client := &mockClient{info: btcExchangeInfo(), price: dec("40000")}
	b := newTestBot(liveConfig(), client)

	p := gridParams()
	p.BasePrice = decimal.Decimal{}
	session, err := b.PlaceGridOrders(p, "test")
	require.NoError(t, err)
	assert.Equal(t, "40000", session.BasePrice)
}

func TestPlaceGridOrdersRejectsBadParams(t *testing.T) {
	b := newTestBot(liveConfig(), &mockClient{info: btcExchangeInfo()})

	p := gridParams()
	p.Levels = 0
	_, err := b.PlaceGridOrders(p, "test")
	assert.Error(t, err)

	p = gridParams()
	p.StepPct = decimal.Decimal{}
	_, err = b.PlaceGridOrders(p, "test")
	assert.Error(t, err)

	p = gridParams()
	p.Side = "LONG"
	_, err = b.PlaceGridOrders(p, "test")
	assert.Error(t, err)
}

// A single rejected level must not abort the remaining levels.
func TestPlaceGridOrdersLevelsFailIndependently(t *testing.T) {
	client := &mockClient{
		info: btcExchangeInfo(),
		placeErr: &models.APIError{
			StatusCode: 400, Code: -2010, Msg: "Account has insufficient balance",
		},
	}
	b := newTestBot(liveConfig(), client)

	session, err := b.PlaceGridOrders(gridParams(), "test")
	require.NoError(t, err)
	require.Len(t, session.Levels, 3)
	assert.Equal(t, 3, client.placeCalls)

	for _, lv := range session.Levels {
		assert.False(t, lv.Success)
		assert.Contains(t, lv.Error, "-2010")
	}
}

func TestPlaceGridOrdersDryRun(t *testing.T) {
	client := &mockClient{}
	b := newTestBot(&models.Config{DryRun: true}, client)

	session, err := b.PlaceGridOrders(gridParams(), "test")
	require.NoError(t, err)
	require.Len(t, session.Levels, 3)
	assert.Equal(t, 0, client.placeCalls)
	for _, lv := range session.Levels {
		assert.True(t, lv.Success)
	}
}
