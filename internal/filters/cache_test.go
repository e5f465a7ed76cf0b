package filters

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"binance-futures-bot-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockMetadataSource counts how many times the exchange metadata is fetched.
type mockMetadataSource struct {
	calls int32
	info  *models.ExchangeInfo
	err   error
}

func (m *mockMetadataSource) GetExchangeInfo() (*models.ExchangeInfo, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

func testExchangeInfo() *models.ExchangeInfo {
	return &models.ExchangeInfo{
		Symbols: []models.SymbolInfo{
			{
				Symbol: "BTCUSDT",
				Filters: []models.Filter{
					{FilterType: "PRICE_FILTER", MinPrice: "0.01", MaxPrice: "1000000", TickSize: "0.01"},
					{FilterType: "LOT_SIZE", MinQty: "0.001", MaxQty: "1000", StepSize: "0.001"},
				},
			},
			{Symbol: "ETHUSDT"},
		},
	}
}

func TestEnsureLoadsOnce(t *testing.T) {
	src := &mockMetadataSource{info: testExchangeInfo()}
	cache := NewFilterCache(zap.NewNop())

	require.NoError(t, cache.Ensure(src, false))
	require.NoError(t, cache.Ensure(src, false))
	require.NoError(t, cache.Ensure(src, false))

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
	assert.True(t, cache.Loaded())
}

func TestEnsureForceReloads(t *testing.T) {
	src := &mockMetadataSource{info: testExchangeInfo()}
	cache := NewFilterCache(zap.NewNop())

	require.NoError(t, cache.Ensure(src, false))
	require.NoError(t, cache.Ensure(src, true))

	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls))
}

func TestEnsurePropagatesError(t *testing.T) {
	src := &mockMetadataSource{err: errors.New("network down")}
	cache := NewFilterCache(zap.NewNop())

	err := cache.Ensure(src, false)
	require.Error(t, err)
	assert.False(t, cache.Loaded())

	// A later attempt with a healthy source succeeds.
	src.err = nil
	src.info = testExchangeInfo()
	require.NoError(t, cache.Ensure(src, false))
	assert.True(t, cache.Loaded())
}

func TestEnsureConcurrentSingleLoad(t *testing.T) {
	src := &mockMetadataSource{info: testExchangeInfo()}
	cache := NewFilterCache(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Ensure(src, false))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestGetIsCaseInsensitive(t *testing.T) {
	src := &mockMetadataSource{info: testExchangeInfo()}
	cache := NewFilterCache(zap.NewNop())
	require.NoError(t, cache.Ensure(src, false))

	require.NotNil(t, cache.Get("BTCUSDT"))
	require.NotNil(t, cache.Get("btcusdt"))
	require.NotNil(t, cache.Get("BtcUsdt"))
	assert.Equal(t, "BTCUSDT", cache.Get("btcusdt").Symbol)
}

func TestGetUnknownSymbolReturnsNil(t *testing.T) {
	src := &mockMetadataSource{info: testExchangeInfo()}
	cache := NewFilterCache(zap.NewNop())
	require.NoError(t, cache.Ensure(src, false))

	assert.Nil(t, cache.Get("DOGEUSDT"))
}

func TestGetBeforeLoadReturnsNil(t *testing.T) {
	cache := NewFilterCache(zap.NewNop())
	assert.Nil(t, cache.Get("BTCUSDT"))
}
