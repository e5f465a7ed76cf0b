package filters

import (
	"strings"
	"sync"

	"binance-futures-bot-go/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MetadataSource 提供交易所元数据。RESTClient 满足该接口，
// 窄接口便于在测试中替换（也避免对 exchange 包的依赖）。
type MetadataSource interface {
	GetExchangeInfo() (*models.ExchangeInfo, error)
}

// FilterCache 按交易对缓存约束模型。
// 单次元数据拉取填充全部交易对；加载后除非强制刷新不再访问网络。
// 由机器人实例持有，不做包级单例。
type FilterCache struct {
	mu     sync.RWMutex
	byName map[string]SymbolFilters
	loaded bool

	group  singleflight.Group
	logger *zap.Logger
}

// NewFilterCache 创建一个空缓存。
func NewFilterCache(logger *zap.Logger) *FilterCache {
	return &FilterCache{
		byName: make(map[string]SymbolFilters),
		logger: logger,
	}
}

// Ensure 保证缓存已加载。已加载且未要求强制刷新时直接返回。
// 并发调用通过 singleflight 合并为一次元数据拉取，所有调用方
// 观察到同一次加载的结果。
func (c *FilterCache) Ensure(src MetadataSource, force bool) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded && !force {
		return nil
	}

	_, err, _ := c.group.Do("exchangeInfo", func() (interface{}, error) {
		// 等待singleflight期间可能已有其他调用完成加载
		c.mu.RLock()
		loaded := c.loaded
		c.mu.RUnlock()
		if loaded && !force {
			return nil, nil
		}

		info, err := src.GetExchangeInfo()
		if err != nil {
			return nil, err
		}

		next := make(map[string]SymbolFilters, len(info.Symbols))
		for _, s := range info.Symbols {
			f := FromSymbolInfo(s)
			next[strings.ToUpper(f.Symbol)] = f
		}

		c.mu.Lock()
		c.byName = next
		c.loaded = true
		c.mu.Unlock()

		c.logger.Info("已加载交易对约束", zap.Int("symbols", len(next)))
		return nil, nil
	})
	return err
}

// Get 按交易对查找约束，大小写不敏感。
// 未知交易对或缓存未加载时返回 nil——调用方应跳过规范化而不是报错，
// 本地约束只是交易所侧校验之外的增强。
func (c *FilterCache) Get(symbol string) *SymbolFilters {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if f, ok := c.byName[strings.ToUpper(symbol)]; ok {
		return &f
	}
	return nil
}

// Loaded 报告缓存是否已完成过一次加载。
func (c *FilterCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}
