package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"binance-futures-bot-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RESTClient 实现了 Client 接口，通过签名的REST请求与币安期货API交互。
type RESTClient struct {
	apiKey     string
	secretKey  string
	baseURL    string
	recvWindow int64
	httpClient *http.Client
	logger     *zap.Logger
	timeOffset int64
}

// NewRESTClient 创建一个新的 RESTClient 实例。构造时不访问网络。
func NewRESTClient(apiKey, secretKey, baseURL string, recvWindow int64, logger *zap.Logger) *RESTClient {
	if recvWindow <= 0 {
		recvWindow = 5000
	}
	return &RESTClient{
		apiKey:     apiKey,
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		recvWindow: recvWindow,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// SyncTime 与币安服务器同步时间，计算本地时钟偏移。
// 签名请求的时间戳会加上该偏移，避免 recvWindow 校验失败。
func (c *RESTClient) SyncTime() error {
	serverTime, err := c.GetServerTime()
	if err != nil {
		return err
	}
	c.timeOffset = serverTime - time.Now().UnixMilli()
	c.logger.Info("与币安服务器时间同步完成", zap.Int64("timeOffset_ms", c.timeOffset))
	return nil
}

// sign 对规范化编码后的参数串计算HMAC-SHA256签名。
func (c *RESTClient) sign(payload string) string {
	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// doRequest 是通用的请求处理函数。签名请求会注入时间戳和recvWindow（若未提供），
// 并在URL编码后的参数串上附加signature。
// 响应分类：HTTP状态码 >= 400，或响应体携带负数错误码，返回 *models.APIError；
// 无法解析的响应体不视为错误，由上层按原始文本处理。
func (c *RESTClient) doRequest(method, endpoint string, params url.Values, signed bool) ([]byte, error) {
	queryParams := url.Values{}
	for k, v := range params {
		queryParams[k] = v
	}

	var encodedParams string
	if signed {
		if queryParams.Get("timestamp") == "" {
			queryParams.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli()+c.timeOffset, 10))
		}
		if queryParams.Get("recvWindow") == "" {
			queryParams.Set("recvWindow", strconv.FormatInt(c.recvWindow, 10))
		}
		payload := queryParams.Encode()
		encodedParams = payload + "&signature=" + c.sign(payload)
	} else {
		encodedParams = queryParams.Encode()
	}

	fullURL := c.baseURL + endpoint

	var req *http.Request
	var err error
	if method == http.MethodGet || method == http.MethodDelete {
		if encodedParams != "" {
			fullURL = fullURL + "?" + encodedParams
		}
		c.logger.Debug("发送请求", zap.String("method", method), zap.String("url", fullURL))
		req, err = http.NewRequest(method, fullURL, nil)
	} else {
		c.logger.Debug("发送请求", zap.String("method", method), zap.String("endpoint", endpoint), zap.String("body", encodedParams))
		req, err = http.NewRequest(method, fullURL, strings.NewReader(encodedParams))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	req.Header.Set("X-MBX-APIKEY", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("执行请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if apiErr := classify(resp.StatusCode, body); apiErr != nil {
		c.logger.Error("交易所返回错误",
			zap.Int("status", apiErr.StatusCode),
			zap.Int("code", apiErr.Code),
			zap.String("msg", apiErr.Msg))
		return body, apiErr
	}

	return body, nil
}

// classify 将HTTP响应分类为成功或 *models.APIError。
func classify(statusCode int, body []byte) *models.APIError {
	var parsed struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	parseOK := json.Unmarshal(body, &parsed) == nil

	if statusCode < 400 && (!parseOK || parsed.Code >= 0) {
		return nil
	}

	apiErr := &models.APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}
	if parseOK {
		apiErr.Code = parsed.Code
		apiErr.Msg = parsed.Msg
	}
	if apiErr.Msg == "" {
		apiErr.Msg = string(body)
	}
	return apiErr
}

// --- Client 接口实现 ---

// Ping 测试REST连通性。
func (c *RESTClient) Ping() error {
	_, err := c.doRequest(http.MethodGet, "/fapi/v1/ping", nil, false)
	return err
}

// GetServerTime 获取服务器时间（毫秒）。
func (c *RESTClient) GetServerTime() (int64, error) {
	data, err := c.doRequest(http.MethodGet, "/fapi/v1/time", nil, false)
	if err != nil {
		return 0, err
	}
	var serverTime struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(data, &serverTime); err != nil {
		return 0, fmt.Errorf("解析服务器时间失败: %w", err)
	}
	return serverTime.ServerTime, nil
}

// GetExchangeInfo 获取全部交易对的交易规则。
func (c *RESTClient) GetExchangeInfo() (*models.ExchangeInfo, error) {
	data, err := c.doRequest(http.MethodGet, "/fapi/v1/exchangeInfo", nil, false)
	if err != nil {
		return nil, err
	}
	var info models.ExchangeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("解析交易规则失败: %w", err)
	}
	return &info, nil
}

// PlaceOrder 下单。参数由上层流水线构造，这里只负责签名发送和结果解析。
// 响应体无法解析为JSON对象时，按原始文本包装返回而不报错。
func (c *RESTClient) PlaceOrder(params url.Values) (map[string]interface{}, error) {
	data, err := c.doRequest(http.MethodPost, "/fapi/v1/order", params, true)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if json.Unmarshal(data, &raw) != nil {
		raw = map[string]interface{}{"raw": string(data)}
	}
	return raw, nil
}

// GetBalances 获取账户全部资产的余额。
func (c *RESTClient) GetBalances() ([]models.Balance, error) {
	data, err := c.doRequest(http.MethodGet, "/fapi/v2/balance", nil, true)
	if err != nil {
		return nil, err
	}
	var balances []models.Balance
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, fmt.Errorf("解析余额数据失败: %w", err)
	}
	return balances, nil
}

// GetAccountInfo 获取账户信息。
func (c *RESTClient) GetAccountInfo() (*models.AccountInfo, error) {
	data, err := c.doRequest(http.MethodGet, "/fapi/v2/account", nil, true)
	if err != nil {
		return nil, err
	}
	var accInfo models.AccountInfo
	if err := json.Unmarshal(data, &accInfo); err != nil {
		return nil, fmt.Errorf("解析账户信息失败: %w", err)
	}
	return &accInfo, nil
}

// GetPositions 获取持仓信息，过滤掉数量为零的条目。
// symbol 为空时返回全部交易对的持仓。
func (c *RESTClient) GetPositions(symbol string) ([]models.Position, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", strings.ToUpper(symbol))
	}
	data, err := c.doRequest(http.MethodGet, "/fapi/v2/positionRisk", params, true)
	if err != nil {
		return nil, err
	}

	var positions []models.Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("解析持仓数据失败: %w", err)
	}

	var active []models.Position
	for _, p := range positions {
		amt, _ := strconv.ParseFloat(p.PositionAmt, 64)
		if amt != 0 {
			active = append(active, p)
		}
	}
	return active, nil
}

// GetPrice 获取指定交易对的最新成交价。
func (c *RESTClient) GetPrice(symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	data, err := c.doRequest(http.MethodGet, "/fapi/v1/ticker/price", params, false)
	if err != nil {
		return decimal.Decimal{}, err
	}

	var ticker struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(data, &ticker); err != nil {
		return decimal.Decimal{}, fmt.Errorf("解析行情数据失败: %w", err)
	}

	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("解析价格 %q 失败: %w", ticker.Price, err)
	}
	return price, nil
}
