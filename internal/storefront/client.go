package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// =============================================================================
// Client — 店面(WooCommerce)库存API客户端
// 只封装本服务需要的库存读写，认证走consumer key/secret
// =============================================================================

// StockAPI 店面库存读写接口（同步协调器依赖此接口，测试时可替换）
type StockAPI interface {
	// GetStock 读取商品/变体当前库存，variantID为0表示商品本身
	GetStock(ctx context.Context, productID, variantID int64) (int64, error)
	// UpdateStock 写入新的库存值，返回店面确认后的库存
	UpdateStock(ctx context.Context, productID, variantID, quantity int64) (int64, error)
}

// Client 店面API客户端
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
}

// NewClient 创建店面客户端实例
func NewClient(baseURL, consumerKey, consumerSecret string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// stockPath 商品与变体使用不同的API路径
func stockPath(productID, variantID int64) string {
	if variantID != 0 {
		return fmt.Sprintf("/wp-json/wc/v3/products/%d/variations/%d", productID, variantID)
	}
	return fmt.Sprintf("/wp-json/wc/v3/products/%d", productID)
}

// stockRecord 店面返回的库存相关字段
type stockRecord struct {
	ID            int64  `json:"id"`
	StockQuantity *int64 `json:"stock_quantity"`
	StockStatus   string `json:"stock_status"`
}

func (c *Client) GetStock(ctx context.Context, productID, variantID int64) (int64, error) {
	var rec stockRecord
	if err := c.doRequest(ctx, http.MethodGet, stockPath(productID, variantID), nil, &rec); err != nil {
		return 0, err
	}
	if rec.StockQuantity == nil {
		return 0, nil
	}
	return *rec.StockQuantity, nil
}

func (c *Client) UpdateStock(ctx context.Context, productID, variantID, quantity int64) (int64, error) {
	body := map[string]interface{}{
		"stock_quantity": quantity,
		"manage_stock":   true,
	}
	var rec stockRecord
	if err := c.doRequest(ctx, http.MethodPut, stockPath(productID, variantID), body, &rec); err != nil {
		return 0, err
	}
	if rec.StockQuantity == nil {
		return quantity, nil
	}
	return *rec.StockQuantity, nil
}

// doRequest 执行店面API请求
// 自动添加认证参数，区分网络失败与店面拒绝（见errors.go）
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create storefront request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 传输层失败：可由用户重试
		return &APIError{Kind: ErrorKindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: ErrorKindNetwork, Message: err.Error()}
	}

	if resp.StatusCode >= 500 {
		return &APIError{Kind: ErrorKindNetwork, StatusCode: resp.StatusCode, Message: string(respBytes)}
	}
	if resp.StatusCode >= 400 {
		// 店面明确拒绝（记录不存在/被断开），不应自动重试
		return &APIError{Kind: ErrorKindRejected, StatusCode: resp.StatusCode, Message: storefrontMessage(respBytes)}
	}

	if result != nil {
		if err := json.Unmarshal(respBytes, result); err != nil {
			return fmt.Errorf("decode storefront response: %w", err)
		}
	}
	return nil
}

// storefrontMessage 尽量取出店面错误信息，取不到则原样返回
func storefrontMessage(body []byte) string {
	var e struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(body)
}
