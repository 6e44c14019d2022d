// Package api 借阅服务的HTTP客户端
//
// 每个方法对应服务端一个接口，错误统一转换成*apperrors.AppError：
//   - 服务端返回的业务错误按响应体里的code还原（如ErrAlreadyCheckedOut）
//   - 连接失败、超时 → ErrNetwork
//   - 响应不是JSON或缺少字段 → ErrMalformedResponse
//   - 熔断打开 → ErrServiceDegraded
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xiebiao/library/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const maxResponseSize = 1 << 20

// Client API客户端
type Client struct {
	base    string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBreaker 替换熔断器
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// New 创建客户端，timeout是单个请求的超时时间
func New(base string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = NewBreaker()
	}
	return c
}

// NewBreaker 默认熔断器：连续3次网络错误或服务端5xx后打开，30秒后探测
// 业务错误（借书冲突、密码错误）说明服务端正常，不计入失败
func NewBreaker() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker("library-api", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: isHealthyResult,
	})
}

func isHealthyResult(err error) bool {
	if err == nil {
		return true
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code < apperrors.ErrCodeInternal
}

// envelope 服务端统一响应结构
type envelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ListBooks GET /books
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if _, err := c.do(ctx, http.MethodGet, "/books", "", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// MyBooks POST /my-books
func (c *Client) MyBooks(ctx context.Context, token, userID string) ([]Book, error) {
	var books []Book
	if _, err := c.do(ctx, http.MethodPost, "/my-books", token, myBooksBody{UserID: userID}, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SaveBook PUT /book
func (c *Client) SaveBook(ctx context.Context, token string, req SaveBookRequest) (*SaveBookResult, error) {
	var result SaveBookResult
	status, msg, err := c.doStatus(ctx, http.MethodPut, "/book", token, req, &result.Book)
	if err != nil {
		return nil, err
	}
	if result.Book.ID == "" {
		return nil, malformed(fmt.Errorf("图书缺少id"))
	}
	result.Created = status == http.StatusCreated
	result.Message = msg
	return &result, nil
}

// Checkout PUT /checkout
func (c *Client) Checkout(ctx context.Context, token, bookID, userID string) (*CheckoutReceipt, error) {
	var receipt CheckoutReceipt
	if _, err := c.do(ctx, http.MethodPut, "/checkout", token, checkoutBody{BookID: bookID, UserID: userID}, &receipt); err != nil {
		return nil, err
	}
	if receipt.DueDate == "" {
		return nil, malformed(fmt.Errorf("借书回执缺少due_date"))
	}
	return &receipt, nil
}

// Return PUT /return
func (c *Client) Return(ctx context.Context, token, bookID, userID string) (*ReturnReceipt, error) {
	var receipt ReturnReceipt
	if _, err := c.do(ctx, http.MethodPut, "/return", token, checkoutBody{BookID: bookID, UserID: userID}, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// SignUp POST /signup
func (c *Client) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	var result SignUpResult
	if _, err := c.do(ctx, http.MethodPost, "/signup", "", credentials{Email: email, Password: password}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Authenticate POST /auth，返回Bearer Token
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	var token string
	if _, err := c.do(ctx, http.MethodPost, "/auth", "", credentials{Email: email, Password: password}, &token); err != nil {
		return "", err
	}
	if token == "" {
		return "", malformed(fmt.Errorf("登录响应缺少token"))
	}
	return token, nil
}

// Logout POST /logout
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", token, nil, nil)
	return err
}

// CurrentUser GET /user
func (c *Client) CurrentUser(ctx context.Context, token string) (*UserInfo, error) {
	var info UserInfo
	if _, err := c.do(ctx, http.MethodGet, "/user", token, nil, &info); err != nil {
		return nil, err
	}
	if info.UserID == "" {
		return nil, malformed(fmt.Errorf("用户信息缺少user_id"))
	}
	return &info, nil
}

// do 发送请求，返回响应里的message
// out不为nil时data必须存在
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) (string, error) {
	_, msg, err := c.doStatus(ctx, method, path, token, body, out)
	return msg, err
}

func (c *Client) doStatus(ctx context.Context, method, path, token string, body, out interface{}) (int, string, error) {
	var (
		status int
		msg    string
	)
	err := c.breaker.Execute(func() error {
		var err error
		status, msg, err = c.send(ctx, method, path, token, body, out)
		return err
	})
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		return 0, "", apperrors.ErrServiceDegraded
	}
	return status, msg, err
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out interface{}) (int, string, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, "", apperrors.Wrap(err, "请求序列化失败")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return 0, "", apperrors.Wrap(err, "创建请求失败")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", apperrors.WithCode(apperrors.ErrCodeNetwork, apperrors.ErrNetwork.Message, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, "", apperrors.WithCode(apperrors.ErrCodeNetwork, apperrors.ErrNetwork.Message, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return resp.StatusCode, "", malformed(fmt.Errorf("HTTP %d: %w", resp.StatusCode, err))
	}
	if env.Code == nil {
		return resp.StatusCode, "", malformed(fmt.Errorf("HTTP %d: 响应缺少code", resp.StatusCode))
	}

	if *env.Code != 0 {
		return resp.StatusCode, env.Message, &apperrors.AppError{Code: *env.Code, Message: env.Message}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, env.Message, malformed(fmt.Errorf("HTTP %d但code为0", resp.StatusCode))
	}

	if out != nil {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return resp.StatusCode, env.Message, malformed(fmt.Errorf("响应缺少data"))
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, env.Message, malformed(err)
		}
	}

	return resp.StatusCode, env.Message, nil
}

func malformed(err error) *apperrors.AppError {
	return apperrors.WithCode(apperrors.ErrCodeMalformedResponse, apperrors.ErrMalformedResponse.Message, err)
}
