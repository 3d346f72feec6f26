package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/anyswap/CrossChain-Swaps/tokens"
	"github.com/go-resty/resty/v2"
)

// service paths
const (
	swapPath         = "/swap"
	transferPath     = "/transfer"
	packetStatusPath = "/packet/{channel}/{sequence}"
	bankSendPath     = "/send"
	routePath        = "/route/{denom}"
)

// ErrorResponse error body returned by services
type ErrorResponse struct {
	Error string `json:"error"`
}

// checkResponse 4xx is a definitive rejection, others are transient
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}
	message := string(resp.Body())
	if errResp, ok := resp.Error().(*ErrorResponse); ok && errResp.Error != "" {
		message = errResp.Error
	}
	if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
		return fmt.Errorf("%w: status %v %v", tokens.ErrServiceRejected, resp.StatusCode(), message)
	}
	return fmt.Errorf("service error status %v %v", resp.StatusCode(), message)
}

func newRequest(ctx context.Context, c *resty.Client) *resty.Request {
	return c.R().SetContext(ctx).SetError(&ErrorResponse{})
}

// SwapServiceClient http swap service
type SwapServiceClient struct {
	client *resty.Client
}

var _ tokens.SwapService = (*SwapServiceClient)(nil)

// NewSwapServiceClient new swap service client
func NewSwapServiceClient(baseURL string, timeout time.Duration) *SwapServiceClient {
	return &SwapServiceClient{client: NewRestyClient(baseURL, timeout)}
}

// Swap impl tokens.SwapService
func (c *SwapServiceClient) Swap(ctx context.Context, req *tokens.SwapRequest) (*tokens.SwapResult, error) {
	var result tokens.SwapResult
	resp, err := newRequest(ctx, c.client).
		SetBody(req).
		SetResult(&result).
		Post(swapPath)
	if err = checkResponse(resp, err); err != nil {
		return nil, err
	}
	if result.Amount == nil {
		return nil, fmt.Errorf("swap service returns no amount for token %d", req.Token)
	}
	return &result, nil
}

// TransportClient http transport layer
type TransportClient struct {
	client *resty.Client
}

var _ tokens.Transport = (*TransportClient)(nil)

// NewTransportClient new transport client
func NewTransportClient(baseURL string, timeout time.Duration) *TransportClient {
	return &TransportClient{client: NewRestyClient(baseURL, timeout)}
}

// Transfer impl tokens.Transport
func (c *TransportClient) Transfer(ctx context.Context, req *tokens.TransferRequest) (*tokens.TransferResult, error) {
	var result tokens.TransferResult
	resp, err := newRequest(ctx, c.client).
		SetBody(req).
		SetResult(&result).
		Post(transferPath)
	if err = checkResponse(resp, err); err != nil {
		return nil, err
	}
	if result.Channel == "" {
		return nil, fmt.Errorf("transport returns no channel for token %d", req.Token)
	}
	return &result, nil
}

// PacketStatus impl tokens.Transport
func (c *TransportClient) PacketStatus(ctx context.Context, channel string, sequence uint64) (*tokens.PacketStatus, error) {
	var result tokens.PacketStatus
	resp, err := newRequest(ctx, c.client).
		SetPathParams(map[string]string{
			"channel":  channel,
			"sequence": strconv.FormatUint(sequence, 10),
		}).
		SetResult(&result).
		Get(packetStatusPath)
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %v/%d", tokens.ErrPacketNotFound, channel, sequence)
	}
	if err = checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// BankClient http bank module
type BankClient struct {
	client *resty.Client
}

var _ tokens.Bank = (*BankClient)(nil)

// NewBankClient new bank client
func NewBankClient(baseURL string, timeout time.Duration) *BankClient {
	return &BankClient{client: NewRestyClient(baseURL, timeout)}
}

// Send impl tokens.Bank
func (c *BankClient) Send(ctx context.Context, msg *tokens.BankSend) error {
	resp, err := newRequest(ctx, c.client).
		SetBody(msg).
		Post(bankSendPath)
	return checkResponse(resp, err)
}

// RegistryClient http denom registry
type RegistryClient struct {
	client  *resty.Client
	timeout time.Duration
}

var _ tokens.Registry = (*RegistryClient)(nil)

// NewRegistryClient new registry client
func NewRegistryClient(baseURL string, timeout time.Duration) *RegistryClient {
	if timeout <= 0 {
		timeout = defaultTimeout * time.Second
	}
	return &RegistryClient{client: NewRestyClient(baseURL, timeout), timeout: timeout}
}

// ResolveRoute impl tokens.Registry
func (c *RegistryClient) ResolveRoute(denom string) (*tokens.Route, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	var route tokens.Route
	resp, err := newRequest(ctx, c.client).
		SetPathParams(map[string]string{"denom": denom}).
		SetResult(&route).
		Get(routePath)
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: '%v'", tokens.ErrRouteNotFound, denom)
	}
	if err = checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &route, nil
}
