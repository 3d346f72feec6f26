package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const defaultRequestID = 1

// RequestBody json-rpc request body
type RequestBody struct {
	Version string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int         `json:"id"`
}

// JSONError json-rpc error
type JSONError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (err *JSONError) Error() string {
	return fmt.Sprintf("json-rpc error %d, %s", err.Code, err.Message)
}

type jsonrpcResponse struct {
	Version string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Error   *JSONError      `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// RPCPost call json-rpc method with default timeout
func RPCPost(result interface{}, url, method string, params ...interface{}) error {
	return RPCPostWithTimeout(defaultTimeout, result, url, method, params...)
}

// RPCPostWithTimeout call json-rpc method, timeout is in seconds.
// The gorilla json2 server expects exactly one param object.
func RPCPostWithTimeout(timeout int, result interface{}, url, method string, params ...interface{}) error {
	return RPCPostWithHeaders(context.Background(), time.Duration(timeout)*time.Second, nil, result, url, method, params...)
}

// RPCPostWithHeaders call json-rpc method with extra headers
func RPCPostWithHeaders(ctx context.Context, timeout time.Duration, headers map[string]string, result interface{}, url, method string, params ...interface{}) error {
	reqBody := &RequestBody{
		Version: "2.0",
		Method:  method,
		Params:  params,
		ID:      defaultRequestID,
	}
	resp, err := NewRestyClient("", timeout).R().
		SetContext(ctx).
		SetHeaders(headers).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(url)
	if err != nil {
		return fmt.Errorf("post request error: %w (url: %v, method: %v)", err, url, method)
	}
	body := resp.Body()
	if int64(len(body)) > maxReadContentLength {
		return fmt.Errorf("response body too large: %d", len(body))
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("wrong response status %v. message: %v", resp.StatusCode(), string(body))
	}

	var jsonResp jsonrpcResponse
	if err = json.Unmarshal(body, &jsonResp); err != nil {
		return fmt.Errorf("unmarshal body error: %w", err)
	}
	if jsonResp.Error != nil {
		return jsonResp.Error
	}
	if err = json.Unmarshal(jsonResp.Result, result); err != nil {
		return fmt.Errorf("unmarshal result error: %w", err)
	}
	return nil
}
