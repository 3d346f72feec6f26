package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RESTGet get json result from url with default timeout
func RESTGet(result interface{}, url string) error {
	return RESTGetWithTimeout(context.Background(), defaultTimeout*time.Second, result, url)
}

// RESTGetWithTimeout get json result from url
func RESTGetWithTimeout(ctx context.Context, timeout time.Duration, result interface{}, url string) error {
	resp, err := NewRestyClient("", timeout).R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("GET request error: %w (url: %v)", err, url)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("error response status: %v (url: %v) %v", resp.StatusCode(), url, string(resp.Body()))
	}
	body := resp.Body()
	if int64(len(body)) > maxReadContentLength {
		return fmt.Errorf("response body too large: %d", len(body))
	}
	if err = json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal result error: %w", err)
	}
	return nil
}
