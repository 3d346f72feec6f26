package swaps

import (
	"encoding/json"
	"fmt"

	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// CosmosMsg outbound message, exactly one field is set
type CosmosMsg struct {
	Swap     *tokens.SwapRequest     `json:"swap,omitempty"`
	Transfer *tokens.TransferRequest `json:"transfer,omitempty"`
	BankSend *tokens.BankSend        `json:"bank_send,omitempty"`
}

// Kind message kind name
func (m *CosmosMsg) Kind() string {
	switch {
	case m.Swap != nil:
		return "swap"
	case m.Transfer != nil:
		return "transfer"
	case m.BankSend != nil:
		return "bank_send"
	default:
		return "empty"
	}
}

// SubMsg message to dispatch after the invocation is committed.
// If ReplyID is not ReplyNone, the result must come back through Reply with Token.
type SubMsg struct {
	Token   uint64    `json:"token"`
	ReplyID ReplyID   `json:"reply_id"`
	Msg     CosmosMsg `json:"msg"`
}

// Attribute key value pair
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// OperationEvent emitted on every operation status change
type OperationEvent struct {
	OperationID uint64          `json:"operation_id"`
	Sender      string          `json:"sender"`
	Status      OperationStatus `json:"status"`
	Detail      string          `json:"detail,omitempty"`
	Timestamp   int64           `json:"timestamp"`
}

// Response result of an invocation
type Response struct {
	Messages   []SubMsg         `json:"messages,omitempty"`
	Attributes []Attribute      `json:"attributes,omitempty"`
	Events     []OperationEvent `json:"events,omitempty"`
	Data       json.RawMessage  `json:"data,omitempty"`
}

// NewResponse new response
func NewResponse() *Response {
	return &Response{}
}

// AddAttribute add attribute
func (r *Response) AddAttribute(key string, value interface{}) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: fmt.Sprint(value)})
	return r
}

// AddMessage add sub message
func (r *Response) AddMessage(msg SubMsg) *Response {
	r.Messages = append(r.Messages, msg)
	return r
}

// Attribute get first attribute value of key
func (r *Response) Attribute(key string) (string, bool) {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}
