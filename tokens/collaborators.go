package tokens

import (
	"context"
	"errors"
	"math/big"
)

// collaborator errors
var (
	ErrRouteNotFound    = errors.New("no transfer route for denom")
	ErrServiceRejected  = errors.New("service rejected the request")
	ErrPacketNotFound   = errors.New("packet not found")
	ErrNoServiceAddress = errors.New("service address is not configured")
)

// Slippage accepted slippage of a swap, either a min output amount or a twap based percentage
type Slippage struct {
	MinOutputAmount string `json:"min_output_amount,omitempty"`
	Twap            *Twap  `json:"twap,omitempty"`
}

// Twap twap slippage, percentage is a decimal string (eg. "1", "0.5")
type Twap struct {
	SlippagePercentage string `json:"slippage_percentage"`
	WindowSeconds      uint64 `json:"window_seconds,omitempty"`
}

// SwapRoutePool one pool of a swap route hint
type SwapRoutePool struct {
	PoolID        uint64 `json:"pool_id"`
	TokenOutDenom string `json:"token_out_denom"`
}

// SwapRequest request to the swap service
type SwapRequest struct {
	Token       uint64          `json:"token"`
	Contract    string          `json:"contract"`
	Sender      string          `json:"sender"`
	InputCoin   Coin            `json:"input_coin"`
	OutputDenom string          `json:"output_denom"`
	Slippage    Slippage        `json:"slippage"`
	Route       []SwapRoutePool `json:"route,omitempty"`
}

// SwapResult result of a swap
type SwapResult struct {
	TokenOutDenom string   `json:"token_out_denom"`
	Amount        *big.Int `json:"amount"`
}

// SwapService the external swap executor
type SwapService interface {
	Swap(ctx context.Context, req *SwapRequest) (*SwapResult, error)
}

// TransferRequest cross-chain transfer request to the transport layer
type TransferRequest struct {
	Token            uint64 `json:"token"`
	SourcePort       string `json:"source_port"`
	SourceChannel    string `json:"source_channel"`
	Coin             Coin   `json:"coin"`
	Sender           string `json:"sender"`
	Receiver         string `json:"receiver"`
	Memo             string `json:"memo,omitempty"`
	TimeoutTimestamp uint64 `json:"timeout_timestamp"` // unix nano
}

// TransferResult the transport's own correlation key of a sent transfer
type TransferResult struct {
	Channel  string `json:"channel"`
	Sequence uint64 `json:"sequence"`
}

// PacketState delivery state of a transfer
type PacketState int

// packet states
const (
	PacketPending PacketState = iota
	PacketAcknowledged
	PacketTimedOut
)

// String string of packet state
func (s PacketState) String() string {
	switch s {
	case PacketPending:
		return "Pending"
	case PacketAcknowledged:
		return "Acknowledged"
	case PacketTimedOut:
		return "TimedOut"
	default:
		return "Unknown"
	}
}

// PacketStatus delivery status reported by the transport layer
type PacketStatus struct {
	State   PacketState `json:"state"`
	Success bool        `json:"success"`
	Ack     string      `json:"ack,omitempty"`
}

// Transport the cross-chain transport layer
type Transport interface {
	Transfer(ctx context.Context, req *TransferRequest) (*TransferResult, error)
	PacketStatus(ctx context.Context, channel string, sequence uint64) (*PacketStatus, error)
}

// BankSend release coins to an address on the local chain
type BankSend struct {
	Token     uint64 `json:"token"`
	ToAddress string `json:"to_address"`
	Amount    Coins  `json:"amount"`
}

// Bank local chain bank module
type Bank interface {
	Send(ctx context.Context, msg *BankSend) error
}

// Hop one channel of a transfer route.
// Receiver is the address used on the chain this hop departs from,
// it is ignored for the first hop.
type Hop struct {
	Port     string `json:"port"`
	Channel  string `json:"channel"`
	Receiver string `json:"receiver,omitempty"`
}

// Route the path to send a denom to its destination chain.
// A route with UnwrapsTo leads a multi-hop denom through its native chain
// back to the local chain, where it arrives as the UnwrapsTo denom.
type Route struct {
	Denom          string `json:"denom"`
	ReceiverPrefix string `json:"receiver_prefix,omitempty"`
	UnwrapsTo      string `json:"unwraps_to,omitempty"`
	Hops           []Hop  `json:"hops"`
}

// Registry resolves denominations to transfer routes
type Registry interface {
	ResolveRoute(denom string) (*Route, error)
}
