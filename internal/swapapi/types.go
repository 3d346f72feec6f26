package swapapi

import (
	"encoding/json"

	"github.com/anyswap/CrossChain-Swaps/mongodb"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
	"github.com/anyswap/CrossChain-Swaps/worker"
)

// OperationEvent type alias
type OperationEvent = mongodb.MgoOperationEvent

// Stats type alias
type Stats = worker.Stats

// ServerInfo server info
type ServerInfo struct {
	Identifier      string
	ContractAddress string
	Bech32Prefix    string
	Config          *swaps.Config
	HasHistory      bool
	Version         string
}

// VersionInfo version info
type VersionInfo struct {
	Version string
}

// OperationInfo operation info
type OperationInfo struct {
	ID         uint64                `json:"id"`
	Sender     string                `json:"sender"`
	Receiver   string                `json:"receiver"`
	Status     swaps.OperationStatus `json:"status"`
	StatusMsg  string                `json:"statusmsg"`
	InputCoin  tokens.Coin           `json:"input"`
	OutputCoin *tokens.Coin          `json:"output,omitempty"`
	Channel    string                `json:"channel,omitempty"`
	Sequence   uint64                `json:"sequence,omitempty"`
	Attempts   int                   `json:"attempts"`
	History    []swaps.StatusChange  `json:"history"`
	UpdatedAt  int64                 `json:"updatedat"`
}

// ResponseInfo result of an invocation
type ResponseInfo struct {
	Attributes map[string]string `json:"attributes"`
	Messages   []string          `json:"messages,omitempty"`
	Data       json.RawMessage   `json:"data,omitempty"`
}

// InflightInfo in-flight transfer info
type InflightInfo struct {
	OperationID uint64      `json:"operationid"`
	Channel     string      `json:"channel"`
	Sequence    uint64      `json:"sequence"`
	Receiver    string      `json:"receiver"`
	Coin        tokens.Coin `json:"coin"`
	Attempt     int         `json:"attempt"`
	Unwrap      bool        `json:"unwrap"`
}

// OutboxInfo undispatched message info
type OutboxInfo struct {
	Token     uint64 `json:"token"`
	Kind      string `json:"kind"`
	ReplyID   string `json:"replyid"`
	CreatedAt int64  `json:"createdat"`
	Attempts  int    `json:"attempts"`
	LastError string `json:"lasterror,omitempty"`
}
