package swaps

import (
	"encoding/json"
	"fmt"

	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// Env per invocation environment
type Env struct {
	Time int64 // unix seconds
}

// MessageInfo the caller and the funds attached to an invocation
type MessageInfo struct {
	Sender string       `json:"sender"`
	Funds  tokens.Coins `json:"funds,omitempty"`
}

// InstantiateMsg one-time setup
type InstantiateMsg struct {
	SwapContract     string `json:"swap_contract"`
	Governor         string `json:"governor"`
	RegistryContract string `json:"registry_contract"`
}

// ExecuteMsg tagged union, exactly one field must be set
type ExecuteMsg struct {
	OsmosisSwap       *SwapAndForwardMsg    `json:"osmosis_swap,omitempty"`
	Recover           *RecoverMsg           `json:"recover,omitempty"`
	TransferOwnership *TransferOwnershipMsg `json:"transfer_ownership,omitempty"`
	SetSwapContract   *SetSwapContractMsg   `json:"set_swap_contract,omitempty"`
	ForceRecover      *ForceRecoverMsg      `json:"force_recover,omitempty"`
}

// SwapAndForwardMsg swap the attached funds into OutputDenom and forward to Receiver
type SwapAndForwardMsg struct {
	OutputDenom      string                 `json:"output_denom"`
	Receiver         string                 `json:"receiver"`
	Slippage         tokens.Slippage        `json:"slippage"`
	NextMemo         json.RawMessage        `json:"next_memo,omitempty"`
	OnFailedDelivery FailedDeliveryPolicy   `json:"on_failed_delivery"`
	Route            []tokens.SwapRoutePool `json:"route,omitempty"`
	// Forward swap the funds as they arrived, even if the registry
	// knows an unwrap route for their denom
	Forward bool `json:"forward,omitempty"`
}

// RecoverMsg claim caller's recoverable balances
type RecoverMsg struct{}

// TransferOwnershipMsg change governor
type TransferOwnershipMsg struct {
	NewGovernor string `json:"new_governor"`
}

// SetSwapContractMsg change swap service address
type SetSwapContractMsg struct {
	NewContract string `json:"new_contract"`
}

// ForceRecoverMsg mark an in-flight transfer recoverable manually
type ForceRecoverMsg struct {
	Channel  string `json:"channel"`
	Sequence uint64 `json:"sequence"`
}

func (msg *ExecuteMsg) variants() int {
	count := 0
	if msg.OsmosisSwap != nil {
		count++
	}
	if msg.Recover != nil {
		count++
	}
	if msg.TransferOwnership != nil {
		count++
	}
	if msg.SetSwapContract != nil {
		count++
	}
	if msg.ForceRecover != nil {
		count++
	}
	return count
}

// SudoMsg transport layer lifecycle notification
type SudoMsg struct {
	IBCLifecycleComplete *IBCLifecycleComplete `json:"ibc_lifecycle_complete,omitempty"`
}

// IBCLifecycleComplete exactly one of ack or timeout
type IBCLifecycleComplete struct {
	IBCAck     *IBCAck     `json:"ibc_ack,omitempty"`
	IBCTimeout *IBCTimeout `json:"ibc_timeout,omitempty"`
}

// IBCAck acknowledgement of a forwarded transfer
type IBCAck struct {
	Channel  string `json:"channel"`
	Sequence uint64 `json:"sequence"`
	Ack      string `json:"ack"`
	Success  bool   `json:"success"`
}

// IBCTimeout timeout of a forwarded transfer
type IBCTimeout struct {
	Channel  string `json:"channel"`
	Sequence uint64 `json:"sequence"`
}

// FailedDeliveryPolicy what to do when the forwarded transfer fails.
// JSON form is either the string "recover" or an object with
// local_recovery_addr and/or alternate_receiver.
type FailedDeliveryPolicy struct {
	LocalRecoveryAddr string `json:"local_recovery_addr,omitempty"`
	AlternateReceiver string `json:"alternate_receiver,omitempty"`
}

const policyRecover = "recover"

type plainPolicy FailedDeliveryPolicy

// MarshalJSON json marshal
func (p FailedDeliveryPolicy) MarshalJSON() ([]byte, error) {
	if p.LocalRecoveryAddr == "" && p.AlternateReceiver == "" {
		return json.Marshal(policyRecover)
	}
	return json.Marshal(plainPolicy(p))
}

// UnmarshalJSON json unmarshal
func (p *FailedDeliveryPolicy) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name != policyRecover {
			return fmt.Errorf("%w: unsupported policy %q", ErrInvalidPolicy, name)
		}
		*p = FailedDeliveryPolicy{}
		return nil
	}
	var plain plainPolicy
	if err := json.Unmarshal(data, &plain); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	*p = FailedDeliveryPolicy(plain)
	return nil
}

// RecoveryAddr who can claim the funds if delivery fails
func (p FailedDeliveryPolicy) RecoveryAddr(sender string) string {
	if p.LocalRecoveryAddr != "" {
		return p.LocalRecoveryAddr
	}
	return sender
}

// ReplyID closed set of reply kinds
type ReplyID uint64

// reply ids
const (
	ReplyNone    ReplyID = 0
	ReplySwap    ReplyID = 1
	ReplyForward ReplyID = 2
	ReplyRecover ReplyID = 3
)

func (id ReplyID) String() string {
	switch id {
	case ReplyNone:
		return "None"
	case ReplySwap:
		return "Swap"
	case ReplyForward:
		return "Forward"
	case ReplyRecover:
		return "Recover"
	default:
		return fmt.Sprintf("ReplyID(%d)", uint64(id))
	}
}

// Reply result of a dispatched sub-message
type Reply struct {
	ID     ReplyID      `json:"id"`
	Token  uint64       `json:"token"`
	Result SubMsgResult `json:"result"`
}

// SubMsgResult either Ok or Err is set
type SubMsgResult struct {
	Ok  *SubMsgResponse `json:"ok,omitempty"`
	Err string          `json:"error,omitempty"`
}

// IsOk is success result
func (r *SubMsgResult) IsOk() bool {
	return r.Ok != nil && r.Err == ""
}

// SubMsgResponse data returned by the collaborator
type SubMsgResponse struct {
	Swap     *tokens.SwapResult     `json:"swap,omitempty"`
	Transfer *tokens.TransferResult `json:"transfer,omitempty"`
	BankSend *tokens.BankSend       `json:"bank_send,omitempty"`
}
