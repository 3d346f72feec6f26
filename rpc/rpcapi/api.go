// Package rpcapi provides the json rpc service of the swaps server.
package rpcapi

import (
	"net/http"

	"github.com/anyswap/CrossChain-Swaps/internal/swapapi"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// RelayerKeyHeader header carrying the relayer key of mutating calls
const RelayerKeyHeader = "X-Relayer-Key"

// RPCAPI rpc api handler
type RPCAPI struct{}

// RPCNullArgs null args
type RPCNullArgs struct{}

func checkRelayer(r *http.Request) error {
	return swapapi.CheckRelayer(r.Header.Get(RelayerKeyHeader))
}

// GetVersionInfo api
func (s *RPCAPI) GetVersionInfo(r *http.Request, args *RPCNullArgs, result *string) error {
	*result = swapapi.GetVersionInfo().Version
	return nil
}

// GetServerInfo api
func (s *RPCAPI) GetServerInfo(r *http.Request, args *RPCNullArgs, result *swapapi.ServerInfo) error {
	res, err := swapapi.GetServerInfo()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetConfig api
func (s *RPCAPI) GetConfig(r *http.Request, args *RPCNullArgs, result *swaps.Config) error {
	res, err := swapapi.GetConfig()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetStats api
func (s *RPCAPI) GetStats(r *http.Request, args *RPCNullArgs, result *swapapi.Stats) error {
	res, err := swapapi.GetStats()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetOperation api
func (s *RPCAPI) GetOperation(r *http.Request, operationID *uint64, result *swapapi.OperationInfo) error {
	res, err := swapapi.GetOperation(*operationID)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetRecoverable api
func (s *RPCAPI) GetRecoverable(r *http.Request, address *string, result *[]swaps.RecoveryEntry) error {
	res, err := swapapi.GetRecoverable(*address)
	if err == nil && res != nil {
		*result = res
	}
	return err
}

// GetOperationHistory api
func (s *RPCAPI) GetOperationHistory(r *http.Request, operationID *uint64, result *[]*swapapi.OperationEvent) error {
	res, err := swapapi.GetOperationHistory(*operationID)
	if err == nil && res != nil {
		*result = res
	}
	return err
}

// RPCQueryHistoryArgs args
type RPCQueryHistoryArgs struct {
	Address string `json:"address"`
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
}

// GetSenderHistory api
func (s *RPCAPI) GetSenderHistory(r *http.Request, args *RPCQueryHistoryArgs, result *[]*swapapi.OperationEvent) error {
	res, err := swapapi.GetSenderHistory(args.Address, args.Offset, args.Limit)
	if err == nil && res != nil {
		*result = res
	}
	return err
}

// ListInflight api
func (s *RPCAPI) ListInflight(r *http.Request, args *RPCNullArgs, result *[]*swapapi.InflightInfo) error {
	res, err := swapapi.ListInflight()
	if err == nil && res != nil {
		*result = res
	}
	return err
}

// ListOutbox api
func (s *RPCAPI) ListOutbox(r *http.Request, failed *bool, result *[]*swapapi.OutboxInfo) error {
	res, err := swapapi.ListOutbox(*failed)
	if err == nil && res != nil {
		*result = res
	}
	return err
}

// RPCSwapAndForwardArgs args
type RPCSwapAndForwardArgs struct {
	Sender string       `json:"sender"`
	Funds  tokens.Coins `json:"funds"`
	swaps.SwapAndForwardMsg
}

// SwapAndForward api
func (s *RPCAPI) SwapAndForward(r *http.Request, args *RPCSwapAndForwardArgs, result *swapapi.ResponseInfo) error {
	if err := checkRelayer(r); err != nil {
		return err
	}
	res, err := swapapi.SwapAndForward(args.Sender, args.Funds, &args.SwapAndForwardMsg)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// RPCSenderArgs args
type RPCSenderArgs struct {
	Sender string `json:"sender"`
}

// Recover api
func (s *RPCAPI) Recover(r *http.Request, args *RPCSenderArgs, result *swapapi.ResponseInfo) error {
	if err := checkRelayer(r); err != nil {
		return err
	}
	res, err := swapapi.Recover(args.Sender)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// RPCTransferOwnershipArgs args
type RPCTransferOwnershipArgs struct {
	Sender      string `json:"sender"`
	NewGovernor string `json:"new_governor"`
}

// TransferOwnership api
func (s *RPCAPI) TransferOwnership(r *http.Request, args *RPCTransferOwnershipArgs, result *swapapi.ResponseInfo) error {
	if err := checkRelayer(r); err != nil {
		return err
	}
	res, err := swapapi.TransferOwnership(args.Sender, args.NewGovernor)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// RPCSetSwapContractArgs args
type RPCSetSwapContractArgs struct {
	Sender      string `json:"sender"`
	NewContract string `json:"new_contract"`
}

// SetSwapContract api
func (s *RPCAPI) SetSwapContract(r *http.Request, args *RPCSetSwapContractArgs, result *swapapi.ResponseInfo) error {
	if err := checkRelayer(r); err != nil {
		return err
	}
	res, err := swapapi.SetSwapContract(args.Sender, args.NewContract)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// RPCForceRecoverArgs args
type RPCForceRecoverArgs struct {
	Sender   string `json:"sender"`
	Channel  string `json:"channel"`
	Sequence uint64 `json:"sequence"`
}

// ForceRecover api
func (s *RPCAPI) ForceRecover(r *http.Request, args *RPCForceRecoverArgs, result *swapapi.ResponseInfo) error {
	if err := checkRelayer(r); err != nil {
		return err
	}
	res, err := swapapi.ForceRecover(args.Sender, args.Channel, args.Sequence)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// Reply api
func (s *RPCAPI) Reply(r *http.Request, args *swaps.Reply, result *swapapi.ResponseInfo) error {
	if err := checkRelayer(r); err != nil {
		return err
	}
	res, err := swapapi.Reply(args)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// Sudo api
func (s *RPCAPI) Sudo(r *http.Request, args *swaps.SudoMsg, result *swapapi.ResponseInfo) error {
	if err := checkRelayer(r); err != nil {
		return err
	}
	res, err := swapapi.Sudo(args)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// DeliveryAck api
func (s *RPCAPI) DeliveryAck(r *http.Request, args *swaps.IBCAck, result *swapapi.ResponseInfo) error {
	if err := checkRelayer(r); err != nil {
		return err
	}
	res, err := swapapi.DeliveryAck(args.Channel, args.Sequence, args.Ack, args.Success)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// DeliveryTimeout api
func (s *RPCAPI) DeliveryTimeout(r *http.Request, args *swaps.IBCTimeout, result *swapapi.ResponseInfo) error {
	if err := checkRelayer(r); err != nil {
		return err
	}
	res, err := swapapi.DeliveryTimeout(args.Channel, args.Sequence)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}
