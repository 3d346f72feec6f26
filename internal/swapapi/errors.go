package swapapi

import (
	"errors"

	"github.com/anyswap/CrossChain-Swaps/swaps"
	rpcjson "github.com/gorilla/rpc/v2/json2"
)

// api errors
var (
	errNotReady          = newRPCError(-32099, "swaps server is not ready")
	errNoHistory         = newRPCError(-32098, "operation history is not enabled")
	errRelayerNotAllowed = newRPCError(-32097, "relayer key is not allowed")
	errEmptyArgs         = newRPCError(-32096, "empty arguments")
	errNoRelayers        = newRPCError(-32095, "no relayer key is configured")
)

var contractErrorCodes = []struct {
	err  error
	code rpcjson.ErrorCode
}{
	{swaps.ErrUnauthorized, -32010},
	{swaps.ErrInvalidAddress, -32011},
	{swaps.ErrUnknownCorrelation, -32012},
	{swaps.ErrInvalidReplyID, -32013},
	{swaps.ErrInvalidFunds, -32014},
	{swaps.ErrInvalidMemo, -32015},
	{swaps.ErrInvalidSlippage, -32016},
	{swaps.ErrInvalidPolicy, -32017},
	{swaps.ErrInvalidMsg, -32018},
	{swaps.ErrAlreadyInitialized, -32019},
	{swaps.ErrNotInitialized, -32020},
	{swaps.ErrOperationNotFound, -32021},
	{swaps.ErrRegistryResolution, -32022},
}

func newRPCError(ec rpcjson.ErrorCode, message string) error {
	return &rpcjson.Error{
		Code:    ec,
		Message: message,
	}
}

func newRPCInternalError(err error) error {
	return newRPCError(-32000, "rpcError: "+err.Error())
}

// convertError map contract errors to json rpc errors with stable codes
func convertError(err error) error {
	if err == nil {
		return nil
	}
	var rpcErr *rpcjson.Error
	if errors.As(err, &rpcErr) {
		return err
	}
	for _, item := range contractErrorCodes {
		if errors.Is(err, item.err) {
			return newRPCError(item.code, err.Error())
		}
	}
	return newRPCInternalError(err)
}

// ErrorCode get json rpc error code, 0 if err is not a json rpc error
func ErrorCode(err error) rpcjson.ErrorCode {
	var rpcErr *rpcjson.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Code
	}
	return 0
}
