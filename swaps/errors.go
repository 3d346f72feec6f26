package swaps

import (
	"errors"
)

// structural errors, the invocation is aborted and nothing is committed
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrUnknownCorrelation = errors.New("unknown correlation token")
	ErrInvalidReplyID     = errors.New("invalid reply id")
	ErrInvalidMsg         = errors.New("invalid message")
	ErrInvalidFunds       = errors.New("invalid funds")
	ErrInvalidMemo        = errors.New("invalid memo")
	ErrInvalidSlippage    = errors.New("invalid slippage")
	ErrInvalidPolicy      = errors.New("invalid on failed delivery policy")
	ErrAlreadyInitialized = errors.New("contract already initialized")
	ErrNotInitialized     = errors.New("contract not initialized")
	ErrOperationNotFound  = errors.New("operation not found")
)

// collaborator outcome errors, converted into recovery bookkeeping
var (
	ErrRegistryResolution = errors.New("registry resolution failed")
	ErrSwapFailed         = errors.New("swap failed")
	ErrForwardFailed      = errors.New("forward failed")
	ErrUnwrapFailed       = errors.New("unwrap failed")
)

