package swaps

import (
	"fmt"
)

// -----------------------------------------------
// operation status change graph
//
// Received -> |- SkipSwap      -> ForwardRequested
//             |- SwapRequested -> |- SwapConfirmed -> |- ForwardRequested
//             |                   |                   |- Recoverable (no route)
//             |                   |- Recoverable (swap failed)
//             |- UnwrapRequested -> |- SwapRequested
//                                   |- SkipSwap
//                                   |- Recoverable (unwrap failed)
//
// ForwardRequested -> |- Delivered
//                     |- ForwardRequested (alternate receiver, once)
//                     |- Recoverable
// -----------------------------------------------

// OperationStatus status of a swap-and-forward operation
type OperationStatus uint16

// operation status values
const (
	Received         OperationStatus = iota // 0
	SwapRequested                           // 1
	SkipSwap                                // 2
	SwapConfirmed                           // 3
	ForwardRequested                        // 4
	Delivered                               // 5
	Recoverable                             // 6
	UnwrapRequested                         // 7
)

// IsFinal is terminal status
func (status OperationStatus) IsFinal() bool {
	return status == Delivered || status == Recoverable
}

func (status OperationStatus) String() string {
	switch status {
	case Received:
		return "Received"
	case SwapRequested:
		return "SwapRequested"
	case SkipSwap:
		return "SkipSwap"
	case SwapConfirmed:
		return "SwapConfirmed"
	case ForwardRequested:
		return "ForwardRequested"
	case Delivered:
		return "Delivered"
	case Recoverable:
		return "Recoverable"
	case UnwrapRequested:
		return "UnwrapRequested"
	default:
		return fmt.Sprintf("unknown operation status %d", status)
	}
}
