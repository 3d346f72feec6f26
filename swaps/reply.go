package swaps

import (
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Swaps/tokens"
)

func (c *Contract) handleSwapReply(inv *invocation, reply *Reply) error {
	state, err := takeSwapReplyState(inv.st, reply.Token)
	if err != nil {
		return err
	}
	op, err := inv.mustLoadOperation(state.OperationID)
	if err != nil {
		return err
	}
	inv.resp.
		AddAttribute("method", "swap_reply").
		AddAttribute("operation_id", op.ID)

	if !reply.Result.IsOk() {
		// the swap never executed, give back the input
		reason := fmt.Errorf("%w: %v", ErrSwapFailed, reply.Result.Err)
		return inv.recordRecovery(op, state.OnFailedDelivery.RecoveryAddr(state.Sender), state.InputCoin, reason.Error())
	}

	result := reply.Result.Ok.Swap
	if result == nil || result.Amount == nil || result.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: swap reply without output amount", ErrInvalidMsg)
	}
	if result.TokenOutDenom != "" && result.TokenOutDenom != state.OutputDenom {
		return fmt.Errorf("%w: swap output denom '%v' mismatch '%v'", ErrInvalidMsg, result.TokenOutDenom, state.OutputDenom)
	}
	output := tokens.Coin{Denom: state.OutputDenom, Amount: new(big.Int).Set(result.Amount)}
	op.OutputCoin = &output
	if err = inv.updateOperation(op, SwapConfirmed, output.String()); err != nil {
		return err
	}

	return c.forwardOrRecover(inv, op, &ForwardReplyState{
		OperationID:      op.ID,
		Sender:           state.Sender,
		Receiver:         state.Receiver,
		Coin:             output,
		NextMemo:         state.NextMemo,
		OnFailedDelivery: state.OnFailedDelivery,
		Attempt:          1,
	})
}

func (c *Contract) handleForwardReply(inv *invocation, reply *Reply) error {
	state, err := takeForwardReplyState(inv.st, reply.Token)
	if err != nil {
		return err
	}
	op, err := inv.mustLoadOperation(state.OperationID)
	if err != nil {
		return err
	}
	inv.resp.
		AddAttribute("method", "forward_reply").
		AddAttribute("operation_id", op.ID)

	if !reply.Result.IsOk() {
		// the coin of the transfer never left, it is what can be recovered
		reason := fmt.Errorf("%w: %v", transferFailure(state), reply.Result.Err)
		return inv.recordRecovery(op, state.OnFailedDelivery.RecoveryAddr(state.Sender), state.Coin, reason.Error())
	}

	sent := reply.Result.Ok.Transfer
	if sent == nil || sent.Channel == "" {
		return fmt.Errorf("%w: forward reply without channel and sequence", ErrInvalidMsg)
	}
	if exist, err := inv.st.Has(inflightKey(sent.Channel, sent.Sequence)); err != nil {
		return err
	} else if exist {
		return fmt.Errorf("%w: packet %v/%d is already in flight", ErrInvalidMsg, sent.Channel, sent.Sequence)
	}
	state.ChannelID = sent.Channel
	inflight := &InflightTransfer{
		ForwardReplyState: *state,
		Sequence:          sent.Sequence,
	}
	if err = saveInflight(inv.st, inflight); err != nil {
		return err
	}
	op.Channel = sent.Channel
	op.Sequence = sent.Sequence
	inv.resp.
		AddAttribute("channel", sent.Channel).
		AddAttribute("sequence", sent.Sequence)
	status := ForwardRequested
	if state.Unwrap != nil {
		status = UnwrapRequested
	}
	return inv.updateOperation(op, status, fmt.Sprintf("packet %v/%d sent", sent.Channel, sent.Sequence))
}

func transferFailure(state *ForwardReplyState) error {
	if state.Unwrap != nil {
		return ErrUnwrapFailed
	}
	return ErrForwardFailed
}
