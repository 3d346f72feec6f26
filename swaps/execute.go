package swaps

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// an alternate receiver is tried at most once
const maxForwardAttempts = 2

func (c *Contract) swapAndForward(inv *invocation, cfg *Config, info MessageInfo, msg *SwapAndForwardMsg) error {
	coin, err := onlyOneCoin(info.Funds)
	if err != nil {
		return err
	}
	if err = c.validateSwapAndForward(msg); err != nil {
		return err
	}
	// the route must be resolvable before any fund is moved
	route, err := c.resolveRoute(msg.OutputDenom)
	if err != nil {
		return err
	}
	if err = checkReceiverChain(route, msg.Receiver); err != nil {
		return err
	}
	if alternate := msg.OnFailedDelivery.AlternateReceiver; alternate != "" {
		if err = checkReceiverChain(route, alternate); err != nil {
			return fmt.Errorf("%w: alternate_receiver %v", ErrInvalidPolicy, err)
		}
	}
	var unwrap *tokens.Route
	if coin.Denom != msg.OutputDenom && !msg.Forward {
		if unwrap, err = c.resolveUnwrapRoute(coin.Denom); err != nil {
			return err
		}
	}

	opID, err := nextToken(inv.st)
	if err != nil {
		return err
	}
	op := &Operation{
		ID:        opID,
		Sender:    info.Sender,
		Receiver:  msg.Receiver,
		InputCoin: coin,
		History:   []StatusChange{},
	}
	if err = inv.updateOperation(op, Received, coin.String()); err != nil {
		return err
	}
	inv.resp.
		AddAttribute("method", "osmosis_swap").
		AddAttribute("operation_id", opID).
		AddAttribute("sender", info.Sender)

	pending := &PendingSwap{
		Receiver:         msg.Receiver,
		OutputDenom:      msg.OutputDenom,
		Slippage:         msg.Slippage,
		NextMemo:         msg.NextMemo,
		OnFailedDelivery: msg.OnFailedDelivery,
		Route:            msg.Route,
	}
	if unwrap != nil {
		pending.UnwrappedDenom = unwrap.UnwrapsTo
		return c.dispatchUnwrap(inv, op, info.Sender, coin, pending, unwrap)
	}
	return c.swapOrSkip(inv, cfg, op, info.Sender, coin, pending)
}

// swapOrSkip dispatch the swap of coin, or forward it directly if it
// already is the output denom
func (c *Contract) swapOrSkip(inv *invocation, cfg *Config, op *Operation, sender string, coin tokens.Coin, pending *PendingSwap) error {
	if coin.Denom == pending.OutputDenom {
		output := coin.Clone()
		op.OutputCoin = &output
		if err := inv.updateOperation(op, SkipSwap, "input denom equals output denom"); err != nil {
			return err
		}
		return c.forwardOrRecover(inv, op, &ForwardReplyState{
			OperationID:      op.ID,
			Sender:           sender,
			Receiver:         pending.Receiver,
			Coin:             output,
			NextMemo:         pending.NextMemo,
			OnFailedDelivery: pending.OnFailedDelivery,
			Attempt:          1,
		})
	}

	token, err := nextToken(inv.st)
	if err != nil {
		return err
	}
	err = saveSwapReplyState(inv.st, token, &SwapReplyState{
		OperationID:      op.ID,
		Sender:           sender,
		Receiver:         pending.Receiver,
		InputCoin:        coin,
		OutputDenom:      pending.OutputDenom,
		Slippage:         pending.Slippage,
		NextMemo:         pending.NextMemo,
		OnFailedDelivery: pending.OnFailedDelivery,
		Route:            pending.Route,
	})
	if err != nil {
		return err
	}
	inv.resp.AddMessage(SubMsg{
		Token:   token,
		ReplyID: ReplySwap,
		Msg: CosmosMsg{Swap: &tokens.SwapRequest{
			Token:       token,
			Contract:    cfg.SwapContract,
			Sender:      c.settings.ContractAddress,
			InputCoin:   coin,
			OutputDenom: pending.OutputDenom,
			Slippage:    pending.Slippage,
			Route:       pending.Route,
		}},
	})
	return inv.updateOperation(op, SwapRequested, fmt.Sprintf("swap token %d", token))
}

// dispatchUnwrap send coin through its native chain back to this contract,
// the swap continues when the transfer is acknowledged
func (c *Contract) dispatchUnwrap(inv *invocation, op *Operation, sender string, coin tokens.Coin, pending *PendingSwap, route *tokens.Route) error {
	self := c.settings.ContractAddress
	firstReceiver, memo, err := buildTransferMemo(nil, self, route, self)
	if err != nil {
		return err
	}
	state := &ForwardReplyState{
		OperationID: op.ID,
		Sender:      sender,
		Receiver:    self,
		ChannelID:   route.Hops[0].Channel,
		Coin:        coin,
		// an unwrap is never retried with the alternate receiver
		OnFailedDelivery: FailedDeliveryPolicy{LocalRecoveryAddr: pending.OnFailedDelivery.LocalRecoveryAddr},
		Attempt:          1,
		Unwrap:           pending,
	}
	token, err := c.sendTransfer(inv, state, route.Hops[0], firstReceiver, memo)
	if err != nil {
		return err
	}
	op.Channel = state.ChannelID
	return inv.updateOperation(op, UnwrapRequested,
		fmt.Sprintf("unwrap %v into %v, transfer token %d", coin, pending.UnwrappedDenom, token))
}

func checkReceiverChain(route *tokens.Route, receiver string) error {
	if route.ReceiverPrefix != "" && !strings.HasPrefix(receiver, route.ReceiverPrefix+"1") {
		return fmt.Errorf("%w: receiver '%v' is not on the chain of '%v'", ErrInvalidAddress, receiver, route.Denom)
	}
	return nil
}

func (c *Contract) resolveRoute(denom string) (*tokens.Route, error) {
	if c.registry == nil {
		return nil, fmt.Errorf("%w: no registry", ErrRegistryResolution)
	}
	route, err := c.registry.ResolveRoute(denom)
	if err != nil {
		return nil, fmt.Errorf("%w: denom '%v' %v", ErrRegistryResolution, denom, err)
	}
	if route == nil || len(route.Hops) == 0 {
		return nil, fmt.Errorf("%w: denom '%v' has no hops", ErrRegistryResolution, denom)
	}
	return route, nil
}

// resolveUnwrapRoute returns nil if denom does not need to be unwrapped
func (c *Contract) resolveUnwrapRoute(denom string) (*tokens.Route, error) {
	if c.registry == nil {
		return nil, nil
	}
	route, err := c.registry.ResolveRoute(denom)
	switch {
	case errors.Is(err, tokens.ErrRouteNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%w: denom '%v' %v", ErrRegistryResolution, denom, err)
	case route == nil || route.UnwrapsTo == "":
		return nil, nil
	case len(route.Hops) < 2:
		return nil, fmt.Errorf("%w: unwrap route of '%v' has %d hops", ErrRegistryResolution, denom, len(route.Hops))
	}
	return route, nil
}

// forwardOrRecover forward the coin of state, a forward that can not be
// prepared makes the coin recoverable
func (c *Contract) forwardOrRecover(inv *invocation, op *Operation, state *ForwardReplyState) error {
	route, err := c.resolveRoute(state.Coin.Denom)
	if err != nil {
		return inv.recordRecovery(op, state.OnFailedDelivery.RecoveryAddr(state.Sender), state.Coin, err.Error())
	}
	return c.dispatchForward(inv, op, state, route)
}

func (c *Contract) dispatchForward(inv *invocation, op *Operation, state *ForwardReplyState, route *tokens.Route) error {
	if err := checkReceiverChain(route, state.Receiver); err != nil {
		return inv.recordRecovery(op, state.OnFailedDelivery.RecoveryAddr(state.Sender), state.Coin, err.Error())
	}
	firstReceiver, memo, err := buildTransferMemo(state.NextMemo, c.settings.ContractAddress, route, state.Receiver)
	if err != nil {
		return inv.recordRecovery(op, state.OnFailedDelivery.RecoveryAddr(state.Sender), state.Coin, err.Error())
	}
	state.ChannelID = route.Hops[0].Channel
	if _, err = c.sendTransfer(inv, state, route.Hops[0], firstReceiver, memo); err != nil {
		return err
	}
	op.Channel = state.ChannelID
	op.Sequence = 0
	op.Attempts = state.Attempt
	return inv.updateOperation(op, ForwardRequested,
		fmt.Sprintf("attempt %d forward %v to %v", state.Attempt, state.Coin, state.Receiver))
}

// sendTransfer save state and emit the transfer over hop, correlated by the returned token
func (c *Contract) sendTransfer(inv *invocation, state *ForwardReplyState, hop tokens.Hop, receiver, memo string) (uint64, error) {
	token, err := nextToken(inv.st)
	if err != nil {
		return 0, err
	}
	if err = saveForwardReplyState(inv.st, token, state); err != nil {
		return 0, err
	}
	inv.resp.AddMessage(SubMsg{
		Token:   token,
		ReplyID: ReplyForward,
		Msg: CosmosMsg{Transfer: &tokens.TransferRequest{
			Token:            token,
			SourcePort:       hop.Port,
			SourceChannel:    hop.Channel,
			Coin:             state.Coin,
			Sender:           c.settings.ContractAddress,
			Receiver:         receiver,
			Memo:             memo,
			TimeoutTimestamp: c.timeoutTimestamp(inv.env),
		}},
	})
	return token, nil
}

func (c *Contract) timeoutTimestamp(env Env) uint64 {
	return uint64(time.Unix(env.Time, 0).Add(c.settings.TransferTimeout).UnixNano())
}

func (inv *invocation) updateOperation(op *Operation, status OperationStatus, detail string) error {
	op.Status = status
	op.UpdatedAt = inv.env.Time
	op.History = append(op.History, StatusChange{
		Status:    status,
		Timestamp: inv.env.Time,
		Detail:    detail,
	})
	if err := saveOperation(inv.st, op); err != nil {
		return err
	}
	inv.resp.Events = append(inv.resp.Events, OperationEvent{
		OperationID: op.ID,
		Sender:      op.Sender,
		Status:      status,
		Detail:      detail,
		Timestamp:   inv.env.Time,
	})
	return nil
}

func (inv *invocation) recordRecovery(op *Operation, recoveryAddr string, coin tokens.Coin, reason string) error {
	err := appendRecovery(inv.st, recoveryAddr, RecoveryEntry{
		Denom:       coin.Denom,
		Amount:      coin.Amount.String(),
		OperationID: op.ID,
		Reason:      reason,
	})
	if err != nil {
		return err
	}
	inv.resp.
		AddAttribute("recovery_addr", recoveryAddr).
		AddAttribute("recoverable", coin.String())
	return inv.updateOperation(op, Recoverable, reason)
}

func (inv *invocation) mustLoadOperation(id uint64) (*Operation, error) {
	op, err := loadOperation(inv.st, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: %d", ErrOperationNotFound, id)
	}
	return op, nil
}
