package swaps

import (
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Swaps/store"
	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// DeliveryAck handle the acknowledgement of a forwarded transfer.
// A notification for an unknown or already resolved packet is a no-op.
func (c *Contract) DeliveryAck(st store.KVStore, env Env, channel string, sequence uint64, ack string, success bool) (*Response, error) {
	inv := newInvocation(st, env)
	inv.resp.
		AddAttribute("method", "ibc_ack").
		AddAttribute("channel", channel).
		AddAttribute("sequence", sequence)

	inflight, err := takeInflight(st, channel, sequence)
	if err != nil {
		return nil, err
	}
	if inflight == nil {
		inv.resp.AddAttribute("msg", "received unexpected ack")
		return inv.resp, nil
	}
	op, err := inv.mustLoadOperation(inflight.OperationID)
	if err != nil {
		return nil, err
	}
	switch {
	case success && inflight.Unwrap != nil:
		err = c.resumeAfterUnwrap(inv, op, inflight)
	case success:
		err = inv.updateOperation(op, Delivered, ack)
	default:
		err = c.handleFailedDelivery(inv, op, inflight, "ack error: "+ack)
	}
	if err != nil {
		return nil, err
	}
	return inv.resp, nil
}

// DeliveryTimeout handle the timeout of a forwarded transfer, which is
// treated the same as a failed acknowledgement.
func (c *Contract) DeliveryTimeout(st store.KVStore, env Env, channel string, sequence uint64) (*Response, error) {
	inv := newInvocation(st, env)
	inv.resp.
		AddAttribute("method", "ibc_timeout").
		AddAttribute("channel", channel).
		AddAttribute("sequence", sequence)

	inflight, err := takeInflight(st, channel, sequence)
	if err != nil {
		return nil, err
	}
	if inflight == nil {
		inv.resp.AddAttribute("msg", "received unexpected timeout")
		return inv.resp, nil
	}
	op, err := inv.mustLoadOperation(inflight.OperationID)
	if err != nil {
		return nil, err
	}
	if err = c.handleFailedDelivery(inv, op, inflight, "packet timed out"); err != nil {
		return nil, err
	}
	return inv.resp, nil
}

// resumeAfterUnwrap continue with the unwrapped coin, which is held by the contract now
func (c *Contract) resumeAfterUnwrap(inv *invocation, op *Operation, inflight *InflightTransfer) error {
	cfg, err := loadConfig(inv.st)
	if err != nil {
		return err
	}
	pending := inflight.Unwrap
	coin := tokens.Coin{Denom: pending.UnwrappedDenom, Amount: new(big.Int).Set(inflight.Coin.Amount)}
	inv.resp.AddAttribute("unwrapped", coin.String())
	return c.swapOrSkip(inv, cfg, op, inflight.Sender, coin, pending)
}

func (c *Contract) handleFailedDelivery(inv *invocation, op *Operation, inflight *InflightTransfer, reason string) error {
	policy := inflight.OnFailedDelivery
	if inflight.Unwrap != nil {
		failure := fmt.Errorf("%w: %v", ErrUnwrapFailed, reason)
		return inv.recordRecovery(op, policy.RecoveryAddr(inflight.Sender), inflight.Coin, failure.Error())
	}
	if policy.AlternateReceiver != "" && inflight.Attempt < maxForwardAttempts {
		retry := inflight.ForwardReplyState
		retry.Receiver = policy.AlternateReceiver
		retry.Attempt++
		inv.resp.AddAttribute("alternate_receiver", policy.AlternateReceiver)
		return c.forwardOrRecover(inv, op, &retry)
	}
	failure := fmt.Errorf("%w: %v", ErrForwardFailed, reason)
	return inv.recordRecovery(op, policy.RecoveryAddr(inflight.Sender), inflight.Coin, failure.Error())
}
