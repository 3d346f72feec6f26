package swaps

import (
	"encoding/json"
	"fmt"

	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// recover claim and clear every recoverable entry of sender with exactly one bank send
func (c *Contract) recover(inv *invocation, sender string) error {
	entries, err := loadRecovery(inv.st, sender)
	if err != nil {
		return err
	}
	inv.resp.AddAttribute("method", "recover")
	if len(entries) == 0 {
		inv.resp.AddAttribute("msg", "nothing to recover")
		inv.resp.Data = json.RawMessage("[]")
		return nil
	}

	coins := make(tokens.Coins, 0, len(entries))
	for i := range entries {
		coin, errf := entries[i].Coin()
		if errf != nil {
			return fmt.Errorf("recovery entry of operation %d: %w", entries[i].OperationID, errf)
		}
		coins = append(coins, coin)
	}
	amount := coins.Merge()

	if err = inv.st.Delete(recoveryKey(sender)); err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	inv.resp.Data = data

	if len(amount) == 0 {
		return nil
	}
	token, err := nextToken(inv.st)
	if err != nil {
		return err
	}
	// the entries come back to the ledger if the release is rejected
	err = saveRecoverReplyState(inv.st, token, &RecoverReplyState{
		Recipient: sender,
		Entries:   entries,
	})
	if err != nil {
		return err
	}
	inv.resp.AddMessage(SubMsg{
		Token:   token,
		ReplyID: ReplyRecover,
		Msg: CosmosMsg{BankSend: &tokens.BankSend{
			Token:     token,
			ToAddress: sender,
			Amount:    amount,
		}},
	})
	inv.resp.
		AddAttribute("recipient", sender).
		AddAttribute("amount", amount.String())
	return nil
}

func (c *Contract) handleRecoverReply(inv *invocation, reply *Reply) error {
	state, err := takeRecoverReplyState(inv.st, reply.Token)
	if err != nil {
		return err
	}
	inv.resp.
		AddAttribute("method", "recover_reply").
		AddAttribute("recipient", state.Recipient)

	if reply.Result.IsOk() {
		inv.resp.AddAttribute("released", len(state.Entries))
		return nil
	}
	for _, entry := range state.Entries {
		if err = appendRecovery(inv.st, state.Recipient, entry); err != nil {
			return err
		}
	}
	inv.resp.
		AddAttribute("msg", "release failed, balances are recoverable again").
		AddAttribute("error", reply.Result.Err)
	return nil
}

// forceRecover mark an in-flight transfer recoverable without waiting for its outcome
func (c *Contract) forceRecover(inv *invocation, cfg *Config, sender string, msg *ForceRecoverMsg) error {
	if sender != cfg.Governor {
		return ErrUnauthorized
	}
	inflight, err := takeInflight(inv.st, msg.Channel, msg.Sequence)
	if err != nil {
		return err
	}
	if inflight == nil {
		return fmt.Errorf("%w: no in-flight packet %v/%d", ErrUnknownCorrelation, msg.Channel, msg.Sequence)
	}
	op, err := inv.mustLoadOperation(inflight.OperationID)
	if err != nil {
		return err
	}
	inv.resp.
		AddAttribute("method", "force_recover").
		AddAttribute("channel", msg.Channel).
		AddAttribute("sequence", msg.Sequence)
	recoveryAddr := inflight.OnFailedDelivery.RecoveryAddr(inflight.Sender)
	return inv.recordRecovery(op, recoveryAddr, inflight.Coin, "forced recovery by governor")
}
