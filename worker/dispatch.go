package worker

import (
	"context"
	"errors"
	"time"

	"github.com/anyswap/CrossChain-Swaps/store"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// StartDispatchJob dispatch outbox messages in background until ctx is done
func (h *Host) StartDispatchJob(ctx context.Context, interval time.Duration) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		logWorker("dispatch", "start dispatch job", "interval", interval)
		for {
			h.DispatchPending(ctx)
			if !restInJob(ctx, interval, h.notify) {
				logWorker("dispatch", "stop dispatch job")
				return
			}
		}
	}()
}

// DispatchPending dispatch every message in the outbox once.
// Returns the number of messages which are resolved.
func (h *Host) DispatchPending(ctx context.Context) (resolved int) {
	entries, err := h.ListOutbox()
	if err != nil {
		logWorkerError("dispatch", "list outbox failed", err)
		return 0
	}
	if len(entries) > 0 {
		logWorkerTrace("dispatch", "find messages to dispatch", "count", len(entries))
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if h.dispatchEntry(ctx, entry) {
			resolved++
		}
	}
	return resolved
}

// a rejection of the service is a failure outcome, others are retried
func isDefinitive(err error) bool {
	return errors.Is(err, tokens.ErrServiceRejected)
}

func (h *Host) dispatchEntry(ctx context.Context, entry *OutboxEntry) bool {
	sub := &entry.SubMsg
	msg := &sub.Msg
	logWorkerTrace("dispatch", "dispatch message", "token", sub.Token, "kind", msg.Kind(), "attempts", entry.Attempts)

	switch {
	case msg.Swap != nil:
		if h.collaborators.SwapService == nil {
			return h.retryLater(entry, tokens.ErrNoServiceAddress)
		}
		reply := &swaps.Reply{ID: sub.ReplyID, Token: sub.Token}
		result, err := h.collaborators.SwapService.Swap(ctx, msg.Swap)
		switch {
		case err == nil:
			reply.Result.Ok = &swaps.SubMsgResponse{Swap: result}
		case isDefinitive(err):
			reply.Result.Err = err.Error()
		default:
			return h.retryLater(entry, err)
		}
		return h.completeWithReply(entry, reply)

	case msg.Transfer != nil:
		if h.collaborators.Transport == nil {
			return h.retryLater(entry, tokens.ErrNoServiceAddress)
		}
		reply := &swaps.Reply{ID: sub.ReplyID, Token: sub.Token}
		result, err := h.collaborators.Transport.Transfer(ctx, msg.Transfer)
		switch {
		case err == nil:
			reply.Result.Ok = &swaps.SubMsgResponse{Transfer: result}
		case isDefinitive(err):
			reply.Result.Err = err.Error()
		default:
			return h.retryLater(entry, err)
		}
		return h.completeWithReply(entry, reply)

	case msg.BankSend != nil:
		if h.collaborators.Bank == nil {
			return h.retryLater(entry, tokens.ErrNoServiceAddress)
		}
		reply := &swaps.Reply{ID: sub.ReplyID, Token: sub.Token}
		err := h.collaborators.Bank.Send(ctx, msg.BankSend)
		switch {
		case err == nil:
			reply.Result.Ok = &swaps.SubMsgResponse{BankSend: msg.BankSend}
		case isDefinitive(err) && sub.ReplyID == swaps.ReplyNone:
			return h.moveToFailed(entry, err)
		case isDefinitive(err):
			reply.Result.Err = err.Error()
		default:
			return h.retryLater(entry, err)
		}
		return h.completeWithReply(entry, reply)

	default:
		return h.moveToFailed(entry, errors.New("empty message"))
	}
}

func (h *Host) completeWithReply(entry *OutboxEntry, reply *swaps.Reply) bool {
	if reply.ID == swaps.ReplyNone {
		return h.removeOutboxEntry(entry)
	}
	_, err := h.Reply(reply)
	if err != nil {
		logWorkerError("dispatch", "apply reply failed", err, "token", reply.Token, "replyID", reply.ID)
		return h.moveToFailed(entry, err)
	}
	logWorker("dispatch", "apply reply success", "token", reply.Token, "replyID", reply.ID, "ok", reply.Result.IsOk())
	return true
}

func (h *Host) retryLater(entry *OutboxEntry, err error) bool {
	token := entry.SubMsg.Token
	logWorkerWarn("dispatch", "dispatch message failed, retry later", "token", token, "kind", entry.SubMsg.Msg.Kind(), "attempts", entry.Attempts+1, "err", err)
	h.updateOutbox(func(st store.KVStore) error {
		key := outboxKey(prefixOutbox, token)
		current, errf := getOutboxEntry(st, key)
		if errf != nil || current == nil {
			return errf
		}
		current.Attempts++
		current.LastError = err.Error()
		return putOutboxEntry(st, key, current)
	})
	return false
}

func (h *Host) removeOutboxEntry(entry *OutboxEntry) bool {
	token := entry.SubMsg.Token
	logWorker("dispatch", "dispatch message success", "token", token, "kind", entry.SubMsg.Msg.Kind())
	return h.updateOutbox(func(st store.KVStore) error {
		return st.Delete(outboxKey(prefixOutbox, token))
	})
}

// moveToFailed keep the message for operators, it is never dispatched again
func (h *Host) moveToFailed(entry *OutboxEntry, err error) bool {
	token := entry.SubMsg.Token
	logWorkerError("dispatch", "message can not be dispatched", err, "token", token, "kind", entry.SubMsg.Msg.Kind())
	h.updateOutbox(func(st store.KVStore) error {
		key := outboxKey(prefixOutbox, token)
		current, errf := getOutboxEntry(st, key)
		if errf != nil || current == nil {
			return errf
		}
		current.Attempts++
		current.LastError = err.Error()
		if errf = st.Delete(key); errf != nil {
			return errf
		}
		return putOutboxEntry(st, outboxKey(prefixOutboxFailed, token), current)
	})
	return false
}

func (h *Host) updateOutbox(fn func(st store.KVStore) error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := store.NewCacheStore(h.db)
	if err := fn(st); err != nil {
		logWorkerError("dispatch", "update outbox failed", err)
		return false
	}
	if err := st.Write(); err != nil {
		logWorkerError("dispatch", "commit outbox failed", err)
		return false
	}
	return true
}
