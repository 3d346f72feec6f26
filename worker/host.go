package worker

import (
	"errors"
	"sync"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/leveldb"
	"github.com/anyswap/CrossChain-Swaps/store"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// EventSink receives operation events after they are committed
type EventSink interface {
	OnEvents(events []swaps.OperationEvent)
}

// Collaborators the external services messages are dispatched to
type Collaborators struct {
	SwapService tokens.SwapService
	Transport   tokens.Transport
	Bank        tokens.Bank
}

// Host runs contract invocations one at a time, each in its own transaction
type Host struct {
	mu       sync.Mutex
	db       leveldb.KeyValueStore
	contract *swaps.Contract

	collaborators Collaborators

	sinks  []EventSink
	notify chan struct{}
	now    func() int64

	wg sync.WaitGroup
}

// NewHost new host
func NewHost(db leveldb.KeyValueStore, contract *swaps.Contract, collaborators Collaborators) *Host {
	return &Host{
		db:            db,
		contract:      contract,
		collaborators: collaborators,
		notify:        make(chan struct{}, 1),
		now:           common.Now,
	}
}

// AddEventSink add event sink, must be called before any invocation
func (h *Host) AddEventSink(sink EventSink) {
	h.sinks = append(h.sinks, sink)
}

// Contract the hosted contract
func (h *Host) Contract() *swaps.Contract {
	return h.contract
}

// Wait wait started jobs to exit
func (h *Host) Wait() {
	h.wg.Wait()
}

type invokeFunc func(st store.KVStore, env swaps.Env) (*swaps.Response, error)

func (h *Host) invoke(method string, fn invokeFunc) (*swaps.Response, error) {
	h.mu.Lock()
	st := store.NewCacheStore(h.db)
	env := swaps.Env{Time: h.now()}
	resp, err := fn(st, env)
	if err == nil {
		err = addOutboxEntries(st, env, resp.Messages)
	}
	if err == nil {
		err = st.Write()
	}
	if err != nil {
		st.Discard()
		h.mu.Unlock()
		logWorkerTrace("host", "invocation aborted", "method", method, "err", err)
		return nil, err
	}
	h.mu.Unlock()

	logWorkerTrace("host", "invocation committed", "method", method, "messages", len(resp.Messages), "events", len(resp.Events))
	if len(resp.Messages) > 0 {
		h.wakeupDispatcher()
	}
	h.publish(resp.Events)
	return resp, nil
}

func (h *Host) query(fn func(st store.KVStore) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(store.NewCacheStore(h.db))
}

func (h *Host) wakeupDispatcher() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

func (h *Host) publish(events []swaps.OperationEvent) {
	if len(events) == 0 {
		return
	}
	for _, sink := range h.sinks {
		sink.OnEvents(events)
	}
}

// IsInitialized is contract config exist
func (h *Host) IsInitialized() (bool, error) {
	_, err := h.QueryConfig()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, swaps.ErrNotInitialized):
		return false, nil
	default:
		return false, err
	}
}

// Instantiate one-time setup
func (h *Host) Instantiate(sender string, msg *swaps.InstantiateMsg) (*swaps.Response, error) {
	return h.invoke("instantiate", func(st store.KVStore, env swaps.Env) (*swaps.Response, error) {
		return h.contract.Instantiate(st, env, swaps.MessageInfo{Sender: sender}, msg)
	})
}

// Execute execute message
func (h *Host) Execute(info swaps.MessageInfo, msg *swaps.ExecuteMsg) (*swaps.Response, error) {
	return h.invoke("execute", func(st store.KVStore, env swaps.Env) (*swaps.Response, error) {
		return h.contract.Execute(st, env, info, msg)
	})
}

// ExecuteSwapAndForward swap funds and forward the output to receiver
func (h *Host) ExecuteSwapAndForward(sender string, funds tokens.Coins, msg *swaps.SwapAndForwardMsg) (*swaps.Response, error) {
	return h.Execute(swaps.MessageInfo{Sender: sender, Funds: funds}, &swaps.ExecuteMsg{OsmosisSwap: msg})
}

// ExecuteRecover claim recoverable balances of sender
func (h *Host) ExecuteRecover(sender string) (*swaps.Response, error) {
	return h.Execute(swaps.MessageInfo{Sender: sender}, &swaps.ExecuteMsg{Recover: &swaps.RecoverMsg{}})
}

// ExecuteTransferOwnership change governor
func (h *Host) ExecuteTransferOwnership(sender, newGovernor string) (*swaps.Response, error) {
	return h.Execute(swaps.MessageInfo{Sender: sender}, &swaps.ExecuteMsg{
		TransferOwnership: &swaps.TransferOwnershipMsg{NewGovernor: newGovernor},
	})
}

// ExecuteSetSwapContract change swap service address
func (h *Host) ExecuteSetSwapContract(sender, newContract string) (*swaps.Response, error) {
	return h.Execute(swaps.MessageInfo{Sender: sender}, &swaps.ExecuteMsg{
		SetSwapContract: &swaps.SetSwapContractMsg{NewContract: newContract},
	})
}

// ExecuteForceRecover mark in-flight transfer recoverable
func (h *Host) ExecuteForceRecover(sender, channel string, sequence uint64) (*swaps.Response, error) {
	return h.Execute(swaps.MessageInfo{Sender: sender}, &swaps.ExecuteMsg{
		ForceRecover: &swaps.ForceRecoverMsg{Channel: channel, Sequence: sequence},
	})
}

// Reply deliver the result of a dispatched message.
// The outbox entry of the token is removed in the same transaction.
func (h *Host) Reply(reply *swaps.Reply) (*swaps.Response, error) {
	return h.invoke("reply", func(st store.KVStore, env swaps.Env) (*swaps.Response, error) {
		if err := st.Delete(outboxKey(prefixOutbox, reply.Token)); err != nil {
			return nil, err
		}
		return h.contract.Reply(st, env, reply)
	})
}

// DeliveryAck deliver transfer acknowledgement
func (h *Host) DeliveryAck(channel string, sequence uint64, ack string, success bool) (*swaps.Response, error) {
	return h.invoke("ibc_ack", func(st store.KVStore, env swaps.Env) (*swaps.Response, error) {
		return h.contract.DeliveryAck(st, env, channel, sequence, ack, success)
	})
}

// DeliveryTimeout deliver transfer timeout
func (h *Host) DeliveryTimeout(channel string, sequence uint64) (*swaps.Response, error) {
	return h.invoke("ibc_timeout", func(st store.KVStore, env swaps.Env) (*swaps.Response, error) {
		return h.contract.DeliveryTimeout(st, env, channel, sequence)
	})
}

// Sudo deliver lifecycle notification in the form the transport layer reports it
func (h *Host) Sudo(msg *swaps.SudoMsg) (*swaps.Response, error) {
	return h.invoke("sudo", func(st store.KVStore, env swaps.Env) (*swaps.Response, error) {
		return h.contract.Sudo(st, env, msg)
	})
}

// QueryConfig query config
func (h *Host) QueryConfig() (cfg *swaps.Config, err error) {
	err = h.query(func(st store.KVStore) error {
		cfg, err = h.contract.QueryConfig(st)
		return err
	})
	return cfg, err
}

// QueryRecoverable query recoverable balances
func (h *Host) QueryRecoverable(addr string) (entries []swaps.RecoveryEntry, err error) {
	err = h.query(func(st store.KVStore) error {
		entries, err = h.contract.QueryRecoverable(st, addr)
		return err
	})
	return entries, err
}

// QueryOperation query operation
func (h *Host) QueryOperation(id uint64) (op *swaps.Operation, err error) {
	err = h.query(func(st store.KVStore) error {
		op, err = h.contract.QueryOperation(st, id)
		return err
	})
	return op, err
}

// ListInflight list in-flight transfers
func (h *Host) ListInflight() (result []*swaps.InflightTransfer, err error) {
	err = h.query(func(st store.KVStore) error {
		result, err = swaps.ListInflight(st)
		return err
	})
	return result, err
}

// ListOutbox list messages waiting to be dispatched
func (h *Host) ListOutbox() (result []*OutboxEntry, err error) {
	err = h.query(func(st store.KVStore) error {
		result, err = listOutboxEntries(st, prefixOutbox)
		return err
	})
	return result, err
}

// ListFailedOutbox list messages that can not be dispatched
func (h *Host) ListFailedOutbox() (result []*OutboxEntry, err error) {
	err = h.query(func(st store.KVStore) error {
		result, err = listOutboxEntries(st, prefixOutboxFailed)
		return err
	})
	return result, err
}

// Stats pending counts
type Stats struct {
	PendingSwaps    int `json:"pendingSwaps"`
	PendingForwards int `json:"pendingForwards"`
	PendingReleases int `json:"pendingReleases"`
	Inflight        int `json:"inflight"`
	Outbox          int `json:"outbox"`
	FailedOutbox    int `json:"failedOutbox"`
}

// GetStats get pending counts
func (h *Host) GetStats() (*Stats, error) {
	stats := &Stats{}
	err := h.query(func(st store.KVStore) (err error) {
		stats.PendingSwaps, stats.PendingForwards, err = swaps.PendingReplies(st)
		if err != nil {
			return err
		}
		stats.PendingReleases, err = swaps.PendingReleases(st)
		if err != nil {
			return err
		}
		inflight, err := swaps.ListInflight(st)
		if err != nil {
			return err
		}
		outbox, err := listOutboxEntries(st, prefixOutbox)
		if err != nil {
			return err
		}
		failed, err := listOutboxEntries(st, prefixOutboxFailed)
		if err != nil {
			return err
		}
		stats.Inflight = len(inflight)
		stats.Outbox = len(outbox)
		stats.FailedOutbox = len(failed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
