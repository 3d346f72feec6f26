package swaps

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/store"
	"github.com/anyswap/CrossChain-Swaps/tokens"
)

var (
	keyConfig    = []byte("config")
	keyNextToken = []byte("next_token")

	prefixSwapReply    = []byte("swap_reply/")
	prefixForwardReply = []byte("forward_reply/")
	prefixInflight     = []byte("inflight/")
	prefixRecovery     = []byte("recovery/")
	prefixOperation    = []byte("operation/")
	prefixRecoverReply = []byte("recover_reply/")
)

// Config the contract configuration.
// RegistryContract is informational, it records the on-chain registry the
// route source (route file or registry service) is expected to mirror.
// Routes are always resolved through the tokens.Registry of the Contract.
type Config struct {
	SwapContract     string `json:"swap_contract"`
	Governor         string `json:"governor"`
	RegistryContract string `json:"registry_contract"`
}

// SwapReplyState context saved before dispatching a swap
type SwapReplyState struct {
	OperationID      uint64                 `json:"operation_id"`
	Sender           string                 `json:"sender"`
	Receiver         string                 `json:"receiver"`
	InputCoin        tokens.Coin            `json:"input_coin"`
	OutputDenom      string                 `json:"output_denom"`
	Slippage         tokens.Slippage        `json:"slippage"`
	NextMemo         json.RawMessage        `json:"next_memo,omitempty"`
	OnFailedDelivery FailedDeliveryPolicy   `json:"on_failed_delivery"`
	Route            []tokens.SwapRoutePool `json:"route,omitempty"`
}

// ForwardReplyState context saved before dispatching a transfer
type ForwardReplyState struct {
	OperationID      uint64               `json:"operation_id"`
	Sender           string               `json:"sender"`
	Receiver         string               `json:"receiver"`
	ChannelID        string               `json:"channel_id"`
	Coin             tokens.Coin          `json:"coin"`
	NextMemo         json.RawMessage      `json:"next_memo,omitempty"`
	OnFailedDelivery FailedDeliveryPolicy `json:"on_failed_delivery"`
	Attempt          int                  `json:"attempt"`
	// Unwrap is set if the transfer brings the input back unwrapped,
	// the swap continues once it is delivered
	Unwrap *PendingSwap `json:"unwrap,omitempty"`
}

// PendingSwap swap waiting for its input to be unwrapped
type PendingSwap struct {
	UnwrappedDenom   string                 `json:"unwrapped_denom"`
	Receiver         string                 `json:"receiver"`
	OutputDenom      string                 `json:"output_denom"`
	Slippage         tokens.Slippage        `json:"slippage"`
	NextMemo         json.RawMessage        `json:"next_memo,omitempty"`
	OnFailedDelivery FailedDeliveryPolicy   `json:"on_failed_delivery"`
	Route            []tokens.SwapRoutePool `json:"route,omitempty"`
}

// InflightTransfer a sent transfer waiting for its delivery outcome
type InflightTransfer struct {
	ForwardReplyState
	Sequence uint64 `json:"sequence"`
}

// RecoveryEntry a claimable balance
type RecoveryEntry struct {
	Denom       string `json:"denom"`
	Amount      string `json:"amount"`
	OperationID uint64 `json:"operation_id"`
	Reason      string `json:"reason,omitempty"`
}

// Coin coin of the entry
func (e *RecoveryEntry) Coin() (tokens.Coin, error) {
	amount, err := common.GetBigIntFromStr(e.Amount)
	if err != nil {
		return tokens.Coin{}, err
	}
	return tokens.Coin{Denom: e.Denom, Amount: amount}, nil
}

// RecoverReplyState claimed entries whose release is not confirmed yet
type RecoverReplyState struct {
	Recipient string          `json:"recipient"`
	Entries   []RecoveryEntry `json:"entries"`
}

// StatusChange one step of operation history
type StatusChange struct {
	Status    OperationStatus `json:"status"`
	Timestamp int64           `json:"timestamp"`
	Detail    string          `json:"detail,omitempty"`
}

// Operation the observable record of a swap-and-forward
type Operation struct {
	ID         uint64          `json:"id"`
	Sender     string          `json:"sender"`
	Receiver   string          `json:"receiver"`
	Status     OperationStatus `json:"status"`
	InputCoin  tokens.Coin     `json:"input_coin"`
	OutputCoin *tokens.Coin    `json:"output_coin,omitempty"`
	Channel    string          `json:"channel,omitempty"`
	Sequence   uint64          `json:"sequence,omitempty"`
	Attempts   int             `json:"attempts"`
	History    []StatusChange  `json:"history"`
	UpdatedAt  int64           `json:"updated_at"`
}

func tokenKey(prefix []byte, token uint64) []byte {
	return append(append([]byte{}, prefix...), common.Uint64ToBytes(token)...)
}

func inflightKey(channel string, sequence uint64) []byte {
	key := append(append([]byte{}, prefixInflight...), channel...)
	key = append(key, '/')
	return append(key, common.Uint64ToBytes(sequence)...)
}

func recoveryKey(addr string) []byte {
	return append(append([]byte{}, prefixRecovery...), addr...)
}

func loadJSON(st store.KVStore, key []byte, v interface{}) (found bool, err error) {
	data, err := st.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode state '%s' failed: %w", key, err)
	}
	return true, nil
}

func saveJSON(st store.KVStore, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return st.Put(key, data)
}

func loadConfig(st store.KVStore) (*Config, error) {
	var cfg Config
	found, err := loadJSON(st, keyConfig, &cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotInitialized
	}
	return &cfg, nil
}

func saveConfig(st store.KVStore, cfg *Config) error {
	return saveJSON(st, keyConfig, cfg)
}

// nextToken mint a locally unique correlation token
func nextToken(st store.KVStore) (uint64, error) {
	token := uint64(1)
	data, err := st.Get(keyNextToken)
	switch {
	case err == nil:
		token, err = common.BytesToUint64(data)
		if err != nil {
			return 0, err
		}
	case !errors.Is(err, store.ErrNotFound):
		return 0, err
	}
	if err := st.Put(keyNextToken, common.Uint64ToBytes(token+1)); err != nil {
		return 0, err
	}
	return token, nil
}

// takeSwapReplyState read once then remove
func takeSwapReplyState(st store.KVStore, token uint64) (*SwapReplyState, error) {
	key := tokenKey(prefixSwapReply, token)
	var state SwapReplyState
	found, err := loadJSON(st, key, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: swap reply token %d", ErrUnknownCorrelation, token)
	}
	return &state, st.Delete(key)
}

func saveSwapReplyState(st store.KVStore, token uint64, state *SwapReplyState) error {
	key := tokenKey(prefixSwapReply, token)
	if exist, err := st.Has(key); err != nil || exist {
		return fmt.Errorf("swap reply token %d already pending (err=%v)", token, err)
	}
	return saveJSON(st, key, state)
}

// takeForwardReplyState read once then remove
func takeForwardReplyState(st store.KVStore, token uint64) (*ForwardReplyState, error) {
	key := tokenKey(prefixForwardReply, token)
	var state ForwardReplyState
	found, err := loadJSON(st, key, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: forward reply token %d", ErrUnknownCorrelation, token)
	}
	return &state, st.Delete(key)
}

func saveForwardReplyState(st store.KVStore, token uint64, state *ForwardReplyState) error {
	key := tokenKey(prefixForwardReply, token)
	if exist, err := st.Has(key); err != nil || exist {
		return fmt.Errorf("forward reply token %d already pending (err=%v)", token, err)
	}
	return saveJSON(st, key, state)
}

// takeRecoverReplyState read once then remove
func takeRecoverReplyState(st store.KVStore, token uint64) (*RecoverReplyState, error) {
	key := tokenKey(prefixRecoverReply, token)
	var state RecoverReplyState
	found, err := loadJSON(st, key, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: recover reply token %d", ErrUnknownCorrelation, token)
	}
	return &state, st.Delete(key)
}

func saveRecoverReplyState(st store.KVStore, token uint64, state *RecoverReplyState) error {
	return saveJSON(st, tokenKey(prefixRecoverReply, token), state)
}

// takeInflight returns nil if not exist
func takeInflight(st store.KVStore, channel string, sequence uint64) (*InflightTransfer, error) {
	key := inflightKey(channel, sequence)
	var inflight InflightTransfer
	found, err := loadJSON(st, key, &inflight)
	if err != nil || !found {
		return nil, err
	}
	return &inflight, st.Delete(key)
}

func saveInflight(st store.KVStore, inflight *InflightTransfer) error {
	return saveJSON(st, inflightKey(inflight.ChannelID, inflight.Sequence), inflight)
}

func loadRecovery(st store.KVStore, addr string) ([]RecoveryEntry, error) {
	entries := []RecoveryEntry{}
	if _, err := loadJSON(st, recoveryKey(addr), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func appendRecovery(st store.KVStore, addr string, entry RecoveryEntry) error {
	entries, err := loadRecovery(st, addr)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	return saveJSON(st, recoveryKey(addr), entries)
}

func loadOperation(st store.KVStore, id uint64) (*Operation, error) {
	var op Operation
	found, err := loadJSON(st, tokenKey(prefixOperation, id), &op)
	if err != nil || !found {
		return nil, err
	}
	return &op, nil
}

func saveOperation(st store.KVStore, op *Operation) error {
	return saveJSON(st, tokenKey(prefixOperation, op.ID), op)
}

// ListInflight list all in-flight transfers
func ListInflight(st store.KVStore) ([]*InflightTransfer, error) {
	var (
		result  []*InflightTransfer
		iterErr error
	)
	err := st.Iterate(prefixInflight, func(key, value []byte) bool {
		var inflight InflightTransfer
		if iterErr = json.Unmarshal(value, &inflight); iterErr != nil {
			return false
		}
		result = append(result, &inflight)
		return true
	})
	if err != nil {
		return nil, err
	}
	return result, iterErr
}

// PendingReleases count recovery releases waiting for the bank reply
func PendingReleases(st store.KVStore) (count int, err error) {
	err = st.Iterate(prefixRecoverReply, func(_, _ []byte) bool {
		count++
		return true
	})
	return count, err
}

// PendingReplies count pending swap and forward replies
func PendingReplies(st store.KVStore) (swaps, forwards int, err error) {
	err = st.Iterate(prefixSwapReply, func(_, _ []byte) bool {
		swaps++
		return true
	})
	if err != nil {
		return 0, 0, err
	}
	err = st.Iterate(prefixForwardReply, func(_, _ []byte) bool {
		forwards++
		return true
	})
	return swaps, forwards, err
}
