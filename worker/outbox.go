package worker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/store"
	"github.com/anyswap/CrossChain-Swaps/swaps"
)

var (
	prefixOutbox       = []byte("outbox/")
	prefixOutboxFailed = []byte("outbox_failed/")
)

// OutboxEntry a committed message waiting to be dispatched
type OutboxEntry struct {
	SubMsg    swaps.SubMsg `json:"sub_msg"`
	CreatedAt int64        `json:"created_at"`
	Attempts  int          `json:"attempts"`
	LastError string       `json:"last_error,omitempty"`
}

func outboxKey(prefix []byte, token uint64) []byte {
	return append(append([]byte{}, prefix...), common.Uint64ToBytes(token)...)
}

func addOutboxEntries(st store.KVStore, env swaps.Env, msgs []swaps.SubMsg) error {
	for _, msg := range msgs {
		key := outboxKey(prefixOutbox, msg.Token)
		if exist, err := st.Has(key); err != nil {
			return err
		} else if exist {
			return fmt.Errorf("duplicate outbox token %d", msg.Token)
		}
		if err := putOutboxEntry(st, key, &OutboxEntry{SubMsg: msg, CreatedAt: env.Time}); err != nil {
			return err
		}
	}
	return nil
}

func putOutboxEntry(st store.KVStore, key []byte, entry *OutboxEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return st.Put(key, data)
}

func getOutboxEntry(st store.KVStore, key []byte) (*OutboxEntry, error) {
	data, err := st.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var entry OutboxEntry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func listOutboxEntries(st store.KVStore, prefix []byte) ([]*OutboxEntry, error) {
	var (
		entries []*OutboxEntry
		iterErr error
	)
	err := st.Iterate(prefix, func(_, value []byte) bool {
		var entry OutboxEntry
		if iterErr = json.Unmarshal(value, &entry); iterErr != nil {
			return false
		}
		entries = append(entries, &entry)
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, iterErr
}
