package swapapi

import (
	"fmt"

	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/worker"
)

// ConvertOperation convert operation
func ConvertOperation(op *swaps.Operation) *OperationInfo {
	return &OperationInfo{
		ID:         op.ID,
		Sender:     op.Sender,
		Receiver:   op.Receiver,
		Status:     op.Status,
		StatusMsg:  op.Status.String(),
		InputCoin:  op.InputCoin,
		OutputCoin: op.OutputCoin,
		Channel:    op.Channel,
		Sequence:   op.Sequence,
		Attempts:   op.Attempts,
		History:    op.History,
		UpdatedAt:  op.UpdatedAt,
	}
}

// ConvertResponse convert invocation response.
// Attributes with the same key keep the last value.
func ConvertResponse(resp *swaps.Response) *ResponseInfo {
	info := &ResponseInfo{
		Attributes: make(map[string]string, len(resp.Attributes)),
		Data:       resp.Data,
	}
	for _, attr := range resp.Attributes {
		info.Attributes[attr.Key] = attr.Value
	}
	for _, msg := range resp.Messages {
		info.Messages = append(info.Messages, fmt.Sprintf("%v:%d", msg.Msg.Kind(), msg.Token))
	}
	return info
}

// ConvertInflights convert in-flight transfers
func ConvertInflights(inflights []*swaps.InflightTransfer) []*InflightInfo {
	result := make([]*InflightInfo, len(inflights))
	for i, inflight := range inflights {
		result[i] = &InflightInfo{
			OperationID: inflight.OperationID,
			Channel:     inflight.ChannelID,
			Sequence:    inflight.Sequence,
			Receiver:    inflight.Receiver,
			Coin:        inflight.Coin,
			Attempt:     inflight.Attempt,
			Unwrap:      inflight.Unwrap != nil,
		}
	}
	return result
}

// ConvertOutboxEntries convert outbox entries
func ConvertOutboxEntries(entries []*worker.OutboxEntry) []*OutboxInfo {
	result := make([]*OutboxInfo, len(entries))
	for i, entry := range entries {
		result[i] = &OutboxInfo{
			Token:     entry.SubMsg.Token,
			Kind:      entry.SubMsg.Msg.Kind(),
			ReplyID:   entry.SubMsg.ReplyID.String(),
			CreatedAt: entry.CreatedAt,
			Attempts:  entry.Attempts,
			LastError: entry.LastError,
		}
	}
	return result
}
