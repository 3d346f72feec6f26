package worker

import (
	"context"
	"errors"
	"time"

	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// StartLifecyclePollJob poll the outcome of in-flight transfers in background until ctx is done
func (h *Host) StartLifecyclePollJob(ctx context.Context, interval time.Duration) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		logWorker("lifecycle", "start lifecycle poll job", "interval", interval)
		for {
			h.PollInflight(ctx)
			if !restInJob(ctx, interval, nil) {
				logWorker("lifecycle", "stop lifecycle poll job")
				return
			}
		}
	}()
}

// PollInflight query the status of every in-flight transfer once.
// Returns the number of transfers which are resolved.
func (h *Host) PollInflight(ctx context.Context) (resolved int) {
	if h.collaborators.Transport == nil {
		return 0
	}
	inflights, err := h.ListInflight()
	if err != nil {
		logWorkerError("lifecycle", "list in-flight transfers failed", err)
		return 0
	}
	for _, inflight := range inflights {
		if ctx.Err() != nil {
			break
		}
		if h.pollOne(ctx, inflight) {
			resolved++
		}
	}
	return resolved
}

func (h *Host) pollOne(ctx context.Context, inflight *swaps.InflightTransfer) bool {
	channel, sequence := inflight.ChannelID, inflight.Sequence
	status, err := h.collaborators.Transport.PacketStatus(ctx, channel, sequence)
	if err != nil {
		if errors.Is(err, tokens.ErrPacketNotFound) {
			logWorkerWarn("lifecycle", "in-flight packet not found", "channel", channel, "sequence", sequence, "operation", inflight.OperationID)
		} else {
			logWorkerError("lifecycle", "get packet status failed", err, "channel", channel, "sequence", sequence)
		}
		return false
	}

	var resp *swaps.Response
	switch status.State {
	case tokens.PacketPending:
		logWorkerTrace("lifecycle", "packet is pending", "channel", channel, "sequence", sequence)
		return false
	case tokens.PacketAcknowledged:
		resp, err = h.DeliveryAck(channel, sequence, status.Ack, status.Success)
	case tokens.PacketTimedOut:
		resp, err = h.DeliveryTimeout(channel, sequence)
	default:
		logWorkerWarn("lifecycle", "unknown packet state", "channel", channel, "sequence", sequence, "state", status.State)
		return false
	}
	if err != nil {
		logWorkerError("lifecycle", "deliver packet outcome failed", err, "channel", channel, "sequence", sequence, "state", status.State)
		return false
	}
	if msg, exist := resp.Attribute("msg"); exist {
		logWorkerTrace("lifecycle", msg, "channel", channel, "sequence", sequence)
		return false
	}
	logWorker("lifecycle", "deliver packet outcome success", "channel", channel, "sequence", sequence, "state", status.State, "success", status.Success, "operation", inflight.OperationID)
	return true
}
