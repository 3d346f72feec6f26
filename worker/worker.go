package worker

import (
	"context"

	"github.com/anyswap/CrossChain-Swaps/params"
)

// StartWork start the dispatch and lifecycle poll jobs of host
func StartWork(ctx context.Context, h *Host, cfg *params.ServicesConfig) {
	logWorker("worker", "start swaps worker")

	h.StartDispatchJob(ctx, cfg.GetDispatchInterval())

	if cfg.DisablePoll {
		logWorker("worker", "lifecycle poll job is disabled")
		return
	}
	h.StartLifecyclePollJob(ctx, cfg.GetPollInterval())
}
