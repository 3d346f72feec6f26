package swaps

import (
	"encoding/json"
	"fmt"

	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// packet forward memo keys
const (
	forwardMetadataKey = "forward"
	forwardReceiverKey = "receiver"
	forwardPortKey     = "port"
	forwardChannelKey  = "channel"
	forwardNextKey     = "next"

	defaultForwardReceiver = "pfm"
)

// buildTransferMemo returns the receiver of the first hop and the memo of
// the outbound transfer. The callback key is always at the top level so
// that the local chain reports the delivery outcome back to callback.
// Multi-hop routes wrap the next memo into nested forward objects.
func buildTransferMemo(nextMemo json.RawMessage, callback string, route *tokens.Route, receiver string) (firstReceiver, memo string, err error) {
	if route == nil || len(route.Hops) == 0 {
		return "", "", fmt.Errorf("%w: empty route", ErrRegistryResolution)
	}
	next, err := parseNextMemo(nextMemo)
	if err != nil {
		return "", "", err
	}

	top := make(map[string]interface{})
	for key, val := range next {
		top[key] = val
	}
	firstReceiver = receiver

	hops := route.Hops
	if len(hops) > 1 {
		var inner interface{}
		if next != nil {
			inner = next
		}
		for i := len(hops) - 1; i >= 1; i-- {
			hopReceiver := receiver
			if i < len(hops)-1 {
				hopReceiver = intermediateReceiver(hops[i+1])
			}
			fwd := map[string]interface{}{
				forwardReceiverKey: hopReceiver,
				forwardPortKey:     hops[i].Port,
				forwardChannelKey:  hops[i].Channel,
			}
			if inner != nil {
				fwd[forwardNextKey] = inner
			}
			inner = map[string]interface{}{forwardMetadataKey: fwd}
		}
		top = inner.(map[string]interface{})
		firstReceiver = intermediateReceiver(hops[1])
	}

	top[callbackMemoKey] = callback
	data, err := json.Marshal(top)
	if err != nil {
		return "", "", err
	}
	return firstReceiver, string(data), nil
}

func intermediateReceiver(hop tokens.Hop) string {
	if hop.Receiver != "" {
		return hop.Receiver
	}
	return defaultForwardReceiver
}
