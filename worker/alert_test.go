package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/anyswap/CrossChain-Swaps/params"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to, cc  []string
	subject string
	content string
}

func TestEmailAlertSink(t *testing.T) {
	sink := NewEmailAlertSink("swaps-test", &params.EmailConfig{
		To:       []string{"ops@example.com"},
		Interval: 60,
	})
	var sent []sentEmail
	var sendErr error
	sink.send = func(to, cc []string, subject, content string) error {
		if sendErr != nil {
			return sendErr
		}
		sent = append(sent, sentEmail{to, cc, subject, content})
		return nil
	}
	now := time.Unix(1650000000, 0)
	sink.now = func() time.Time { return now }

	sink.OnEvents([]swaps.OperationEvent{
		{OperationID: 1, Status: swaps.Received},
		{OperationID: 1, Status: swaps.SwapRequested},
	})
	assert.Empty(t, sent)

	sink.OnEvents([]swaps.OperationEvent{{OperationID: 1, Sender: "osmo1sender", Status: swaps.Recoverable, Detail: "swap failed"}})
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"ops@example.com"}, sent[0].to)
	assert.Equal(t, "[swaps-test] operations recoverable", sent[0].subject)
	assert.Contains(t, sent[0].content, "operation 1 sender osmo1sender")
	assert.Contains(t, sent[0].content, "swap failed")

	// within interval, batched
	now = now.Add(30 * time.Second)
	sink.OnEvents([]swaps.OperationEvent{{OperationID: 2, Status: swaps.Recoverable}})
	assert.Len(t, sent, 1)

	// failed sending keeps pending events
	now = now.Add(time.Minute)
	sendErr = errors.New("smtp unavailable")
	sink.OnEvents([]swaps.OperationEvent{{OperationID: 3, Status: swaps.Recoverable}})
	assert.Len(t, sent, 1)

	sendErr = nil
	sink.OnEvents([]swaps.OperationEvent{{OperationID: 4, Status: swaps.Delivered}})
	require.Len(t, sent, 2)
	assert.Contains(t, sent[1].content, "2 operation(s) became recoverable")
	assert.Contains(t, sent[1].content, "operation 2 ")
	assert.Contains(t, sent[1].content, "operation 3 ")
}
