package worker

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/leveldb"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChannel = "channel-1"

func testAddress(t *testing.T, prefix, seed string) string {
	data := make([]byte, 20)
	copy(data, seed)
	addr, err := common.EncodeBech32Address(prefix, data)
	require.NoError(t, err)
	return addr
}

type testRegistry struct{}

func (testRegistry) ResolveRoute(denom string) (*tokens.Route, error) {
	switch denom {
	case "ux", "uy":
		return &tokens.Route{Denom: denom, Hops: []tokens.Hop{{Port: "transfer", Channel: testChannel}}}, nil
	default:
		return nil, tokens.ErrRouteNotFound
	}
}

type fakeSwapService struct {
	mu       sync.Mutex
	errs     []error
	outDenom string
	requests []*tokens.SwapRequest
}

func (s *fakeSwapService) Swap(_ context.Context, req *tokens.SwapRequest) (*tokens.SwapResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	amount := new(big.Int).Sub(req.InputCoin.Amount, big.NewInt(10))
	outDenom := req.OutputDenom
	if s.outDenom != "" {
		outDenom = s.outDenom
	}
	return &tokens.SwapResult{TokenOutDenom: outDenom, Amount: amount}, nil
}

type fakeTransport struct {
	mu       sync.Mutex
	errs     []error
	sequence uint64
	requests []*tokens.TransferRequest
	statuses map[string]*tokens.PacketStatus
}

func packetID(channel string, sequence uint64) string {
	return channel + "/" + strconv.FormatUint(sequence, 10)
}

func (tr *fakeTransport) Transfer(_ context.Context, req *tokens.TransferRequest) (*tokens.TransferResult, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.requests = append(tr.requests, req)
	if len(tr.errs) > 0 {
		err := tr.errs[0]
		tr.errs = tr.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	tr.sequence++
	return &tokens.TransferResult{Channel: req.SourceChannel, Sequence: tr.sequence}, nil
}

func (tr *fakeTransport) PacketStatus(_ context.Context, channel string, sequence uint64) (*tokens.PacketStatus, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	status, exist := tr.statuses[packetID(channel, sequence)]
	if !exist {
		return nil, tokens.ErrPacketNotFound
	}
	return status, nil
}

func (tr *fakeTransport) setStatus(channel string, sequence uint64, status *tokens.PacketStatus) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.statuses[packetID(channel, sequence)] = status
}

type fakeBank struct {
	mu    sync.Mutex
	err   error
	sends []*tokens.BankSend
}

func (b *fakeBank) Send(_ context.Context, msg *tokens.BankSend) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.sends = append(b.sends, msg)
	return nil
}

type recordSink struct {
	mu     sync.Mutex
	events []swaps.OperationEvent
}

func (s *recordSink) OnEvents(events []swaps.OperationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

func (s *recordSink) statuses(opID uint64) (result []swaps.OperationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.OperationID == opID {
			result = append(result, ev.Status)
		}
	}
	return result
}

type testHost struct {
	*Host
	t         *testing.T
	swapper   *fakeSwapService
	transport *fakeTransport
	bank      *fakeBank
	sink      *recordSink

	governor string
	sender   string
	receiver string
}

func newTestHost(t *testing.T) *testHost {
	db, err := leveldb.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	th := &testHost{
		t:         t,
		swapper:   &fakeSwapService{},
		transport: &fakeTransport{statuses: make(map[string]*tokens.PacketStatus)},
		bank:      &fakeBank{},
		sink:      &recordSink{},
		governor:  testAddress(t, "osmo", "governor"),
		sender:    testAddress(t, "osmo", "sender"),
		receiver:  testAddress(t, "juno", "receiver"),
	}
	contract := swaps.NewContract(swaps.Settings{
		ContractAddress: testAddress(t, "osmo", "self"),
		Bech32Prefix:    "osmo",
	}, testRegistry{})
	th.Host = NewHost(db, contract, Collaborators{
		SwapService: th.swapper,
		Transport:   th.transport,
		Bank:        th.bank,
	})
	th.Host.now = func() int64 { return 1650000000 }
	th.AddEventSink(th.sink)

	initialized, err := th.IsInitialized()
	require.NoError(t, err)
	require.False(t, initialized)

	_, err = th.Instantiate(th.governor, &swaps.InstantiateMsg{
		SwapContract:     testAddress(t, "osmo", "swapper"),
		Governor:         th.governor,
		RegistryContract: testAddress(t, "osmo", "registry"),
	})
	require.NoError(t, err)

	initialized, err = th.IsInitialized()
	require.NoError(t, err)
	require.True(t, initialized)
	return th
}

func (th *testHost) swap(amount int64, inDenom, outDenom string) uint64 {
	resp, err := th.ExecuteSwapAndForward(th.sender, tokens.Coins{tokens.NewCoin(inDenom, amount)}, &swaps.SwapAndForwardMsg{
		OutputDenom: outDenom,
		Receiver:    th.receiver,
		Slippage:    tokens.Slippage{MinOutputAmount: "1"},
	})
	require.NoError(th.t, err)
	value, exist := resp.Attribute("operation_id")
	require.True(th.t, exist)
	opID, err := strconv.ParseUint(value, 10, 64)
	require.NoError(th.t, err)
	return opID
}

func (th *testHost) operation(opID uint64) *swaps.Operation {
	op, err := th.QueryOperation(opID)
	require.NoError(th.t, err)
	return op
}

func (th *testHost) outboxLen() int {
	entries, err := th.ListOutbox()
	require.NoError(th.t, err)
	return len(entries)
}

func TestSwapAndForwardDelivered(t *testing.T) {
	th := newTestHost(t)
	ctx := context.Background()

	opID := th.swap(100, "ux", "uy")
	assert.Equal(t, swaps.SwapRequested, th.operation(opID).Status)
	assert.Equal(t, 1, th.outboxLen())

	assert.Equal(t, 1, th.DispatchPending(ctx))
	require.Len(t, th.swapper.requests, 1)
	assert.Equal(t, "ux", th.swapper.requests[0].InputCoin.Denom)
	assert.Equal(t, swaps.ForwardRequested, th.operation(opID).Status)
	assert.Equal(t, 1, th.outboxLen())

	assert.Equal(t, 1, th.DispatchPending(ctx))
	require.Len(t, th.transport.requests, 1)
	transfer := th.transport.requests[0]
	assert.Equal(t, th.receiver, transfer.Receiver)
	assert.Equal(t, testChannel, transfer.SourceChannel)
	assert.Equal(t, tokens.NewCoin("uy", 90), transfer.Coin)
	assert.Equal(t, 0, th.outboxLen())

	op := th.operation(opID)
	assert.Equal(t, testChannel, op.Channel)
	assert.Equal(t, uint64(1), op.Sequence)

	inflight, err := th.ListInflight()
	require.NoError(t, err)
	require.Len(t, inflight, 1)

	// not reported yet
	assert.Equal(t, 0, th.PollInflight(ctx))

	th.transport.setStatus(testChannel, 1, &tokens.PacketStatus{State: tokens.PacketPending})
	assert.Equal(t, 0, th.PollInflight(ctx))

	th.transport.setStatus(testChannel, 1, &tokens.PacketStatus{State: tokens.PacketAcknowledged, Success: true, Ack: "AQ=="})
	assert.Equal(t, 1, th.PollInflight(ctx))
	assert.Equal(t, swaps.Delivered, th.operation(opID).Status)

	// relayer pushes the same outcome again
	resp, err := th.DeliveryAck(testChannel, 1, "AQ==", true)
	require.NoError(t, err)
	msg, _ := resp.Attribute("msg")
	assert.Equal(t, "received unexpected ack", msg)
	assert.Equal(t, 0, th.PollInflight(ctx))

	assert.Equal(t, []swaps.OperationStatus{
		swaps.Received, swaps.SwapRequested, swaps.SwapConfirmed, swaps.ForwardRequested,
		swaps.ForwardRequested, swaps.Delivered,
	}, th.sink.statuses(opID))

	stats, err := th.GetStats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, stats)
}

func TestTransientErrorIsRetried(t *testing.T) {
	th := newTestHost(t)
	ctx := context.Background()

	th.swapper.errs = []error{errors.New("connection refused")}
	opID := th.swap(100, "ux", "uy")

	assert.Equal(t, 0, th.DispatchPending(ctx))
	entries, err := th.ListOutbox()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Attempts)
	assert.Equal(t, "connection refused", entries[0].LastError)
	assert.Equal(t, swaps.SwapRequested, th.operation(opID).Status)

	assert.Equal(t, 1, th.DispatchPending(ctx))
	assert.Equal(t, swaps.ForwardRequested, th.operation(opID).Status)
	assert.Len(t, th.swapper.requests, 2)
}

func TestRejectedSwapBecomesRecoverable(t *testing.T) {
	th := newTestHost(t)
	ctx := context.Background()

	th.swapper.errs = []error{fmt.Errorf("%w: pool not found", tokens.ErrServiceRejected)}
	opID := th.swap(100, "ux", "uy")

	assert.Equal(t, 1, th.DispatchPending(ctx))
	assert.Equal(t, 0, th.outboxLen())
	assert.Equal(t, swaps.Recoverable, th.operation(opID).Status)

	entries, err := th.QueryRecoverable(th.sender)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ux", entries[0].Denom)
	assert.Equal(t, "100", entries[0].Amount)

	_, err = th.ExecuteRecover(th.sender)
	require.NoError(t, err)
	assert.Equal(t, 1, th.outboxLen())

	assert.Equal(t, 1, th.DispatchPending(ctx))
	assert.Equal(t, 0, th.outboxLen())
	require.Len(t, th.bank.sends, 1)
	assert.Equal(t, th.sender, th.bank.sends[0].ToAddress)
	assert.Equal(t, tokens.Coins{tokens.NewCoin("ux", 100)}, th.bank.sends[0].Amount)

	entries, err = th.QueryRecoverable(th.sender)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRejectedTransferBecomesRecoverable(t *testing.T) {
	th := newTestHost(t)
	ctx := context.Background()

	th.transport.errs = []error{fmt.Errorf("%w: channel closed", tokens.ErrServiceRejected)}
	opID := th.swap(100, "ux", "ux")
	assert.Equal(t, swaps.ForwardRequested, th.operation(opID).Status)

	assert.Equal(t, 1, th.DispatchPending(ctx))
	assert.Equal(t, swaps.Recoverable, th.operation(opID).Status)

	entries, err := th.QueryRecoverable(th.sender)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ux", entries[0].Denom)
}

func TestTimeoutFromPoll(t *testing.T) {
	th := newTestHost(t)
	ctx := context.Background()

	opID := th.swap(100, "ux", "ux")
	assert.Equal(t, 1, th.DispatchPending(ctx))

	th.transport.setStatus(testChannel, 1, &tokens.PacketStatus{State: tokens.PacketTimedOut})
	assert.Equal(t, 1, th.PollInflight(ctx))
	assert.Equal(t, swaps.Recoverable, th.operation(opID).Status)

	inflight, err := th.ListInflight()
	require.NoError(t, err)
	assert.Empty(t, inflight)
}

func TestRejectedReleaseRestoresRecoverable(t *testing.T) {
	th := newTestHost(t)
	ctx := context.Background()

	th.swapper.errs = []error{fmt.Errorf("%w: bad slippage", tokens.ErrServiceRejected)}
	th.swap(100, "ux", "uy")
	assert.Equal(t, 1, th.DispatchPending(ctx))
	before, err := th.QueryRecoverable(th.sender)
	require.NoError(t, err)
	require.Len(t, before, 1)

	th.bank.err = fmt.Errorf("%w: module account", tokens.ErrServiceRejected)
	_, err = th.ExecuteRecover(th.sender)
	require.NoError(t, err)
	stats, err := th.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PendingReleases)

	assert.Equal(t, 1, th.DispatchPending(ctx))
	assert.Equal(t, 0, th.outboxLen())
	assert.Empty(t, th.bank.sends)

	entries, err := th.QueryRecoverable(th.sender)
	require.NoError(t, err)
	assert.Equal(t, before, entries)

	stats, err = th.GetStats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, stats)

	th.bank.err = nil
	_, err = th.ExecuteRecover(th.sender)
	require.NoError(t, err)
	assert.Equal(t, 1, th.DispatchPending(ctx))
	require.Len(t, th.bank.sends, 1)
	assert.Equal(t, tokens.Coins{tokens.NewCoin("ux", 100)}, th.bank.sends[0].Amount)

	entries, err = th.QueryRecoverable(th.sender)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRefusedReplyMovedToFailed(t *testing.T) {
	th := newTestHost(t)
	ctx := context.Background()

	th.swapper.outDenom = "uz"
	opID := th.swap(100, "ux", "uy")

	assert.Equal(t, 0, th.DispatchPending(ctx))
	assert.Equal(t, 0, th.outboxLen())
	failed, err := th.ListFailedOutbox()
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "swap", failed[0].SubMsg.Msg.Kind())
	assert.Equal(t, 1, failed[0].Attempts)
	assert.Equal(t, swaps.SwapRequested, th.operation(opID).Status)

	stats, err := th.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FailedOutbox)
	assert.Equal(t, 1, stats.PendingSwaps)
}

func TestAbortedInvocationLeavesNoOutbox(t *testing.T) {
	th := newTestHost(t)

	_, err := th.ExecuteSwapAndForward(th.sender, tokens.Coins{tokens.NewCoin("ux", 100)}, &swaps.SwapAndForwardMsg{
		OutputDenom: "unknown",
		Receiver:    th.receiver,
		Slippage:    tokens.Slippage{MinOutputAmount: "1"},
	})
	assert.Error(t, err)
	assert.Equal(t, 0, th.outboxLen())

	stats, err := th.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.PendingSwaps)
}

func TestStartWork(t *testing.T) {
	th := newTestHost(t)
	ctx, cancel := context.WithCancel(context.Background())

	th.StartDispatchJob(ctx, time.Hour)
	th.StartLifecyclePollJob(ctx, 10*time.Millisecond)

	opID := th.swap(100, "ux", "uy")
	require.Eventually(t, func() bool {
		op, err := th.QueryOperation(opID)
		return err == nil && op.Sequence == 1
	}, 5*time.Second, 10*time.Millisecond)

	th.transport.setStatus(testChannel, 1, &tokens.PacketStatus{State: tokens.PacketAcknowledged, Success: true})
	require.Eventually(t, func() bool {
		op, err := th.QueryOperation(opID)
		return err == nil && op.Status == swaps.Delivered
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	th.Wait()
}
