package mongodb

import (
	"fmt"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/log"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/pborman/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	maxCountOfResults = 1000
)

// NewOperationEvent convert operation event to document
func NewOperationEvent(ev *swaps.OperationEvent) *MgoOperationEvent {
	return &MgoOperationEvent{
		Key:         uuid.New(),
		OperationID: ev.OperationID,
		Sender:      ev.Sender,
		Status:      uint16(ev.Status),
		StatusName:  ev.Status.String(),
		Detail:      ev.Detail,
		Timestamp:   ev.Timestamp,
		InsertTime:  common.Now(),
	}
}

// AddOperationEvents add operation events
func AddOperationEvents(events []swaps.OperationEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := checkClient(); err != nil {
		return err
	}
	docs := make([]interface{}, len(events))
	for i := range events {
		docs[i] = NewOperationEvent(&events[i])
	}
	ctx, cancel := withTimeout()
	defer cancel()
	_, err := collOperationEvents.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		log.Trace("[mongodb] add operation events success", "count", len(docs))
	} else {
		log.Debug("[mongodb] add operation events failed", "count", len(docs), "err", err)
	}
	return mongoError(err)
}

// FindOperationEvents find history of an operation
func FindOperationEvents(operationID uint64) ([]*MgoOperationEvent, error) {
	return findOperationEvents(bson.M{"operationid": operationID}, 0, 0)
}

// FindSenderEvents find events of sender, latest first.
// A negative limit means ascending order.
func FindSenderEvents(sender string, offset, limit int) ([]*MgoOperationEvent, error) {
	return findOperationEvents(bson.M{"sender": sender}, offset, limit)
}

func findOperationEvents(filter bson.M, offset, limit int) ([]*MgoOperationEvent, error) {
	if err := checkClient(); err != nil {
		return nil, err
	}
	opts := options.Find()
	switch {
	case limit == 0:
		opts.SetSort(bson.D{{Key: "timestamp", Value: 1}}).SetLimit(maxCountOfResults)
	case limit > 0:
		opts.SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(normalizeLimit(limit)))
	default:
		opts.SetSort(bson.D{{Key: "timestamp", Value: 1}}).SetLimit(int64(normalizeLimit(-limit)))
	}
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	ctx, cancel := withTimeout()
	defer cancel()
	cursor, err := collOperationEvents.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	result := make([]*MgoOperationEvent, 0, 20)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, mongoError(fmt.Errorf("decode operation events: %w", err))
	}
	return result, nil
}

func normalizeLimit(limit int) int {
	if limit > maxCountOfResults {
		return maxCountOfResults
	}
	return limit
}

// HistorySink persists operation events
type HistorySink struct{}

// OnEvents impl worker event sink
func (HistorySink) OnEvents(events []swaps.OperationEvent) {
	if err := AddOperationEvents(events); err != nil {
		log.Warn("[mongodb] save operation history failed", "count", len(events), "err", err)
	}
}
