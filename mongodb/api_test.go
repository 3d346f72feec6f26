package mongodb

import (
	"errors"
	"testing"

	"github.com/anyswap/CrossChain-Swaps/swaps"
	rpcjson "github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNewOperationEvent(t *testing.T) {
	ev := &swaps.OperationEvent{
		OperationID: 7,
		Sender:      "osmo1sender",
		Status:      swaps.Recoverable,
		Detail:      "packet timed out",
		Timestamp:   1650000000,
	}
	doc := NewOperationEvent(ev)
	assert.NotEmpty(t, doc.Key)
	assert.Equal(t, uint64(7), doc.OperationID)
	assert.Equal(t, uint16(swaps.Recoverable), doc.Status)
	assert.Equal(t, "Recoverable", doc.StatusName)
	assert.Equal(t, int64(1650000000), doc.Timestamp)

	assert.NotEqual(t, doc.Key, NewOperationEvent(ev).Key)
}

func TestMongoError(t *testing.T) {
	assert.NoError(t, mongoError(nil))
	assert.Equal(t, ErrItemNotFound, mongoError(mongo.ErrNoDocuments))

	err := mongoError(errors.New("boom"))
	var rpcErr *rpcjson.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, rpcjson.ErrorCode(-32001), rpcErr.Code)
}

func TestNotConnected(t *testing.T) {
	assert.False(t, HasClient())
	assert.True(t, errors.Is(AddOperationEvents([]swaps.OperationEvent{{OperationID: 1}}), ErrMongoUnavailable))
	assert.NoError(t, AddOperationEvents(nil))
	_, err := FindOperationEvents(1)
	assert.True(t, errors.Is(err, ErrMongoUnavailable))
}

func TestGetAddrs(t *testing.T) {
	assert.Equal(t, []string{"127.0.0.1:27017", "10.0.0.1:27017"},
		GetAddrs("mongodb://127.0.0.1:27017", []string{"10.0.0.1:27017", ""}))
	assert.Empty(t, GetAddrs("", nil))
}
