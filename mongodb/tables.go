package mongodb

const (
	tbOperationEvents string = "OperationEvents"
)

// MgoOperationEvent one status change of a swap-and-forward operation
type MgoOperationEvent struct {
	Key         string `bson:"_id"`
	OperationID uint64 `bson:"operationid"`
	Sender      string `bson:"sender"`
	Status      uint16 `bson:"status"`
	StatusName  string `bson:"statusname"`
	Detail      string `bson:"detail"`
	Timestamp   int64  `bson:"timestamp"`
	InsertTime  int64  `bson:"inserttime"`
}
