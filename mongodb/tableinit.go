package mongodb

import (
	"github.com/anyswap/CrossChain-Swaps/log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	database *mongo.Database

	collOperationEvents *mongo.Collection
)

func initCollections() {
	database = client.Database(databaseName)

	initCollection(tbOperationEvents, &collOperationEvents, "operationid", "timestamp")
	createOneIndex(collOperationEvents, "sender", "timestamp")
}

func initCollection(table string, collection **mongo.Collection, indexKey ...string) {
	*collection = database.Collection(table)
	if len(indexKey) != 0 {
		createOneIndex(*collection, indexKey...)
	}
}

func createOneIndex(coll *mongo.Collection, indexes ...string) {
	keys := make(bson.D, len(indexes))
	for i, index := range indexes {
		keys[i] = bson.E{Key: index, Value: 1}
	}
	model := mongo.IndexModel{Keys: keys}
	ctx, cancel := withTimeout()
	defer cancel()
	_, err := coll.Indexes().CreateOne(ctx, model)
	if err != nil {
		log.Error("[mongodb] create indexes failed", "collection", coll.Name(), "indexes", indexes, "err", err)
	}
}
