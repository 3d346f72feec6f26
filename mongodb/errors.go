package mongodb

import (
	"errors"

	rpcjson "github.com/gorilla/rpc/v2/json2"
	"go.mongodb.org/mongo-driver/mongo"
)

func newError(ec rpcjson.ErrorCode, message string) error {
	return &rpcjson.Error{
		Code:    ec,
		Message: message,
	}
}

func mongoError(err error) error {
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrItemNotFound
		}
		if errors.Is(err, ErrMongoUnavailable) {
			return err
		}
		return newError(-32001, "mongoError: "+err.Error())
	}
	return nil
}

// mongodb special errors
var (
	ErrItemNotFound     = newError(-32002, "mongoError: Item not found")
	ErrMongoUnavailable = newError(-32003, "mongoError: database unavailable")
)
