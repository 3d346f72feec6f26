// Package mongodb stores the operation history of the swaps server.
package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anyswap/CrossChain-Swaps/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client    *mongo.Client
	clientCtx = context.Background()

	databaseName string

	connectTimeout = 30 * time.Second
	opTimeout      = 10 * time.Second
)

// HasClient has client connected
func HasClient() bool {
	return client != nil
}

// MongoServerInit init mongodb client and collections
func MongoServerInit(addrs []string, dbname, user, pass string) error {
	databaseName = dbname
	clientOpts := options.Client().
		SetHosts(addrs).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)
	if user != "" {
		clientOpts.SetAuth(options.Credential{
			AuthSource: dbname,
			Username:   user,
			Password:   pass,
		})
	}
	if err := clientOpts.Validate(); err != nil {
		return err
	}

	log.Info("[mongodb] connect database start.", "addrs", addrs, "dbName", dbname)
	var err error
	for i := 0; i < 3; i++ {
		err = mongoConnect(clientOpts)
		if err == nil {
			break
		}
		log.Warn("[mongodb] connect error", "err", err)
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return err
	}
	initCollections()
	log.Info("[mongodb] connect database finished.", "dbName", dbname)
	return nil
}

func mongoConnect(clientOpts *options.ClientOptions) error {
	ctx, cancel := context.WithTimeout(clientCtx, connectTimeout)
	defer cancel()
	c, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return err
	}
	if err = c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(clientCtx)
		return err
	}
	client = c
	return nil
}

// MongoServerClose disconnect client
func MongoServerClose() {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(clientCtx, opTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn("[mongodb] disconnect error", "err", err)
	}
	client = nil
}

// GetAddrs parse addresses of url or urls config
func GetAddrs(dbURL string, dbURLs []string) []string {
	addrs := make([]string, 0, len(dbURLs)+1)
	for _, url := range append([]string{dbURL}, dbURLs...) {
		url = strings.TrimPrefix(url, "mongodb://")
		if url != "" {
			addrs = append(addrs, url)
		}
	}
	return addrs
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(clientCtx, opTimeout)
}

func checkClient() error {
	if client == nil || collOperationEvents == nil {
		return fmt.Errorf("%w: not connected", ErrMongoUnavailable)
	}
	return nil
}
