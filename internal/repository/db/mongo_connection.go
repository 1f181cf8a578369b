package db

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoConnectTimeout = 30 * time.Second
	mongoPingTimeout    = 15 * time.Second
)

// ConnectMongo dials MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetTimeout(mongoConnectTimeout).
		SetConnectTimeout(mongoConnectTimeout)
	if clientOptions.TLSConfig != nil {
		clientOptions.TLSConfig.MinVersion = tls.VersionTLS12
	}

	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, mongoPingTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}
