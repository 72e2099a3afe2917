package db

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo owns the process-wide MongoDB client. Its lifecycle is logged as
// connected, disconnected and error events.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database

	log       zerolog.Logger
	connected atomic.Bool
}

func ConnectMongo(ctx context.Context, uri, database string, log zerolog.Logger) (*Mongo, error) {
	m := &Mongo{log: log.With().Str("component", "mongodb").Logger()}

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerMonitor(&event.ServerMonitor{
			ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) { m.markConnected() },
			ServerHeartbeatFailed:    func(e *event.ServerHeartbeatFailedEvent) { m.markFailed(e.Failure) },
		})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		m.log.Error().Err(err).Msg("connection error")
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	m.markConnected()

	m.Client = client
	m.Database = client.Database(database)
	return m, nil
}

func (m *Mongo) markConnected() {
	if m.connected.CompareAndSwap(false, true) {
		m.log.Info().Msg("mongodb successfully connected")
	}
}

func (m *Mongo) markFailed(err error) {
	m.log.Error().Err(err).Msg("connection error")
	if m.connected.CompareAndSwap(true, false) {
		m.log.Warn().Msg("mongodb disconnected")
	}
}

// Drop removes the whole database. Used by tests after their run.
func (m *Mongo) Drop(ctx context.Context) error {
	return m.Database.Drop(ctx)
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	err := m.Client.Disconnect(ctx)
	if m.connected.Swap(false) {
		m.log.Info().Msg("mongodb disconnection successful")
	}
	return err
}
