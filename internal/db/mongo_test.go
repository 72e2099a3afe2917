package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestMongoLifecycleEvents(t *testing.T) {
	var buf bytes.Buffer
	m := &Mongo{log: zerolog.New(&buf)}

	m.markConnected()
	m.markConnected()
	if n := strings.Count(buf.String(), "successfully connected"); n != 1 {
		t.Fatalf("connected logged %d times:\n%s", n, buf.String())
	}

	m.markFailed(errors.New("heartbeat timeout"))
	out := buf.String()
	if !strings.Contains(out, "connection error") || !strings.Contains(out, "heartbeat timeout") {
		t.Errorf("error event missing:\n%s", out)
	}
	if !strings.Contains(out, "mongodb disconnected") {
		t.Errorf("disconnect event missing:\n%s", out)
	}

	buf.Reset()
	m.markFailed(errors.New("still down"))
	if strings.Contains(buf.String(), "mongodb disconnected") {
		t.Errorf("disconnect logged twice:\n%s", buf.String())
	}

	m.markConnected()
	if !strings.Contains(buf.String(), "successfully connected") {
		t.Errorf("reconnect not logged:\n%s", buf.String())
	}
}

func TestMongoCloseWithoutClient(t *testing.T) {
	m := &Mongo{log: zerolog.Nop()}
	if err := m.Close(context.Background()); err != nil {
		t.Errorf("Close: %v", err)
	}
}
