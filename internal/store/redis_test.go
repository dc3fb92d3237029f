package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"

	"sweep-radar.klederson.com/internal/bluetooth"
	"sweep-radar.klederson.com/internal/observability"
)

type fakeRedis struct {
	channel  []string
	messages [][]byte
	err      error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = append(f.channel, channel)
	f.messages = append(f.messages, message.([]byte))
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	return redis.NewIntResult(1, nil)
}

func TestPublisherPayload(t *testing.T) {
	fake := &fakeRedis{}
	p := newPublisher(fake, "", observability.NopLogger())
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	p.DeviceAdded(bluetooth.Device{Address: "AA:BB", Name: "Speaker", RSSI: -61, Type: bluetooth.DeviceTypeClassic})
	p.DeviceLost(bluetooth.Device{Address: "CC:DD", Name: bluetooth.UnknownName, RSSI: -90})

	if len(fake.messages) != 2 {
		t.Fatalf("published %d messages, want 2", len(fake.messages))
	}
	for _, ch := range fake.channel {
		if ch != DefaultChannel {
			t.Errorf("channel = %q, want %q", ch, DefaultChannel)
		}
	}

	tests := []struct {
		msg  int
		path string
		want string
	}{
		{0, "kind", EventNew},
		{0, "address", "AA:BB"},
		{0, "name", "Speaker"},
		{0, "rssi", "-61"},
		{0, "type", "Classic"},
		{0, "time", "2024-05-01T12:00:00Z"},
		{1, "kind", EventLost},
		{1, "name", bluetooth.UnknownName},
		{1, "type", "BLE"},
	}
	for _, tt := range tests {
		if got := gjson.GetBytes(fake.messages[tt.msg], tt.path).String(); got != tt.want {
			t.Errorf("message %d %s = %q, want %q", tt.msg, tt.path, got, tt.want)
		}
	}
}

func TestPublisherLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	fake := &fakeRedis{err: errors.New("connection refused")}
	p := newPublisher(fake, "radar", observability.NewLogger(&buf, slog.LevelInfo))

	p.DeviceLost(bluetooth.Device{Address: "AA:BB"})

	line := buf.String()
	if got := gjson.Get(line, "msg").String(); got != "redis PUBLISH failed" {
		t.Errorf("logged msg = %q", got)
	}
	if got := gjson.Get(line, "channel").String(); got != "radar" {
		t.Errorf("logged channel = %q, want radar", got)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() without connection = %v", err)
	}
}
