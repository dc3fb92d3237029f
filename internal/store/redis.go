// Package store publishes device membership changes to Redis so other
// processes can follow what the radar sees.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sweep-radar.klederson.com/internal/bluetooth"
)

// DefaultChannel is the Pub/Sub channel used when none is configured.
const DefaultChannel = "sweep-radar:devices"

const publishTimeout = 2 * time.Second

// Event kinds.
const (
	EventNew  = "new"
	EventLost = "lost"
)

// DeviceEvent is the JSON payload published for each change.
type DeviceEvent struct {
	Kind    string    `json:"kind"`
	Address string    `json:"address"`
	Name    string    `json:"name"`
	RSSI    int       `json:"rssi"`
	Type    string    `json:"type"`
	Time    time.Time `json:"time"`
}

// NewDeviceEvent builds the payload for d.
func NewDeviceEvent(kind string, d bluetooth.Device, at time.Time) DeviceEvent {
	return DeviceEvent{
		Kind:    kind,
		Address: d.Address,
		Name:    d.Name,
		RSSI:    d.RSSI,
		Type:    d.Type.String(),
		Time:    at.UTC(),
	}
}

// pubsub is the part of the Redis client the publisher needs.
type pubsub interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher sends DeviceEvents to a Redis channel. Failures are logged and
// never returned to the radar.
type Publisher struct {
	client  pubsub
	channel string
	log     *slog.Logger
	now     func() time.Time
	closer  func() error
}

// Dial connects to Redis at addr and checks the connection with PING.
func Dial(ctx context.Context, addr, channel string, log *slog.Logger) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	p := newPublisher(rdb, channel, log)
	p.closer = rdb.Close
	p.log.Info("redis connected", "addr", addr, "channel", p.channel)
	return p, nil
}

func newPublisher(client pubsub, channel string, log *slog.Logger) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		client:  client,
		channel: channel,
		log:     log.With("component", "store"),
		now:     time.Now,
	}
}

func (p *Publisher) DeviceAdded(d bluetooth.Device) { p.publish(EventNew, d) }
func (p *Publisher) DeviceLost(d bluetooth.Device)  { p.publish(EventLost, d) }

func (p *Publisher) publish(kind string, d bluetooth.Device) {
	payload, err := json.Marshal(NewDeviceEvent(kind, d, p.now()))
	if err != nil {
		p.log.Error("encode device event", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Error("redis PUBLISH failed", "channel", p.channel, "address", d.Address, "error", err)
	}
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
