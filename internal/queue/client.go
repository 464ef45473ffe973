// Package queue contains the AMQP client used by the booking sagas to
// publish lifecycle events, the event payload definitions, and the
// background consumer that turns those events into SMS log lines.
package queue

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Default retry bounds. Connect failures are retried with a fixed
// delay; publish failures invalidate the connection so the next
// attempt reconnects from scratch.
const (
	defaultConnectAttempts = 5
	defaultConnectDelay    = 2 * time.Second
	defaultPublishAttempts = 3
	defaultPublishDelay    = time.Second
)

// brokerChannel is the slice of *amqp.Channel the client needs.
type brokerChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// brokerConn is the slice of *amqp.Connection the client needs.
type brokerConn interface {
	Channel() (brokerChannel, error)
	IsClosed() bool
	Close() error
}

type dialFunc func(url string) (brokerConn, error)

// amqpConn adapts *amqp.Connection to brokerConn so the concrete
// channel type can be returned through the interface.
type amqpConn struct {
	*amqp.Connection
}

func (c amqpConn) Channel() (brokerChannel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func amqpDial(url string) (brokerConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return amqpConn{conn}, nil
}

// Client publishes lifecycle events to a topic exchange. It owns a
// single shared connection handle; all access goes through the mutex
// so concurrent sagas cannot race a reconnect. Publish never panics
// and never returns an error: callers get a bool and treat false as a
// degraded (not failed) outcome.
type Client struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn brokerConn
	ch   brokerChannel

	dial            dialFunc
	connectAttempts int
	connectDelay    time.Duration
	publishAttempts int
	publishDelay    time.Duration
}

// NewClient returns a Client for the given broker URL and topic
// exchange. No connection is made until the first publish.
func NewClient(url, exchange string) *Client {
	return &Client{
		url:             url,
		exchange:        exchange,
		dial:            amqpDial,
		connectAttempts: defaultConnectAttempts,
		connectDelay:    defaultConnectDelay,
		publishAttempts: defaultPublishAttempts,
		publishDelay:    defaultPublishDelay,
	}
}

// Publish marshals payload as JSON and publishes it under routingKey.
// It lazily connects, retries up to the publish bound, and reports
// success or failure without ever raising past its own boundary. A
// false return means the event was dropped after exhausting retries;
// the caller's primary effect is expected to stand regardless.
func (c *Client) Publish(ctx context.Context, routingKey string, payload interface{}) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("queue: marshal event for %s failed: %v", routingKey, err)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for attempt := 1; attempt <= c.publishAttempts; attempt++ {
		if err := c.ensureConnectedLocked(ctx); err != nil {
			log.Printf("queue: publish attempt %d/%d to %s: not connected: %v",
				attempt, c.publishAttempts, routingKey, err)
		} else {
			pub := amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now().UTC(),
				Body:         body,
			}
			err = c.ch.PublishWithContext(ctx, c.exchange, routingKey, false, false, pub)
			if err == nil {
				return true
			}
			log.Printf("queue: publish attempt %d/%d to %s failed: %v",
				attempt, c.publishAttempts, routingKey, err)
		}

		// Force a fresh dial on the next attempt.
		c.invalidateLocked()

		if attempt < c.publishAttempts {
			if !sleepCtx(ctx, c.publishDelay) {
				return false
			}
		}
	}
	return false
}

// IsOpen reports whether the client currently holds a live connection.
func (c *Client) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close tears down the connection handle. Safe to call at shutdown
// regardless of connection state.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
}

// ensureConnectedLocked dials the broker if the handle is missing or
// detected closed, retrying up to the connect bound with a fixed
// delay. On success it opens a channel and declares the durable topic
// exchange. Callers must hold the mutex.
func (c *Client) ensureConnectedLocked(ctx context.Context) error {
	if c.conn != nil && !c.conn.IsClosed() && c.ch != nil {
		return nil
	}
	c.invalidateLocked()

	var lastErr error
	for attempt := 1; attempt <= c.connectAttempts; attempt++ {
		conn, err := c.dial(c.url)
		if err == nil {
			ch, chErr := conn.Channel()
			if chErr == nil {
				if decErr := ch.ExchangeDeclare(c.exchange, "topic", true, false, false, false, nil); decErr == nil {
					c.conn = conn
					c.ch = ch
					return nil
				} else {
					err = decErr
				}
				_ = ch.Close()
			} else {
				err = chErr
			}
			_ = conn.Close()
		}
		lastErr = err
		log.Printf("queue: connect attempt %d/%d failed: %v", attempt, c.connectAttempts, err)
		if attempt < c.connectAttempts {
			if !sleepCtx(ctx, c.connectDelay) {
				return ctx.Err()
			}
		}
	}
	return lastErr
}

// invalidateLocked drops the connection handle so the next publish
// reconnects from scratch. Callers must hold the mutex.
func (c *Client) invalidateLocked() {
	if c.ch != nil {
		_ = c.ch.Close()
		c.ch = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// sleepCtx waits for d or until ctx is done; it returns false when the
// context was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
