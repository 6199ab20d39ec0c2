package connect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

var ErrMissingURI = errors.New("MONGODB_URI is required")

type State int

const (
	Unconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unconnected"
	}
}

// ConnectionError wraps a failed connection attempt. Every caller that joined
// the attempt receives the same error.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database unavailable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type DialFunc func(ctx context.Context) (*mongo.Client, error)

// OnConnectFunc prepares a freshly dialed client before it is shared, e.g.
// by creating indexes. An error discards the client and fails the attempt.
type OnConnectFunc func(ctx context.Context, client *mongo.Client) error

type Option func(*Manager)

// WithDialer replaces the default MongoDB dialer.
func WithDialer(dial DialFunc) Option {
	return func(m *Manager) { m.dial = dial }
}

func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithOnConnect runs fn after every successful dial, before the client is
// cached. It runs again on the next attempt if it fails.
func WithOnConnect(fn OnConnectFunc) Option {
	return func(m *Manager) { m.onConnect = fn }
}

// Manager owns the process-wide MongoDB client. The first Acquire connects;
// concurrent callers join that attempt instead of dialing again. A successful
// client is kept for the life of the process, a failure leaves the manager
// unconnected so the next Acquire retries.
type Manager struct {
	dial      DialFunc
	onConnect OnConnectFunc
	timeout   time.Duration
	group     singleflight.Group

	mu         sync.RWMutex
	client     *mongo.Client
	connecting bool
}

// NewManager validates uri eagerly so a missing setting fails at startup,
// not on the first request.
func NewManager(uri string, opts ...Option) (*Manager, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, ErrMissingURI
	}
	m := &Manager{timeout: 10 * time.Second}
	m.dial = func(ctx context.Context) (*mongo.Client, error) {
		return MongoDBConnect(ctx, uri)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Acquire returns the shared client, connecting if needed. ctx bounds only
// this caller's wait; the attempt itself keeps running for other callers.
func (m *Manager) Acquire(ctx context.Context) (*mongo.Client, error) {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	ch := m.group.DoChan("mongodb", func() (interface{}, error) {
		return m.connect(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mongo.Client), nil
	}
}

func (m *Manager) connect(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	if m.client != nil {
		client := m.client
		m.mu.Unlock()
		return client, nil
	}
	m.connecting = true
	m.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	client, err := m.dial(dialCtx)
	if err == nil && m.onConnect != nil {
		if hookErr := m.onConnect(dialCtx, client); hookErr != nil {
			_ = client.Disconnect(context.Background())
			client, err = nil, hookErr
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.connecting = false
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	m.client = client
	return client, nil
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case m.client != nil:
		return Connected
	case m.connecting:
		return Connecting
	default:
		return Unconnected
	}
}

// Close disconnects the cached client, if any.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()
	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}

// MongoDBConnect opens a client and pings the primary.
func MongoDBConnect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// ResolveURI substitutes the <password> placeholder of an Atlas style
// connection string.
func ResolveURI(uri, password string) string {
	if password == "" {
		return uri
	}
	return strings.Replace(uri, "<password>", password, 1)
}
