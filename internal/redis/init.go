package redis

import (
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultClient is the name used when callers do not need more than one client
const DefaultClient = "default"

var (
	// Map of named Redis clients
	clients = make(map[string]*redis.Client)

	// Mutex for thread-safe access to the clients map
	clientsMutex sync.RWMutex
)

// Options configures a named client
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a Redis client under name, or returns the one already
// registered there. Connections are made lazily on first use.
func NewClient(name string, opts Options) *redis.Client {
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}

	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	if client, exists := clients[name]; exists {
		return client
	}

	client := redis.NewClient(&redis.Options{
		Addr:            opts.Addr,
		Password:        opts.Password,
		DB:              opts.DB,
		PoolSize:        10,
		MinIdleConns:    3,
		ConnMaxIdleTime: 240 * time.Second,
		DialTimeout:     2 * time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
	})

	clients[name] = client
	return client
}

// GetClient returns a Redis client by name
func GetClient(name string) (*redis.Client, error) {
	clientsMutex.RLock()
	defer clientsMutex.RUnlock()

	client, exists := clients[name]
	if !exists {
		return nil, fmt.Errorf("redis client %s not found", name)
	}
	return client, nil
}

// Close closes a specific Redis client by name
func Close(name string) error {
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	client, exists := clients[name]
	if !exists {
		return nil
	}
	delete(clients, name)
	return client.Close()
}

// CloseAll closes all Redis clients
func CloseAll() error {
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	var lastErr error
	for name, client := range clients {
		if err := client.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close redis client %s: %w", name, err)
		}
		delete(clients, name)
	}
	return lastErr
}
