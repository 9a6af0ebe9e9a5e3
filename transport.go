package llmclient

import (
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultConnectionLifetime bounds how long a pooled connection is reused
// before being re-established.
const DefaultConnectionLifetime = 5 * time.Minute

// transport is the HTTP transport of a client, tagged with who owns it.
//
// It is either an *ownedTransport, created and released by the client, or a
// *borrowedTransport, provided by the caller and never released by the client.
type transport interface {
	httpClient() *http.Client
}

type ownedTransport struct {
	client *http.Client
	pool   *http.Transport

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type borrowedTransport struct {
	client *http.Client
}

func (t *ownedTransport) httpClient() *http.Client    { return t.client }
func (t *borrowedTransport) httpClient() *http.Client { return t.client }

// newOwnedTransport builds a pooled transport whose connections are recycled
// every `lifetime`, so long-running clients eventually reconnect and pick up
// DNS changes on the remote side.
func newOwnedTransport(lifetime time.Duration) *ownedTransport {
	if lifetime <= 0 {
		lifetime = DefaultConnectionLifetime
	}

	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{Proxy: http.ProxyFromEnvironment, ForceAttemptHTTP2: true}
	}

	pool := base.Clone()
	pool.IdleConnTimeout = lifetime
	pool.MaxIdleConnsPerHost = 16

	t := &ownedTransport{
		client: &http.Client{Transport: pool},
		pool:   pool,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go t.recycle(lifetime)

	return t
}

// recycle closes pooled connections on every tick. Connections in use are not
// affected and are dropped on the next tick once they are idle.
func (t *ownedTransport) recycle(lifetime time.Duration) {
	defer close(t.done)

	ticker := time.NewTicker(lifetime)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.pool.CloseIdleConnections()
		}
	}
}

func (t *ownedTransport) release() {
	t.stopOnce.Do(func() {
		close(t.stop)
		<-t.done

		t.pool.CloseIdleConnections()
	})
}

func releaseTransport(t transport) error {
	switch t := t.(type) {
	case *ownedTransport:
		t.release()
		return nil
	case *borrowedTransport:
		return nil
	default:
		return errors.AssertionFailedf("unknown transport ownership %T", t)
	}
}
