package podman

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Probe pings the service until it answers or maxWait elapses. A missing
// socket file is permanent: socket activation creates the file before the
// service ever answers, so retrying cannot help.
func Probe(ctx context.Context, s *Service, maxWait time.Duration) error {
	if _, err := os.Stat(s.Socket()); err != nil {
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = maxWait
	return backoff.Retry(func() error {
		err := s.Ping(ctx)
		if err != nil && errors.Is(ctx.Err(), context.Canceled) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

// Connect probes the system and user sockets and returns Connections holding
// only the services that answered. Unreachable scopes are reported in errs
// keyed by owner so the caller can log them.
func Connect(ctx context.Context, systemSocket, userSocket string, maxWait time.Duration, opts ...Option) (*Connections, map[Owner]error) {
	conns := &Connections{}
	errs := map[Owner]error{}
	if systemSocket != "" {
		s := NewService(OwnerSystem, systemSocket, opts...)
		if err := Probe(ctx, s, maxWait); err != nil {
			s.Close()
			errs[OwnerSystem] = err
		} else {
			conns.System = s
		}
	}
	if userSocket != "" {
		s := NewService(OwnerUser, userSocket, opts...)
		if err := Probe(ctx, s, maxWait); err != nil {
			s.Close()
			errs[OwnerUser] = err
		} else {
			conns.User = s
		}
	}
	return conns, errs
}

// Close closes both services.
func (c *Connections) Close() {
	if c.System != nil {
		c.System.Close()
	}
	if c.User != nil {
		c.User.Close()
	}
}
