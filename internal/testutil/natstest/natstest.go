// Package natstest runs an in-process NATS server with JetStream for tests.
package natstest

import (
	"testing"

	"github.com/nats-io/nats-server/v2/server"
	natsserver "github.com/nats-io/nats-server/v2/test"
)

// RunJetStream starts a server on a random port and returns its client URL.
// The server is shut down when the test ends.
func RunJetStream(t testing.TB) string {
	t.Helper()

	opts := natsserver.DefaultTestOptions
	opts.Port = server.RANDOM_PORT
	opts.JetStream = true
	opts.StoreDir = t.TempDir()

	s := natsserver.RunServer(&opts)
	t.Cleanup(s.Shutdown)

	return s.ClientURL()
}
