package bootstrap

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingAuditLogger struct {
	entries []AuditLog
}

func (r *recordingAuditLogger) Log(ctx context.Context, entry AuditLog) {
	r.entries = append(r.entries, entry)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	audit := &recordingAuditLogger{}

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, http.NotFoundHandler(), ServerConfig{Port: "0", ShutdownTimeout: time.Second}, audit)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, AuditActionServerShutdown, audit.entries[0].Action)
}
