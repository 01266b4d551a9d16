package ats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiterNilIsNoOp(t *testing.T) {
	var hl *HostLimiter
	assert.NoError(t, hl.WaitURL(context.Background(), "https://api.lever.co/v0/postings/acme"))
}

func TestHostLimiterSeparatesHosts(t *testing.T) {
	// One request per second with burst 1: a second call on the same host
	// must wait, a call on a different host must not.
	hl := NewHostLimiter(1, 1)
	ctx := context.Background()

	require.NoError(t, hl.WaitURL(ctx, "https://a.example.com/x"))

	start := time.Now()
	require.NoError(t, hl.WaitURL(ctx, "https://b.example.com/x"))
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	ctx2, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	assert.Error(t, hl.WaitURL(ctx2, "https://a.example.com/y"), "same host is throttled")
}
