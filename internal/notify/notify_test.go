package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/techstore/internal/domain"
)

func TestOutbox_Drain(t *testing.T) {
	o := NewOutbox()
	ctx := context.Background()

	o.Notify(ctx, "Added to cart", domain.NotifySuccess)
	o.Notify(ctx, "Coupon invalid", domain.NotifyError)

	got := o.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, domain.Notification{Message: "Added to cart", Kind: domain.NotifySuccess}, got[0])
	assert.Equal(t, domain.NotifyError, got[1].Kind)

	assert.Empty(t, o.Drain())
}

func TestOutbox_DropsOldestWhenFull(t *testing.T) {
	o := NewOutbox()
	for i := 0; i < maxOutbox+5; i++ {
		o.Notify(context.Background(), fmt.Sprintf("m%d", i), domain.NotifyInfo)
	}
	got := o.Drain()
	require.Len(t, got, maxOutbox)
	assert.Equal(t, "m5", got[0].Message)
	assert.Equal(t, fmt.Sprintf("m%d", maxOutbox+4), got[len(got)-1].Message)
}

func TestLogger_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx := domain.NewContextWithSessionID(context.Background(), "s-1")
	n.Notify(ctx, "Order placed", domain.NotifySuccess)

	assert.Contains(t, buf.String(), "kind=success")
	assert.Contains(t, buf.String(), `message="Order placed"`)
	assert.Contains(t, buf.String(), "session_id=s-1")
}

func TestMulti(t *testing.T) {
	a, b := NewOutbox(), NewOutbox()
	Multi{a, nil, b, Discard{}}.Notify(context.Background(), "hi", domain.NotifyInfo)
	assert.Len(t, a.Drain(), 1)
	assert.Len(t, b.Drain(), 1)
}
