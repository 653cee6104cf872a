package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/types"
)

type countingSource struct {
	calls int
	err   error
}

func (c *countingSource) MotivationalQuote(context.Context) (types.DailyQuote, error) {
	c.calls++
	if c.err != nil {
		return types.DailyQuote{}, c.err
	}
	return types.DailyQuote{Quote: "Keep going", Author: "Anonymous"}, nil
}

func TestToday_CachesPerDay(t *testing.T) {
	ctx := context.Background()
	store := kv.NewAdapter(kv.NewMemoryStore(), kv.NewMemoryStore(), kv.DefaultNamespace, nil)
	src := &countingSource{}
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	svc := NewService(store, src, nil, WithClock(func() time.Time { return now }))

	q, err := svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Keep going", q.Quote)

	now = now.Add(10 * time.Hour)
	_, err = svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	now = now.Add(24 * time.Hour)
	_, err = svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestToday_FailureNotCached(t *testing.T) {
	ctx := context.Background()
	store := kv.NewAdapter(kv.NewMemoryStore(), kv.NewMemoryStore(), kv.DefaultNamespace, nil)
	src := &countingSource{err: errors.New("offline")}
	svc := NewService(store, src, nil)

	_, err := svc.Today(ctx)
	assert.Error(t, err)

	src.err = nil
	q, err := svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", q.Author)
	assert.Equal(t, 2, src.calls)
}
