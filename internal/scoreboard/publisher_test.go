package scoreboard

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// QSOLOG_TEST_REDIS_URL points the integration test at a disposable Redis
const redisEnv = "QSOLOG_TEST_REDIS_URL"

func TestRenderKey(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"default", DefaultKeyTemplate, "scoreboard:K:DL5TKL"},
		{"leaderboard", DefaultLeaderboardTemplate, "leaderboard:K"},
		{"custom", "club:b25:{call}:{class}", "club:b25:DL5TKL:K"},
		{"no placeholders", "static", "static"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderKey(tt.template, "K", "DL5TKL"))
		})
	}
}

func TestDisabledPublisher(t *testing.T) {
	ctx := context.Background()
	p, err := NewPublisher(ctx, Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	assert.NoError(t, p.Publish(ctx, Standing{Call: "DL5TKL", Class: "K"}, time.Now()))

	_, err = p.Fetch(ctx, "K", "DL5TKL")
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = p.Leaderboard(ctx, "K", 10)
	assert.ErrorIs(t, err, ErrDisabled)

	assert.NoError(t, p.Close())
}

func TestNewPublisher_BadURL(t *testing.T) {
	_, err := NewPublisher(context.Background(), Config{Enabled: true, RedisURL: "not a url"})
	assert.Error(t, err)
}

func TestNewPublisher_DefaultTemplates(t *testing.T) {
	p := newPublisher(nil, Config{})
	assert.Equal(t, DefaultKeyTemplate, p.keyTemplate)
	assert.Equal(t, DefaultLeaderboardTemplate, p.leaderboardTemplate)
}

func TestPublisher_Redis(t *testing.T) {
	url := os.Getenv(redisEnv)
	if testing.Short() || url == "" {
		t.Skipf("Skipping Redis integration test, set %s to run it", redisEnv)
	}

	ctx := context.Background()
	p, err := NewPublisher(ctx, Config{
		Enabled:             true,
		RedisURL:            url,
		KeyTemplate:         "qsolog-test:{class}:{call}",
		LeaderboardTemplate: "qsolog-test-board:{class}",
	})
	require.NoError(t, err)
	defer p.Close()
	defer p.redis.Del(ctx, "qsolog-test:K:DL5TKL", "qsolog-test:K:DL1AA", "qsolog-test-board:K")

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.Publish(ctx, Standing{Call: "DL5TKL", Class: "K", DOK: "B25", Score: 1200, QSOs: 7}, now))
	require.NoError(t, p.Publish(ctx, Standing{Call: "DL1AA", Class: "K", DOK: "B01", Score: 3400, QSOs: 12}, now))

	got, err := p.Fetch(ctx, "K", "DL5TKL")
	require.NoError(t, err)
	assert.Equal(t, 1200, got.Score)
	assert.Equal(t, 7, got.QSOs)
	assert.Equal(t, "2024-05-01 12:00:00", got.UpdatedAt)

	count, err := p.redis.HGet(ctx, "qsolog-test:K:DL5TKL", "publish_count").Int()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	board, err := p.Leaderboard(ctx, "K", 10)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Call: "DL1AA", Score: 3400}, {Call: "DL5TKL", Score: 1200}}, board)
}
