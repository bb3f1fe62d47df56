// Package scoreboard publishes running contest scores to Redis so a club
// display can follow the stations during the contest.
package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	DefaultKeyTemplate         = "scoreboard:{class}:{call}"
	DefaultLeaderboardTemplate = "leaderboard:{class}"

	timeFormat = "2006-01-02 15:04:05"
)

var ErrDisabled = errors.New("scoreboard is disabled")

type Config struct {
	Enabled             bool   `toml:"enabled"`
	RedisURL            string `toml:"redis_url" env:"QSOLOG_REDIS_URL"`
	KeyTemplate         string `toml:"key_template"`
	LeaderboardTemplate string `toml:"leaderboard_template"`
}

// Standing is the published state of one station.
type Standing struct {
	Call        string `redis:"call"`
	Class       string `redis:"class"`
	DOK         string `redis:"dok"`
	Locator     string `redis:"locator"`
	QSOs        int    `redis:"qsos"`
	Points      int    `redis:"points"`
	Multipliers int    `redis:"multipliers"`
	Fields      int    `redis:"fields"`
	Score       int    `redis:"score"`
	UpdatedAt   string `redis:"updated_dttm_utc"`
}

// Entry is a leaderboard position.
type Entry struct {
	Call  string
	Score int
}

type Publisher struct {
	enabled             bool
	redis               *redis.Client
	keyTemplate         string
	leaderboardTemplate string
}

// NewPublisher connects to Redis when the scoreboard is enabled. A disabled
// publisher accepts every call and does nothing.
func NewPublisher(ctx context.Context, cfg Config) (*Publisher, error) {
	if !cfg.Enabled {
		return &Publisher{enabled: false}, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newPublisher(client, cfg), nil
}

func newPublisher(client *redis.Client, cfg Config) *Publisher {
	p := &Publisher{
		enabled:             true,
		redis:               client,
		keyTemplate:         cfg.KeyTemplate,
		leaderboardTemplate: cfg.LeaderboardTemplate,
	}
	if p.keyTemplate == "" {
		p.keyTemplate = DefaultKeyTemplate
	}
	if p.leaderboardTemplate == "" {
		p.leaderboardTemplate = DefaultLeaderboardTemplate
	}
	return p
}

func (p *Publisher) Enabled() bool {
	return p.enabled
}

func (p *Publisher) Close() error {
	if p.redis != nil {
		return p.redis.Close()
	}
	return nil
}

func renderKey(template, class, call string) string {
	return strings.NewReplacer(
		"{class}", class,
		"{call}", call,
	).Replace(template)
}

// Publish stores the standing and moves the station on the class leaderboard.
func (p *Publisher) Publish(ctx context.Context, s Standing, now time.Time) error {
	if !p.enabled {
		return nil
	}
	if s.Class == "" {
		return errors.New("cannot publish without a contest class")
	}

	s.UpdatedAt = now.UTC().Format(timeFormat)
	key := renderKey(p.keyTemplate, s.Class, s.Call)
	board := renderKey(p.leaderboardTemplate, s.Class, s.Call)

	_, err := p.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, s)
		pipe.HIncrBy(ctx, key, "publish_count", 1)
		pipe.ZAdd(ctx, board, redis.Z{Score: float64(s.Score), Member: s.Call})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish standing: %w", err)
	}

	logger.Debug.Printf("Published %s/%s score %d to %s", s.Class, s.Call, s.Score, key)
	return nil
}

// Fetch reads back the published standing of a station.
func (p *Publisher) Fetch(ctx context.Context, class, call string) (*Standing, error) {
	if !p.enabled {
		return nil, ErrDisabled
	}

	key := renderKey(p.keyTemplate, class, call)
	res := p.redis.HGetAll(ctx, key)
	values, err := res.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standing: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no standing published for %s in class %s", call, class)
	}

	var s Standing
	if err := res.Scan(&s); err != nil {
		return nil, fmt.Errorf("failed to decode standing: %w", err)
	}
	return &s, nil
}

// Leaderboard returns the best n stations of a class, highest score first.
func (p *Publisher) Leaderboard(ctx context.Context, class string, n int64) ([]Entry, error) {
	if !p.enabled {
		return nil, ErrDisabled
	}

	board := renderKey(p.leaderboardTemplate, class, "")
	zs, err := p.redis.ZRevRangeWithScores(ctx, board, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		call, _ := z.Member.(string)
		entries = append(entries, Entry{Call: call, Score: int(z.Score)})
	}
	return entries, nil
}
