package permsource

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/permkit/pkg/permissions"
)

// RedisConfig holds the configuration for a Redis-backed document source.
type RedisConfig struct {
	ConnectionURL  string        `env:"PERMISSIONS_REDIS_URL,required"`                             // ConnectionURL in the format "redis://:password@localhost:6379/0".
	Key            string        `env:"PERMISSIONS_REDIS_KEY" envDefault:"permissions:config"`      // Key holding the JSON configuration document.
	ConnectTimeout time.Duration `env:"PERMISSIONS_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`         // ConnectTimeout bounds the whole connect loop.
	RetryAttempts  int           `env:"PERMISSIONS_REDIS_RETRY_ATTEMPTS" envDefault:"3"`            // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"PERMISSIONS_REDIS_RETRY_INTERVAL" envDefault:"5s"`           // RetryInterval is the wait between attempts.
}

// ConnectRedis establishes a Redis connection with retries, verifying each
// attempt with a ping.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		default:
			time.Sleep(cfg.RetryInterval)
		}
	}

	return nil, ErrConnectionFailed
}

// Redis loads a JSON configuration document stored under a single key.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a Redis-backed configuration source.
func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

// Load implements permissions.Source.
func (s *Redis) Load(ctx context.Context) (permissions.Config, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return permissions.Config{}, errors.Join(ErrDocumentNotFound, err)
		}
		return permissions.Config{}, err
	}

	return ParseJSON(data)
}
