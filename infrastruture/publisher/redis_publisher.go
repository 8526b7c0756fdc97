package publisher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/game"
	"github.com/beka-birhanu/vinom-dwarfs/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockExpiry     = 8 * time.Second
	defaultPublishTimeout = time.Second
)

var (
	ErrChannelBusy = errors.New("publisher: another run holds the channel")
	ErrNotClaimed  = errors.New("publisher: channel not claimed")
	ErrNilEncoder  = errors.New("publisher: encoder is required")
)

var _ game.Renderer = &RedisFramePublisher{}

type publishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// locker is the part of *redsync.Mutex the publisher relies on.
type locker interface {
	LockContext(ctx context.Context) error
	ExtendContext(ctx context.Context) (bool, error)
	UnlockContext(ctx context.Context) (bool, error)
	Until() time.Time
}

// Config configures a RedisFramePublisher.
type Config struct {
	Channel        string
	Encoder        game.Encoder
	LockExpiry     time.Duration // LockExpiry bounds how long a crashed run blocks the channel.
	PublishTimeout time.Duration
	Logger         i.Logger
}

// RedisFramePublisher fans frames out on a Redis channel. A run claims the
// channel with a distributed lock so two runs never interleave frames.
// Nothing is stored; subscribers that join late start from the next frame.
type RedisFramePublisher struct {
	client  publishClient
	lock    locker
	channel string
	encoder game.Encoder
	expiry  time.Duration
	timeout time.Duration
	logger  i.Logger

	claimed   bool
	published int
	sync.Mutex
}

// NewRedisFramePublisher publishes through client and locks with redsync on
// the same server.
func NewRedisFramePublisher(client *redis.Client, c Config) (*RedisFramePublisher, error) {
	if c.LockExpiry <= 0 {
		c.LockExpiry = defaultLockExpiry
	}
	pool := goredis.NewPool(client)
	mutex := redsync.New(pool).NewMutex(c.Channel+":publisher_lock",
		redsync.WithExpiry(c.LockExpiry),
		redsync.WithTries(1),
	)
	return newRedisFramePublisher(client, mutex, c)
}

func newRedisFramePublisher(client publishClient, lock locker, c Config) (*RedisFramePublisher, error) {
	if c.Encoder == nil {
		return nil, ErrNilEncoder
	}
	if c.LockExpiry <= 0 {
		c.LockExpiry = defaultLockExpiry
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaultPublishTimeout
	}
	return &RedisFramePublisher{
		client:  client,
		lock:    lock,
		channel: c.Channel,
		encoder: c.Encoder,
		expiry:  c.LockExpiry,
		timeout: c.PublishTimeout,
		logger:  c.Logger,
	}, nil
}

// Claim takes the channel lock for this run.
func (p *RedisFramePublisher) Claim(ctx context.Context) error {
	p.Lock()
	defer p.Unlock()

	if err := p.lock.LockContext(ctx); err != nil {
		return fmt.Errorf("%w %q: %v", ErrChannelBusy, p.channel, err)
	}
	p.claimed = true
	p.info(fmt.Sprintf("claimed channel %s", p.channel))
	return nil
}

// Draw implements game.Renderer by publishing the encoded frame.
func (p *RedisFramePublisher) Draw(f game.Frame) error {
	p.Lock()
	defer p.Unlock()

	if !p.claimed {
		return ErrNotClaimed
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if time.Until(p.lock.Until()) < p.expiry/2 {
		if ok, err := p.lock.ExtendContext(ctx); err != nil || !ok {
			p.claimed = false
			return fmt.Errorf("%w %q: lost lock: %v", ErrChannelBusy, p.channel, err)
		}
	}

	payload, err := p.encoder.MarshalFrame(f)
	if err != nil {
		return fmt.Errorf("encoding frame %d: %w", f.Tick, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing frame %d: %w", f.Tick, err)
	}
	p.published++
	return nil
}

// Published returns how many frames went out.
func (p *RedisFramePublisher) Published() int {
	p.Lock()
	defer p.Unlock()
	return p.published
}

// Close releases the channel lock.
func (p *RedisFramePublisher) Close(ctx context.Context) error {
	p.Lock()
	defer p.Unlock()

	if !p.claimed {
		return nil
	}
	p.claimed = false
	if _, err := p.lock.UnlockContext(ctx); err != nil {
		return fmt.Errorf("releasing %s: %w", p.channel, err)
	}
	p.info(fmt.Sprintf("released channel %s after %d frames", p.channel, p.published))
	return nil
}

func (p *RedisFramePublisher) info(msg string) {
	if p.logger != nil {
		p.logger.Info(msg)
	}
}
