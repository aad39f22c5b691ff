package broker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"

	"github.com/diacor/portal/pkg/logger"
)

const (
	retryBaseDelay = time.Second
	retryMaxDelay  = 30 * time.Second
)

// ErrPermanent marks a handler failure that retrying cannot fix. Such messages are logged and committed.
var ErrPermanent = errors.New("permanent failure")

type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	l             *slog.Logger
	r             reader
	wg            *sync.WaitGroup
	topicHandlers map[string]func(context.Context, kafka.Message) error
	backoff       func() retry.Backoff
}

func defaultBackoff() retry.Backoff {
	return retry.WithCappedDuration(retryMaxDelay, retry.NewExponential(retryBaseDelay))
}

func NewConsumer(
	l *slog.Logger,
	brokers []string,
	groupID string,
	topics ...string,
) *Consumer {
	l = l.WithGroup("kafka").With("group_id", groupID)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		Logger:      &infoLogger{l: l},
		ErrorLogger: &errorLogger{l: l},
	})

	return &Consumer{
		l:             l,
		r:             r,
		wg:            &sync.WaitGroup{},
		topicHandlers: make(map[string]func(context.Context, kafka.Message) error),
		backoff:       defaultBackoff,
	}
}

func (c *Consumer) Handle(topic string, handler func(context.Context, kafka.Message) error) *Consumer {
	c.topicHandlers[topic] = handler
	return c
}

// Consume fetches messages until ctx is done or the reader is closed.
// A message is committed once its handler succeeds, fails with ErrPermanent or panics.
// Other handler errors are retried with backoff, so the message stays uncommitted until then.
func (c *Consumer) Consume(ctx context.Context) *Consumer {
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		for ctx.Err() == nil {
			m, err := c.r.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
					return
				}

				c.l.ErrorContext(ctx, "fetch kafka msg", "error", err.Error())

				continue
			}

			if !c.handle(ctx, m) {
				return
			}

			// A handled message must be committed even during shutdown, or it would be applied twice.
			err = c.r.CommitMessages(context.WithoutCancel(ctx), m)
			if err != nil {
				c.l.ErrorContext(ctx, "commit kafka msg", "error", err.Error(),
					"topic", m.Topic, "partition", m.Partition, "offset", m.Offset)
			}
		}

		c.l.InfoContext(ctx, "context done")
	}()

	return c
}

// handle reports whether the message is done with and can be committed.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) bool {
	l := c.l.With("topic", m.Topic, "partition", m.Partition, "offset", m.Offset)

	handler, ok := c.topicHandlers[m.Topic]
	if !ok {
		l.WarnContext(ctx, "kafka handler not found")
		return true
	}

	ctx = logger.WithRequestID(ctx, fmt.Sprintf("kafka:%s/%d/%d", m.Topic, m.Partition, m.Offset))

	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		err := c.call(ctx, l, handler, m)
		if err == nil {
			return nil
		}

		if errors.Is(err, ErrPermanent) {
			l.ErrorContext(ctx, "kafka msg dropped", "error", err.Error())
			return nil
		}

		l.ErrorContext(ctx, "handle kafka msg, retrying", "error", err.Error())

		return retry.RetryableError(err)
	})
	if err != nil {
		l.WarnContext(ctx, "kafka msg left uncommitted", "error", err.Error())
		return false
	}

	return true
}

func (c *Consumer) call(
	ctx context.Context,
	l *slog.Logger,
	handler func(context.Context, kafka.Message) error,
	m kafka.Message,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.ErrorContext(ctx, "kafka handler panic", "error", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: panic: %v", ErrPermanent, r)
		}
	}()

	return handler(ctx, m)
}

func (c *Consumer) Close() {
	err := c.r.Close()
	if err != nil {
		c.l.Error("close kafka reader", "error", err.Error())
	}

	c.wg.Wait()
}

type infoLogger struct {
	l *slog.Logger
}

func (l *infoLogger) Printf(format string, v ...any) {
	l.l.Info(fmt.Sprintf(format, v...))
}

type errorLogger struct {
	l *slog.Logger
}

func (l *errorLogger) Printf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}
