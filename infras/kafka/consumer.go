package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	HeaderDeadLetterError  = "x-dead-letter-error"
	HeaderDeadLetterTopic  = "x-dead-letter-topic"
	HeaderDeadLetterOffset = "x-dead-letter-offset"
)

// Reader is the part of *kafkaGo.Reader a Consumer uses.
type Reader interface {
	FetchMessage(ctx context.Context) (kafkaGo.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkaGo.Message) error
}

// RetryPolicy controls how a failed message is retried. MaxAttempts only
// applies when a dead letter sink is set; without one the message is retried
// until it succeeds or the consumer stops.
type RetryPolicy struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxAttempts    int
}

// DeadLetterFunc parks a message that kept failing. The offset is committed
// only if it returns nil.
type DeadLetterFunc func(ctx context.Context, msg kafkaGo.Message, cause error) error

// Consumer hands messages to a handler in partition order and commits an
// offset only after the handler accepted the message.
type Consumer struct {
	reader     Reader
	topic      string
	handler    Handler
	retry      RetryPolicy
	deadLetter DeadLetterFunc
}

func NewConsumer(reader Reader, topic string, handler Handler, retry RetryPolicy) *Consumer {
	return &Consumer{
		reader:  reader,
		topic:   topic,
		handler: handler,
		retry:   retry,
	}
}

func (c *Consumer) WithDeadLetter(fn DeadLetterFunc) *Consumer {
	c.deadLetter = fn

	return c
}

// Run blocks until ctx is cancelled. A message that is still failing at
// shutdown stays uncommitted and is delivered again on the next start.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", c.topic).Msg("Consumer context done.")

				return nil
			}

			log.Error().Err(err).Str("topic", c.topic).Msg("Failed to read message from Kafka.")

			continue
		}

		log.Debug().Str("topic", c.topic).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("Received message from Kafka.")

		if !c.process(ctx, msg) {
			log.Warn().Str("topic", c.topic).Int64("offset", msg.Offset).Msg("Consumer stopped before message was handled, leaving offset uncommitted.")

			return nil
		}

		if err = c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("topic", c.topic).Msg("Failed to commit Kafka offset.")
		}
	}
}

// process reports whether msg may be committed.
func (c *Consumer) process(ctx context.Context, msg kafkaGo.Message) bool {
	b := c.backOff()

	for attempt := 1; ; attempt++ {
		err := c.handler(ctx, msg)
		if err == nil {
			return true
		}

		log.Error().Err(err).
			Str("topic", c.topic).
			Str("key", string(msg.Key)).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Msg("Failed to handle Kafka message.")

		if c.deadLetter != nil && c.retry.MaxAttempts > 0 && attempt >= c.retry.MaxAttempts {
			dlErr := c.deadLetter(ctx, msg, err)
			if dlErr == nil {
				log.Warn().Str("topic", c.topic).Int64("offset", msg.Offset).Msg("Moved Kafka message to dead letter topic.")

				return true
			}

			log.Error().Err(dlErr).Str("topic", c.topic).Int64("offset", msg.Offset).Msg("Failed to dead letter Kafka message.")
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			wait = c.retry.MaxBackoff
		}

		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()

			return false
		}
	}
}

func (c *Consumer) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()

	if c.retry.InitialBackoff > 0 {
		b.InitialInterval = c.retry.InitialBackoff
	}

	if c.retry.MaxBackoff > 0 {
		b.MaxInterval = c.retry.MaxBackoff
	}

	b.Reset()

	return b
}

// deadLetterMessage copies msg onto topic, recording where it came from and
// why it was parked.
func deadLetterMessage(msg kafkaGo.Message, topic string, cause error) kafkaGo.Message {
	headers := make([]kafkaGo.Header, 0, len(msg.Headers)+3) //nolint:mnd
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafkaGo.Header{Key: HeaderDeadLetterTopic, Value: []byte(msg.Topic)},
		kafkaGo.Header{Key: HeaderDeadLetterOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafkaGo.Header{Key: HeaderDeadLetterError, Value: []byte(fmt.Sprint(cause))},
	)

	return kafkaGo.Message{
		Topic:   topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}
