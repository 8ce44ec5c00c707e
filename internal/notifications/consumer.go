package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"homestay/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer runs the notification workers that turn queued messages into
// delivered emails.
type Consumer interface {
	Start(ctx context.Context, workers int) error
	Stop() error
}

type kafkaConsumer struct {
	group  sarama.ConsumerGroup
	topics []string
	sender EmailSender
	log    *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewKafkaConsumer(brokers []string, groupID, topic string, sender EmailSender) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(brokers, groupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		group:  group,
		topics: []string{topic},
		sender: sender,
		log:    logger.GetDefault(),
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context, workers int) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	go c.drainErrors()

	for i := 0; i < workers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(runCtx, workerID)
		}(i)
	}

	c.log.Info("notification workers started", "workers", workers, "topics", c.topics)
	return nil
}

func (c *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &groupHandler{
		sender:   c.sender,
		workerID: workerID,
		log:      c.log,
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				c.log.Error("consume error", "worker", workerID, "error", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *kafkaConsumer) drainErrors() {
	for err := range c.group.Errors() {
		c.log.Error("consumer group error", "error", err)
	}
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.log.Info("notification workers stopped")
	return nil
}

type groupHandler struct {
	sender   EmailSender
	workerID int
	log      *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.log.Error("failed to process notification",
					"worker", h.workerID,
					"offset", message.Offset,
					"error", err,
				)
			}
			// Mark regardless; retries happened inside processMessage and a
			// poison message must not wedge the partition.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification EmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	notification.Status = StatusSending
	if err := h.sendWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	return nil
}

func (h *groupHandler) sendWithRetry(ctx context.Context, notification *EmailNotification) error {
	backoff := time.Second
	var lastErr error

	for attempt := 0; attempt <= notification.MaxRetries; attempt++ {
		lastErr = h.sender.Send(ctx, notification)
		if lastErr == nil {
			return nil
		}
		if attempt == notification.MaxRetries {
			break
		}

		notification.RetryCount++
		notification.Status = StatusRetrying

		select {
		case <-time.After(backoff * time.Duration(1<<attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
