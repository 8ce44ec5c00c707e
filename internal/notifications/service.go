package notifications

import (
	"context"
	"fmt"
	"sync"

	"homestay/internal/bookings"
	"homestay/internal/shared/config"
	"homestay/pkg/logger"
)

// Service is the notification pipeline: booking events go in, emails come
// out. With Kafka disabled it degrades to sending (or logging) inline, so a
// development setup needs neither broker nor mail server.
type Service struct {
	cfg      *config.Config
	producer Producer
	consumer Consumer
	sender   EmailSender
	log      *logger.Logger

	mu      sync.Mutex
	running bool
}

func NewService(cfg *config.Config) (*Service, error) {
	var sender EmailSender
	if cfg.Email.SMTPHost != "" {
		smtpSender, err := NewSMTPEmailSender(cfg.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to create email sender: %w", err)
		}
		sender = smtpSender
	} else {
		sender = NewLogEmailSender()
	}

	svc := &Service{
		cfg:    cfg,
		sender: sender,
		log:    logger.GetDefault(),
	}

	if !cfg.Kafka.Enabled {
		svc.log.Info("kafka disabled, notifications delivered inline")
		return svc, nil
	}

	producer, err := NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic)
	if err != nil {
		return nil, err
	}

	consumer, err := NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.NotificationTopic, sender)
	if err != nil {
		producer.Close()
		return nil, err
	}

	svc.producer = producer
	svc.consumer = consumer
	return svc, nil
}

// Start launches the consumer workers. A no-op when Kafka is disabled.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumer == nil || s.running {
		return nil
	}
	if err := s.consumer.Start(ctx, s.cfg.Kafka.Workers); err != nil {
		return err
	}
	s.running = true
	return nil
}

func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumer != nil && s.running {
		if err := s.consumer.Stop(); err != nil {
			s.log.Error("failed to stop notification consumer", "error", err)
		}
		s.running = false
	}
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}

// PublishBookingCreated implements the booking service's publisher hook.
func (s *Service) PublishBookingCreated(ctx context.Context, n bookings.BookingNotification) error {
	subject := fmt.Sprintf("Booking received: %s", n.BookingCode)
	return s.dispatch(ctx, NewEmailNotification(EventBookingCreated, n.GuestEmail, n.GuestName, subject, templateData(n)))
}

// PublishBookingCancelled implements the booking service's publisher hook.
func (s *Service) PublishBookingCancelled(ctx context.Context, n bookings.BookingNotification) error {
	subject := fmt.Sprintf("Booking cancelled: %s", n.BookingCode)
	return s.dispatch(ctx, NewEmailNotification(EventBookingCancelled, n.GuestEmail, n.GuestName, subject, templateData(n)))
}

func (s *Service) dispatch(ctx context.Context, notification *EmailNotification) error {
	if notification.RecipientEmail == "" {
		s.log.Debug("notification skipped, no recipient email", "type", notification.Type)
		return nil
	}

	if s.producer != nil {
		return s.producer.Publish(notification)
	}
	return s.sender.Send(ctx, notification)
}

func templateData(n bookings.BookingNotification) map[string]interface{} {
	return map[string]interface{}{
		"guest_name":    n.GuestName,
		"homestay_name": n.HomestayName,
		"booking_code":  n.BookingCode,
		"check_in":      n.CheckIn.Format("2006-01-02"),
		"check_out":     n.CheckOut.Format("2006-01-02"),
		"nights":        n.Nights,
		"total_amount":  fmt.Sprintf("%.2f", n.TotalAmount),
	}
}
