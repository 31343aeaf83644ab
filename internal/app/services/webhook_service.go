package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/churchmanager/scheduler/internal/app/models/dto"
)

// WebhookService processes WAHA webhook events in the background
type WebhookService interface {
	// Dispatch starts processing and returns immediately
	Dispatch(payload *dto.WebhookPayload)
	// Wait blocks until every dispatched event is processed or ctx is done
	Wait(ctx context.Context) error
}

type webhookServiceImpl struct {
	recorder Recorder
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(recorder Recorder, logger zerolog.Logger) WebhookService {
	return &webhookServiceImpl{
		recorder: recorder,
		logger:   logger,
	}
}

func (s *webhookServiceImpl) Dispatch(payload *dto.WebhookPayload) {
	s.recorder.WebhookReceived(payload.EventName())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().Interface("panic", r).Str("event", payload.EventName()).Msg("Webhook processing panicked")
			}
		}()
		s.process(payload)
	}()
}

func (s *webhookServiceImpl) process(payload *dto.WebhookPayload) {
	body, err := json.Marshal(payload.Payload)
	if err != nil {
		s.logger.Error().Err(err).Str("event", payload.EventName()).Msg("Failed to encode webhook payload")
		return
	}

	s.logger.Info().
		Str("event", payload.EventName()).
		Str("session", payload.SessionName()).
		RawJSON("payload", body).
		Msg("Received webhook")
}

func (s *webhookServiceImpl) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
