package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"summitapi/internal/dto"
	"summitapi/internal/mailer"
	"summitapi/internal/rabbit"
)

// Reader drains registration-created events and sends the confirmation
// email for each. Mail failures are logged but not retried through the
// queue; a malformed payload is dropped after logging.
type Reader struct {
	RMQ    *rabbit.Client
	mailer *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, m *mailer.Mailer) *Reader {
	return &Reader{
		RMQ:    rmq,
		mailer: m,
		done:   make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("RabbitMQ notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.RegistrationCreatedMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal message: %s", string(body))
				return nil
			}

			zlog.Logger.Info().
				Str("registration_id", msg.RegistrationID.String()).
				Str("registration_type", msg.RegistrationType).
				Msg("Received registration created message")

			if err := r.mailer.SendRegistrationReceived(msg.FullName, msg.Email, msg.RegistrationType); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("registration_id", msg.RegistrationID.String()).
					Msg("Failed to send confirmation e-mail")
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("RabbitMQ notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
