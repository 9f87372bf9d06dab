package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"delivery-allocation/internal/service/checkin"
	"delivery-allocation/internal/transport/kafka"
)

const checkinTimeout = 2 * time.Second

var errMissingEventType = errors.New("missing event type")

func makeCheckinKafka(p *checkin.Processor, timeout time.Duration) kafka.HandleFunc {
	if timeout <= 0 {
		timeout = checkinTimeout
	}
	return func(ctx context.Context, event checkin.Event) error {
		if strings.TrimSpace(event.Type) == "" {
			return kafka.Permanent(errMissingEventType)
		}

		hCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Handle(hCtx, event)
	}
}
