package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	inHttp "github.com/prawira/storefront/internal/http"
	"github.com/prawira/storefront/internal/log"
	inOtel "github.com/prawira/storefront/internal/otel"
)

// Confirmation is the message published after an order is committed.
type Confirmation struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Recipient   string          `json:"recipient"`
}

// Sink delivers order confirmations. Delivery is best effort, callers log
// failures and never propagate them to the shopper.
type Sink interface {
	Notify(c context.Context, confirmation Confirmation) error
}

type RedisSink struct {
	client  *redis.Client
	channel string
}

func NewRedisSink(client *redis.Client, channel string) RedisSink {
	return RedisSink{client: client, channel: channel}
}

func (s RedisSink) Notify(c context.Context, confirmation Confirmation) error {
	c, span := inOtel.Tracer.Start(c, "RedisSink Notify")
	defer span.End()

	payload, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("failed marshaling confirmation with error=%w", err)
	}
	err = s.client.Publish(c, s.channel, payload).Err()
	if err != nil {
		return fmt.Errorf("failed publishing confirmation to channel=%s with error=%w", s.channel, err)
	}
	return nil
}

type WebhookSink struct {
	client *http.Client
	url    string
}

func NewWebhookSink(url string) WebhookSink {
	return WebhookSink{client: otelhttp.DefaultClient, url: url}
}

func (s WebhookSink) Notify(c context.Context, confirmation Confirmation) error {
	c, span := inOtel.Tracer.Start(c, "WebhookSink Notify")
	defer span.End()

	payload, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("failed marshaling confirmation with error=%w", err)
	}

	req, err := http.NewRequestWithContext(c, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed creating webhook request with error=%w", err)
	}
	req.Header.Set(inHttp.HeaderContentType, inHttp.HeaderValueJson)

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed posting confirmation to webhook with error=%w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed posting confirmation to webhook with status=%d", res.StatusCode)
	}
	return nil
}

// Multi fans a confirmation out to every sink and joins the failures so one
// broken channel never hides the others.
type Multi []Sink

func (m Multi) Notify(c context.Context, confirmation Confirmation) error {
	c, span := inOtel.Tracer.Start(c, "Multi Notify")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Multi Notify").
		Str(log.KeyOrderNumber, confirmation.OrderNumber).
		Logger()

	var errs []error
	for _, sink := range m {
		err := sink.Notify(c, confirmation)
		if err != nil {
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
