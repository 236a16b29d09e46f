package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wcewong/paygen/internal/events"
	"github.com/wcewong/paygen/internal/payslip"
	"github.com/wcewong/paygen/internal/shared/apperror"
	"github.com/wcewong/paygen/internal/shared/contextutil"
	"github.com/wcewong/paygen/internal/shared/money"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

var errMalformedEvent = errors.New("malformed payslip requested event")

// ConsumePayslipRequested generates a payslip for every requested event
// until ctx is cancelled. Malformed or rejected events are committed and
// skipped. A transient failure is not committed, but committing a later
// message on the same partition moves the offset past it, so it is only
// redelivered if the consumer restarts before that next commit.
func ConsumePayslipRequested(
	ctx context.Context,
	reader MessageReader,
	payslipService payslip.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_requested")
	log.Info("payslip requested consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip requested consumer stopped")
				return
			}
			log.Error("fetch payslip requested message failed", zap.Error(err))
			continue
		}

		event, err := handlePayslipRequested(ctx, payslipService, msg)
		if err != nil {
			if isPermanent(err) {
				log.Warn("payslip requested event rejected, skipping",
					zap.String("request_id", event.RequestID),
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("generate payslip from event failed",
				zap.String("request_id", event.RequestID),
				zap.String("employee_name", event.EmployeeName),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip requested message failed", zap.Error(err))
			continue
		}

		log.Info("payslip generated from event",
			zap.String("request_id", event.RequestID),
			zap.String("employee_name", event.EmployeeName),
		)
	}
}

func handlePayslipRequested(ctx context.Context, svc payslip.Service, msg kafkago.Message) (events.PayslipRequestedEvent, error) {
	var event events.PayslipRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return event, fmt.Errorf("%w: %v", errMalformedEvent, err)
	}

	rid := event.RequestID
	if rid == "" {
		rid = headerValue(msg, "request_id")
		event.RequestID = rid
	}
	if rid != "" {
		ctx = contextutil.WithRequestID(ctx, rid)
	}

	_, err := svc.GenerateMonthlyPayslip(ctx, event.EmployeeName, money.Cents(event.AnnualSalaryCents), event.CurrencyCode)
	return event, err
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// isPermanent reports whether redelivering the message cannot succeed.
func isPermanent(err error) bool {
	if errors.Is(err, errMalformedEvent) {
		return true
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus >= http.StatusBadRequest && appErr.HTTPStatus < http.StatusInternalServerError
	}
	return false
}
