package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/wcewong/paygen/internal/events"
	"github.com/wcewong/paygen/internal/messaging/kafka/consumer"
	"github.com/wcewong/paygen/internal/payslip"
	paysliperrors "github.com/wcewong/paygen/internal/payslip/errors"
	"github.com/wcewong/paygen/internal/shared/contextutil"
	"github.com/wcewong/paygen/internal/shared/money"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves msgs in order, then cancels the consumer.
type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafkago.Message
	fetchErrs []error
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.fetchErrs) > 0 {
		err := f.fetchErrs[0]
		f.fetchErrs = f.fetchErrs[1:]
		return kafkago.Message{}, err
	}
	if len(f.msgs) == 0 {
		f.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := f.msgs[0]
	f.msgs = f.msgs[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

type generateCall struct {
	requestID string
	name      string
	salary    money.Cents
	currency  string
}

type fakePayslipService struct {
	payslip.Service
	calls      []generateCall
	generateFn func(name string) error
}

func (f *fakePayslipService) GenerateMonthlyPayslip(ctx context.Context, name string, salary money.Cents, currency string) (payslip.Result, error) {
	f.calls = append(f.calls, generateCall{
		requestID: contextutil.GetRequestID(ctx),
		name:      name,
		salary:    salary,
		currency:  currency,
	})
	if f.generateFn != nil {
		return payslip.Result{}, f.generateFn(name)
	}
	return payslip.Result{EmployeeName: name}, nil
}

func requestedMessage(t *testing.T, offset int64, event events.PayslipRequestedEvent, headers ...kafkago.Header) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	assert.NoError(t, err)
	return kafkago.Message{
		Topic:   events.PayslipRequestedTopic,
		Offset:  offset,
		Value:   payload,
		Headers: headers,
	}
}

func run(reader *fakeReader, svc payslip.Service) {
	ctx, cancel := context.WithCancel(context.Background())
	reader.cancel = cancel
	consumer.ConsumePayslipRequested(ctx, reader, svc, zap.NewNop())
}

func TestConsumePayslipRequested(t *testing.T) {
	t.Run("generates and commits", func(t *testing.T) {
		reader := &fakeReader{msgs: []kafkago.Message{
			requestedMessage(t, 1, events.PayslipRequestedEvent{
				EventType:         "payslip_requested",
				RequestID:         "REQ-1",
				EmployeeName:      "Ren",
				AnnualSalaryCents: 6000000,
				CurrencyCode:      "SGD",
			}),
			requestedMessage(t, 2, events.PayslipRequestedEvent{
				EmployeeName:      "Mei",
				AnnualSalaryCents: 8015000,
			}, kafkago.Header{Key: "request_id", Value: []byte("REQ-H")}),
		}}
		svc := &fakePayslipService{}

		run(reader, svc)

		assert.Equal(t, []int64{1, 2}, reader.committed)
		assert.Equal(t, []generateCall{
			{requestID: "REQ-1", name: "Ren", salary: 6000000, currency: "SGD"},
			{requestID: "REQ-H", name: "Mei", salary: 8015000, currency: ""},
		}, svc.calls)
	})

	t.Run("malformed payload is skipped", func(t *testing.T) {
		reader := &fakeReader{msgs: []kafkago.Message{
			{Offset: 5, Value: []byte("{not json")},
		}}
		svc := &fakePayslipService{}

		run(reader, svc)

		assert.Equal(t, []int64{5}, reader.committed)
		assert.Empty(t, svc.calls)
	})

	t.Run("validation error is committed", func(t *testing.T) {
		reader := &fakeReader{msgs: []kafkago.Message{
			requestedMessage(t, 7, events.PayslipRequestedEvent{EmployeeName: "", AnnualSalaryCents: 100}),
		}}
		svc := &fakePayslipService{generateFn: func(string) error {
			return paysliperrors.ErrEmptyEmployeeName
		}}

		run(reader, svc)

		assert.Equal(t, []int64{7}, reader.committed)
	})

	t.Run("transient error is not committed", func(t *testing.T) {
		reader := &fakeReader{msgs: []kafkago.Message{
			requestedMessage(t, 8, events.PayslipRequestedEvent{EmployeeName: "Ren", AnnualSalaryCents: 6000000}),
			requestedMessage(t, 9, events.PayslipRequestedEvent{EmployeeName: "Mei", AnnualSalaryCents: 6000000}),
		}}
		svc := &fakePayslipService{generateFn: func(name string) error {
			if name == "Ren" {
				return errors.New("connection refused")
			}
			return nil
		}}

		run(reader, svc)

		assert.Equal(t, []int64{9}, reader.committed)
		assert.Len(t, svc.calls, 2)
	})

	t.Run("fetch error does not stop the loop", func(t *testing.T) {
		reader := &fakeReader{
			fetchErrs: []error{errors.New("broker unavailable")},
			msgs: []kafkago.Message{
				requestedMessage(t, 3, events.PayslipRequestedEvent{EmployeeName: "Ren", AnnualSalaryCents: 6000000}),
			},
		}
		svc := &fakePayslipService{}

		run(reader, svc)

		assert.Equal(t, []int64{3}, reader.committed)
	})
}
