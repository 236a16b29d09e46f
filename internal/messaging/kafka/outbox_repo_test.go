package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/wcewong/paygen/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNewOutboxEvent(t *testing.T) {
	event, err := kafka.NewOutboxEvent("rid-1", "payslip", "agg-1", "payslip_generated", "topic.v1", map[string]int{"n": 1})

	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "rid-1", event.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.JSONEq(t, `{"n":1}`, string(event.Payload))
	assert.NoError(t, kafka.ValidateOutboxEvent(event))

	_, err = kafka.NewOutboxEvent("", "payslip", "agg-1", "payslip_generated", "topic.v1", make(chan int))
	assert.Error(t, err)
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "1", Topic: "t", EventType: "e", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}

	tests := []struct {
		name   string
		mutate func(e *kafka.OutboxEvent)
	}{
		{"missing id", func(e *kafka.OutboxEvent) { e.ID = "" }},
		{"missing topic", func(e *kafka.OutboxEvent) { e.Topic = "" }},
		{"missing event type", func(e *kafka.OutboxEvent) { e.EventType = "" }},
		{"missing payload", func(e *kafka.OutboxEvent) { e.Payload = nil }},
		{"unknown status", func(e *kafka.OutboxEvent) { e.Status = "queued" }},
	}

	assert.NoError(t, kafka.ValidateOutboxEvent(valid))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			assert.Error(t, kafka.ValidateOutboxEvent(e))
		})
	}
}

func TestOutboxRepository_CreateWithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	payload, _ := json.Marshal(map[string]string{"employee_name": "Ren"})
	event := kafka.OutboxEvent{
		ID: "evt-1", RequestID: "rid-1", AggregateType: "payslip", AggregateID: "agg-1",
		EventType: "payslip_generated", Topic: "paygen.payslip.generated.v1",
		Payload: payload, Status: kafka.OutboxStatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, event.RequestID, event.AggregateType, event.AggregateID,
			event.EventType, event.Topic, event.Payload, event.Status).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db)
	assert.NoError(t, repo.WithTx(tx).Create(context.Background(), event))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalidEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	err = repo.Create(context.Background(), kafka.OutboxEvent{ID: "x"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type",
		"topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow("evt-1", "rid-1", "payslip", "agg-1", "payslip_generated",
		"paygen.payslip.generated.v1", []byte(`{}`), kafka.OutboxStatusFailed, 2, now)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, kafka.DefaultBatchSize).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 0)

	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "rid-1", events[0].RequestID)
	assert.Equal(t, 2, events[0].RetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkSentAndFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("evt-1", kafka.OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("evt-2", kafka.OutboxStatusFailed, "broker down", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := kafka.NewOutboxRepository(db)
	assert.NoError(t, repo.MarkSent(context.Background(), "evt-1"))
	assert.NoError(t, repo.MarkFailed(context.Background(), "evt-2", "broker down"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
