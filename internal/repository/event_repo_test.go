package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"interval_timer/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(0),
			"ANNOUNCE", "Round 1 Begin",
			`{"round":1}`,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.TimerEvent{
		Type:        "  announce ",
		Description: "Round 1 Begin",
		Metadata:    map[string]any{"round": 1},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_KeepsGivenIDAndFormatsTimestamp(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs("ev-1", "2025-03-04 05:06:07", int64(7), "PAUSE", "paused", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.TimerEvent{EventID: "ev-1", OccurredAt: at, Seq: 7, Type: "PAUSE", Description: "paused"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	mock.ExpectExec("INSERT INTO timer_events").
		WillReturnError(errors.New("down"))

	err = repo.Append(ctx(t), models.TimerEvent{Type: "start", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"round": "2"})

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "seq", "type", "message", "meta"}).
		AddRow("1", now, int64(1), "ANNOUNCE", "Round 2 Begin", string(js)).
		AddRow("2", now.Add(time.Second), int64(2), "PAUSE", "paused", nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + orderEventsSQL)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "1" || got[1].EventID != "2" || got[1].Seq != 2 {
		t.Fatalf("unexpected results: %+v", got)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := selectEventsSQL + ` WHERE occurred_at >= ? AND occurred_at <= ? AND type = ?` + orderEventsSQL

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "seq", "type", "message", "meta"}).
		AddRow("2", from, int64(4), "ANNOUNCE", "Time", nil).
		AddRow("3", to, int64(9), "ANNOUNCE", "10 Seconds", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("2025-01-01 11:00:00", "2025-01-01 12:00:00", "ANNOUNCE").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, " announce ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewEventSQLite(db)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "seq", "type", "message", "meta"}).
		AddRow("x", 123, int64(1), "START", "msg", nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + orderEventsSQL)).
		WillReturnRows(rows)

	if _, err = repo.List(ctx(t), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
