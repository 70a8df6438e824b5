package worker

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

func TestProcessTaskSuccess(t *testing.T) {
	db := newTestDB(t)
	worker := NewExportWorker(db, t.TempDir(), RetryPolicy{}, nil)

	ctx := context.Background()
	seedOwnerData(t, db, 1)

	if err := worker.EnqueueOwnerReport(ctx, 1); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	worker.processTask(ctx, task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != "completed" {
		t.Fatalf("expected status=completed, got %s", status)
	}
	if retryCount != 0 {
		t.Fatalf("expected retry_count=0, got %d", retryCount)
	}
	if nextRetry.Valid {
		t.Fatalf("expected next_retry_at NULL on success")
	}

	path := filepath.Join(worker.exportPath, "owner_1_bookings.xlsx")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected export file at %s: %v", path, err)
	}
}

func TestProcessTaskRetry(t *testing.T) {
	db := newTestDB(t)
	// Export path is an existing file, so MkdirAll fails and the task retries.
	blocked := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	worker := NewExportWorker(db, blocked, RetryPolicy{MaxRetries: 3, InitialDelay: time.Second}, nil)

	ctx := context.Background()
	if err := worker.EnqueueOwnerReport(ctx, 1); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	worker.processTask(ctx, task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != "retry" {
		t.Fatalf("expected status=retry, got %s", status)
	}
	if retryCount != 1 {
		t.Fatalf("expected retry_count=1, got %d", retryCount)
	}
	if !nextRetry.Valid || nextRetry.Time.Before(time.Now()) {
		t.Fatalf("expected next_retry_at in future, got %v", nextRetry)
	}
}

func TestProcessTaskFail(t *testing.T) {
	db := newTestDB(t)
	blocked := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	worker := NewExportWorker(db, blocked, RetryPolicy{MaxRetries: 1}, nil)

	ctx := context.Background()
	worker.EnqueueOwnerReport(ctx, 1)
	task, _ := worker.tryLocalQueue()
	worker.processTask(ctx, task)

	status, _, _ := loadTaskStatus(t, db, task.ID)
	if status != "failed" {
		t.Fatalf("expected status=failed, got %s", status)
	}
}

func TestProcessTaskBadPayload(t *testing.T) {
	db := newTestDB(t)
	worker := NewExportWorker(db, t.TempDir(), RetryPolicy{}, nil)

	ctx := context.Background()
	task := &models.ExportTask{TaskType: TaskOwnerReport, Payload: "not json", Status: "pending"}
	if err := db.CreateExportTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	worker.processTask(ctx, task)

	status, _, _ := loadTaskStatus(t, db, task.ID)
	if status != "failed" {
		t.Fatalf("expected status=failed, got %s", status)
	}
}

func TestEnqueueOwnerReport(t *testing.T) {
	db := newTestDB(t)
	worker := NewExportWorker(db, t.TempDir(), RetryPolicy{MaxRetries: 3}, nil)

	ctx := context.Background()

	t.Run("ValidOwner", func(t *testing.T) {
		if err := worker.EnqueueOwnerReport(ctx, 5); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		tasks, err := db.GetPendingExportTasks(ctx, 10)
		if err != nil {
			t.Fatalf("pending: %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("expected 1 task, got %d", len(tasks))
		}
		if tasks[0].TaskType != TaskOwnerReport {
			t.Fatalf("expected %s, got %s", TaskOwnerReport, tasks[0].TaskType)
		}
	})

	t.Run("MissingOwner", func(t *testing.T) {
		if err := worker.EnqueueOwnerReport(ctx, 0); err == nil {
			t.Fatalf("expected error for zero owner id")
		}
	})
}

func TestSubscribeToBookings(t *testing.T) {
	db := newTestDB(t)
	worker := NewExportWorker(db, t.TempDir(), RetryPolicy{}, nil)
	bus := events.NewEventBus()
	worker.SubscribeToBookings(bus)

	err := bus.PublishJSON(events.EventBookingApproved, events.BookingEventPayload{
		BookingID: 1, ItemID: 2, OwnerID: 7, BookerID: 3, Status: "APPROVED",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected enqueued task after booking event")
	}
	if task.TaskType != TaskOwnerReport {
		t.Fatalf("expected %s, got %s", TaskOwnerReport, task.TaskType)
	}
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}
	d1 := policy.NextDelay(1)
	d2 := policy.NextDelay(2)
	d3 := policy.NextDelay(5)

	if d1 != time.Second {
		t.Fatalf("attempt1 expected 1s, got %s", d1)
	}
	if d2 != 2*time.Second {
		t.Fatalf("attempt2 expected 2s, got %s", d2)
	}
	if d3 != 5*time.Second {
		t.Fatalf("attempt5 expected capped 5s, got %s", d3)
	}
}

// Helpers

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.db")
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	db, err := database.NewDB(path, &logger)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedOwnerData(t *testing.T, db *database.DB, ownerID int64) {
	t.Helper()
	ctx := context.Background()

	item := &models.Item{OwnerID: ownerID, Name: "drill", Description: "cordless", Available: true}
	if err := db.CreateItem(ctx, item); err != nil {
		t.Fatalf("create item: %v", err)
	}

	start := time.Now().Add(24 * time.Hour)
	booking := &models.Booking{
		ItemID:   item.ID,
		ItemName: item.Name,
		BookerID: 42,
		Start:    start,
		End:      start.Add(48 * time.Hour),
		Status:   models.StatusWaiting,
	}
	if err := db.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("create booking: %v", err)
	}
}

func loadTaskStatus(t *testing.T, db *database.DB, id int64) (status string, retryCount int, nextRetry sql.NullTime) {
	t.Helper()
	row := db.QueryRowContext(context.Background(), `SELECT status, retry_count, next_retry_at FROM export_queue WHERE id = ?`, id)
	if err := row.Scan(&status, &retryCount, &nextRetry); err != nil {
		t.Fatalf("scan task: %v", err)
	}
	return status, retryCount, nextRetry
}
