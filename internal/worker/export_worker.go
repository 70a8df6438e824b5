package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	TaskOwnerReport = "owner_report"
)

// exportPayload is persisted in ExportTask.Payload as JSON.
type exportPayload struct {
	OwnerID int64 `json:"owner_id"`
}

// ExportWorker consumes export_queue tasks and renders owner booking
// reports as xlsx files under the configured export path.
type ExportWorker struct {
	db           *database.DB
	exportPath   string
	retryPolicy  RetryPolicy
	queue        chan *models.ExportTask
	pollInterval time.Duration
	batchSize    int
	logger       *zerolog.Logger
}

// NewExportWorker builds a worker with sane defaults.
func NewExportWorker(db *database.DB, exportPath string, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &ExportWorker{
		db:           db,
		exportPath:   exportPath,
		retryPolicy:  retry,
		queue:        make(chan *models.ExportTask, models.ExportQueueSize),
		pollInterval: 2 * time.Second,
		batchSize:    20,
		logger:       logger,
	}
}

// SubscribeToBookings schedules an owner report whenever a booking is
// created or decided.
func (w *ExportWorker) SubscribeToBookings(bus *events.EventBus) {
	handler := func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		return w.EnqueueOwnerReport(context.Background(), payload.OwnerID)
	}
	bus.Subscribe(events.EventBookingCreated, handler)
	bus.Subscribe(events.EventBookingApproved, handler)
	bus.Subscribe(events.EventBookingRejected, handler)
}

// EnqueueOwnerReport persists a report task and schedules it on the
// in-memory queue; the polling loop picks it up if the queue is full.
func (w *ExportWorker) EnqueueOwnerReport(ctx context.Context, ownerID int64) error {
	if ownerID == 0 {
		return errors.New("owner id is required")
	}

	raw, err := json.Marshal(exportPayload{OwnerID: ownerID})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	task := &models.ExportTask{
		TaskType: TaskOwnerReport,
		Payload:  string(raw),
		Status:   "pending",
	}
	if err := w.db.CreateExportTask(ctx, task); err != nil {
		return fmt.Errorf("persist export task: %w", err)
	}

	select {
	case w.queue <- task:
	default:
		w.logger.Warn().Int64("task_id", task.ID).Msg("export queue full, task left to polling")
	}
	return nil
}

// Start launches the main loop; stops when ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, t)
			continue
		}

		tasks, err := w.db.GetPendingExportTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Error().Err(err).Msg("fetch pending export tasks")
			w.sleep(ctx)
			continue
		}
		if len(tasks) == 0 {
			w.sleep(ctx)
			continue
		}

		for _, t := range tasks {
			w.processTask(ctx, t)
		}
	}
}

func (w *ExportWorker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.pollInterval):
	}
}

func (w *ExportWorker) tryLocalQueue() (*models.ExportTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return nil, false
	}
}

func (w *ExportWorker) processTask(ctx context.Context, task *models.ExportTask) {
	var payload exportPayload
	if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.handleTask(ctx, task.TaskType, payload); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark export completed")
	}
	metrics.IncExport("completed")
}

func (w *ExportWorker) handleTask(ctx context.Context, taskType string, payload exportPayload) error {
	switch taskType {
	case TaskOwnerReport:
		if payload.OwnerID == 0 {
			return errors.New("owner id missing")
		}
		_, err := w.WriteOwnerReport(ctx, payload.OwnerID)
		return err
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}
}

// WriteOwnerReport renders every booking of the owner's items into an
// xlsx file and returns its path.
func (w *ExportWorker) WriteOwnerReport(ctx context.Context, ownerID int64) (string, error) {
	if err := os.MkdirAll(w.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	items, err := w.db.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("error getting items: %v", err)
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	bookings, err := w.db.GetBookingsByItems(ctx, itemIDs)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings for owner %d", ownerID))

	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 3
	for _, b := range bookings {
		values := []interface{}{
			b.ID,
			b.ItemName,
			b.BookerID,
			b.Start.Format("2006-01-02 15:04"),
			b.End.Format("2006-01-02 15:04"),
			string(b.Status),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		row++
	}

	_ = f.SetColWidth(sheetName, "B", "B", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 20)
	_ = f.MergeCell(sheetName, "A1", "F1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("owner_%d_bookings.xlsx", ownerID)
	filePath := filepath.Join(w.exportPath, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	w.logger.Info().Str("file_path", filePath).Msg("export file created")
	return filePath, nil
}

func (w *ExportWorker) retryOrFail(ctx context.Context, task *models.ExportTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.failTask(ctx, task, cause)
		return
	}

	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().UTC().Add(nextDelay)
	if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "retry", cause.Error(), &nextTime); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark export retry")
	}
	metrics.IncExport("retry")
}

func (w *ExportWorker) failTask(ctx context.Context, task *models.ExportTask, cause error) {
	if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark export failed")
	}
	w.logger.Error().Err(cause).Int64("task_id", task.ID).Str("task_type", task.TaskType).Msg("export task failed")
	metrics.IncExport("failed")
}
