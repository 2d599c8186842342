package core

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a Task's thunk panics during execution.
// Implementations should be safe for concurrent use; they may be called
// from any Executor worker.
type PanicHandler interface {
	// HandlePanic is called when taskID's thunk panics.
	HandlePanic(taskID uuid.UUID, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler logs the panic via the package-level logger (see
// logger.go) and otherwise swallows it -- the Task still completes.
type DefaultPanicHandler struct{}

// HandlePanic logs the panic at Error level.
func (h *DefaultPanicHandler) HandlePanic(taskID uuid.UUID, panicInfo any, stackTrace []byte) {
	defaultLogger.Error("task panicked",
		F("task_id", taskID.String()),
		F("panic", panicInfo),
		F("stack", string(stackTrace)),
	)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting Scheduler and Task
// execution metrics. Implementations can send metrics to monitoring
// systems (Prometheus, StatsD, etc.). All methods must be non-blocking
// and fast, since they run inline on the Executor worker.
type Metrics interface {
	// RecordTaskDuration records how long a task took to execute, and the
	// priority bucket it ran from ("high" or a stringified priority
	// number).
	RecordTaskDuration(priority string, duration time.Duration)

	// RecordTaskPanic records that a task panicked during execution.
	RecordTaskPanic(panicInfo any)

	// RecordQueueDepth records the current queue depth for a priority
	// bucket.
	RecordQueueDepth(priority string, depth int)

	// RecordTaskRejected records that a task was rejected (posted to a
	// Scheduler after Shutdown).
	RecordTaskRejected(reason string)
}

// NilMetrics is a no-op Metrics implementation; it is the default when no
// Metrics is configured.
type NilMetrics struct{}

func (m *NilMetrics) RecordTaskDuration(priority string, duration time.Duration) {}
func (m *NilMetrics) RecordTaskPanic(panicInfo any)                              {}
func (m *NilMetrics) RecordQueueDepth(priority string, depth int)                {}
func (m *NilMetrics) RecordTaskRejected(reason string)                           {}

// =============================================================================
// RejectedTaskHandler: Interface for handling tasks rejected at shutdown
// =============================================================================

// RejectedTaskHandler is called when AddTask/ScheduleTask is invoked on a
// Scheduler that has been shut down. Implementations must not block.
type RejectedTaskHandler interface {
	// HandleRejected is called with reason describing why the task was
	// rejected (currently always "scheduler_closed").
	HandleRejected(reason string)
}

// DefaultRejectedTaskHandler logs the rejection via the package-level
// logger and otherwise discards the task.
type DefaultRejectedTaskHandler struct{}

func (h *DefaultRejectedTaskHandler) HandleRejected(reason string) {
	defaultLogger.Warn("task rejected", F("reason", reason))
}
