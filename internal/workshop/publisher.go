package workshop

import (
    "context"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/workshop-job-service/internal/model"
    "github.com/iliyamo/workshop-job-service/internal/queue"
)

// Publisher delivers domain events to external collaborators.  The
// production implementation publishes to RabbitMQ; tests substitute a
// recorder.  Publish failures never fail the originating operation –
// the state change has already committed.
type Publisher interface {
    PublishJobStatusChanged(ctx context.Context, ev queue.JobStatusChangedEvent) error
}

// NopPublisher discards events.  Used when no broker is configured.
type NopPublisher struct{}

// PublishJobStatusChanged implements Publisher by doing nothing.
func (NopPublisher) PublishJobStatusChanged(ctx context.Context, ev queue.JobStatusChangedEvent) error {
    return nil
}

// statusEvent builds the event payload for a committed transition.
func statusEvent(job *model.JobCard, from model.JobStatus) queue.JobStatusChangedEvent {
    return queue.JobStatusChangedEvent{
        EventID:    uuid.NewString(),
        JobID:      job.ID,
        BranchID:   job.BranchID,
        FromStatus: string(from),
        ToStatus:   string(job.Status),
        PaintStage: string(job.PaintStage),
        NetFils:    job.NetFils,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}
