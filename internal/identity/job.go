package identity

import (
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// ReconcileJobArgs contains the arguments for a registration-event reconcile
// job submitted to River. The job is enqueued in the same transaction as the
// user snapshot, so every durable user is guaranteed a pending reconcile even
// when the workflow's own event append never runs.
type ReconcileJobArgs struct {
	// UserID is the durable id of the registered user. It is marked as unique
	// so River keeps one reconcile job per user.
	UserID int64 `json:"user_id" river:"unique"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
	// delay postpones the job, giving the workflow's direct append time to land
	// before the reconciler looks at the stream.
	delay time.Duration
}

// Kind returns the River job kind used to register and dispatch the reconcile worker.
func (args ReconcileJobArgs) Kind() string { return "ReconcileRegistrationEvents" }

// InsertOpts returns the River options that control how the job is enqueued,
// including scheduling delay, retry attempts, and uniqueness so a user never
// accumulates more than one live reconcile job.
func (args ReconcileJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		ScheduledAt: time.Now().Add(args.delay),
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}
