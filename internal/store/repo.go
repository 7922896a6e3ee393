package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/vastu/internal/questionnaire"
)

// ErrNotFound is returned when a submission does not exist.
var ErrNotFound = errors.New("submission not found")

// ErrDuplicate is returned when a submission reuses an idempotency key.
var ErrDuplicate = errors.New("duplicate idempotency key")

// Mail delivery states recorded on a submission.
const (
	MailPending = "pending"
	MailSent    = "sent"
	MailFailed  = "failed"
)

// QueryOpts configures submission queries with filtering and pagination.
type QueryOpts struct {
	Limit  int                 // max results (0 = unlimited)
	After  int64               // sequence > After
	Before int64               // sequence < Before
	From   time.Time           // received_at >= From
	To     time.Time           // received_at <= To
	Grade  questionnaire.Grade // exact grade match when set
}

// Submission is one questionnaire result received by the notification
// endpoint.
type Submission struct {
	ID             string
	Sequence       int64
	ReceivedAt     time.Time
	IdempotencyKey string

	Name  string
	Email string
	Phone string

	Answers       questionnaire.Answers
	Grade         questionnaire.Grade
	ScorePercent  int
	TotalAnswered int
	UserScore     int

	MailStatus string
	MailError  string
}

// Stats summarizes stored submissions.
type Stats struct {
	Total          int
	ByGrade        map[questionnaire.Grade]int
	AveragePercent float64
	MailFailed     int
	Latest         time.Time
}

// SubmissionRepo persists received submissions.
type SubmissionRepo interface {
	// Append stores a new submission, assigning ID, Sequence and ReceivedAt
	// when they are empty.
	Append(ctx context.Context, sub *Submission) error

	// Get returns a submission by ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Submission, error)

	// ByIdempotencyKey returns the submission stored under key, or nil if none.
	ByIdempotencyKey(ctx context.Context, key string) (*Submission, error)

	// List returns submissions newest first.
	List(ctx context.Context, opts QueryOpts) ([]Submission, error)

	// SetMailStatus records the outcome of the result email.
	SetMailStatus(ctx context.Context, id, status, errMsg string) error

	// Stats aggregates all submissions.
	Stats(ctx context.Context) (*Stats, error)

	// DeleteAll removes every submission and rewinds the sequence.
	DeleteAll(ctx context.Context) (int64, error)
}
