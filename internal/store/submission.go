package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/vastu/internal/questionnaire"
)

const submissionsTable = "submissions"

var submissionColumns = []string{
	"id", "sequence", "received_at", "idempotency_key",
	"name", "email", "phone",
	"answers", "grade", "score_percent", "total_answered", "user_score",
	"mail_status", "mail_error",
}

// submissionRepo implements SubmissionRepo with SQL built by ent's dialect
// builder and executed on the raw connection.
type submissionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *submissionRepo) Append(ctx context.Context, sub *Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.ReceivedAt.IsZero() {
		sub.ReceivedAt = time.Now()
	}
	if sub.MailStatus == "" {
		sub.MailStatus = MailPending
	}
	answers := sub.Answers
	if answers == nil {
		answers = questionnaire.Answers{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(submissionsTable).
		Columns(submissionColumns...).
		Values(
			sub.ID, seq, sub.ReceivedAt.UnixMilli(), sub.IdempotencyKey,
			sub.Name, sub.Email, sub.Phone,
			string(answersJSON), string(sub.Grade), sub.ScorePercent, sub.TotalAnswered, sub.UserScore,
			sub.MailStatus, sub.MailError,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) && sub.IdempotencyKey != "" {
			return ErrDuplicate
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	sub.Sequence = seq
	sub.ReceivedAt = time.UnixMilli(sub.ReceivedAt.UnixMilli())
	return nil
}

func (r *submissionRepo) Get(ctx context.Context, id string) (*Submission, error) {
	sub, err := r.first(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	return sub, nil
}

func (r *submissionRepo) ByIdempotencyKey(ctx context.Context, key string) (*Submission, error) {
	if key == "" {
		return nil, nil
	}
	return r.first(ctx, entsql.EQ("idempotency_key", key))
}

func (r *submissionRepo) first(ctx context.Context, p *entsql.Predicate) (*Submission, error) {
	query, args := builder().Select(submissionColumns...).
		From(entsql.Table(submissionsTable)).
		Where(p).
		Limit(1).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanSubmission(rows)
}

func (r *submissionRepo) List(ctx context.Context, opts QueryOpts) ([]Submission, error) {
	sel := builder().Select(submissionColumns...).
		From(entsql.Table(submissionsTable)).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("received_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("received_at", opts.To.UnixMilli()))
	}
	if opts.Grade != "" {
		preds = append(preds, entsql.EQ("grade", string(opts.Grade)))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sub)
	}
	return out, rows.Err()
}

func (r *submissionRepo) SetMailStatus(ctx context.Context, id, status, errMsg string) error {
	query, args := builder().Update(submissionsTable).
		Set("mail_status", status).
		Set("mail_error", errMsg).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update mail status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *submissionRepo) Stats(ctx context.Context) (*Stats, error) {
	query, args := builder().Select(
		"grade",
		entsql.Count("*"),
		entsql.Sum("score_percent"),
		entsql.Max("received_at"),
	).
		From(entsql.Table(submissionsTable)).
		GroupBy("grade").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{ByGrade: make(map[questionnaire.Grade]int)}
	var percentSum int64
	var latest int64
	for rows.Next() {
		var (
			grade  string
			count  int
			sum    int64
			newest int64
		)
		if err := rows.Scan(&grade, &count, &sum, &newest); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats.ByGrade[questionnaire.Grade(grade)] = count
		stats.Total += count
		percentSum += sum
		if newest > latest {
			latest = newest
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if stats.Total > 0 {
		stats.AveragePercent = float64(percentSum) / float64(stats.Total)
		stats.Latest = time.UnixMilli(latest)
	}

	query, args = builder().Select(entsql.Count("*")).
		From(entsql.Table(submissionsTable)).
		Where(entsql.EQ("mail_status", MailFailed)).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.MailFailed); err != nil {
		return nil, fmt.Errorf("count failed mail: %w", err)
	}
	return stats, nil
}

func (r *submissionRepo) DeleteAll(ctx context.Context) (int64, error) {
	query, args := builder().Delete(submissionsTable).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete submissions: %w", err)
	}
	n, _ := res.RowsAffected()
	if err := r.seq.Reset(ctx); err != nil {
		return n, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*Submission, error) {
	var (
		sub        Submission
		receivedAt int64
		answers    string
		grade      string
	)
	err := row.Scan(
		&sub.ID, &sub.Sequence, &receivedAt, &sub.IdempotencyKey,
		&sub.Name, &sub.Email, &sub.Phone,
		&answers, &grade, &sub.ScorePercent, &sub.TotalAnswered, &sub.UserScore,
		&sub.MailStatus, &sub.MailError,
	)
	if err != nil {
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	sub.ReceivedAt = time.UnixMilli(receivedAt)
	sub.Grade = questionnaire.Grade(grade)
	if err := json.Unmarshal([]byte(answers), &sub.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	return &sub, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
