package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// timeLayout has a fixed width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when no stored run matches the requested id
var ErrRunNotFound = errors.New("planning run not found")

// RunSummary is the listing view of a stored run
type RunSummary struct {
	ID          string              `json:"id"`
	InputDigest string              `json:"input_digest"`
	Buckets     int                 `json:"buckets"`
	Unit        entities.BucketUnit `json:"unit"`
	Summary     dto.Summary         `json:"summary"`
	CreatedAt   time.Time           `json:"created_at"`
}

// LedgerRow is a stored ledger row of one item
type LedgerRow struct {
	Item         entities.ItemCode `json:"item"`
	LowLevelCode int               `json:"low_level_code"`
	entities.PlanningLedgerRow
}

// Store persists planning results
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Verify interface compliance
var _ mrp.RunStore = (*Store)(nil)

// NewStore opens the database at path and migrates it
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger.Named("store"), now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a result together with its ledger rows and conditions
func (s *Store) SaveRun(ctx context.Context, result *dto.PlanningRunResult) error {
	if result.RunID == "" || result.InputDigest == "" {
		return fmt.Errorf("run id and input digest are required")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode planning run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO planning_runs
			(id, input_digest, horizon_buckets, bucket_unit, items, planned_orders, release_buckets, past_due_items, failed_items, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (input_digest) DO NOTHING`,
		result.RunID, result.InputDigest, result.Horizon.Buckets, string(result.Horizon.Unit),
		result.Summary.Items, result.Summary.PlannedOrders, result.Summary.ReleaseBuckets, result.Summary.PastDueItems, result.Summary.FailedItems,
		string(payload), s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert planning run: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert planning run: %w", err)
	}
	if inserted == 0 {
		return fmt.Errorf("%w: %s", mrp.ErrRunExists, result.InputDigest)
	}

	rowStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO planning_ledger_rows
			(run_id, item_code, low_level_code, bucket, independent_demand, dependent_demand, gross_requirement,
			 scheduled_receipt, beginning_on_hand, projected_on_hand, net_requirement, planned_order_receipt, planned_order_release)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare ledger insert: %w", err)
	}
	defer rowStmt.Close()

	for _, plan := range result.Items {
		for _, row := range plan.Rows {
			if _, err := rowStmt.ExecContext(ctx,
				result.RunID, string(plan.Item), plan.LowLevelCode, row.Bucket,
				row.IndependentDemand, row.DependentDemand, row.GrossRequirement,
				row.ScheduledReceipt, row.BeginningOnHand, row.ProjectedOnHand,
				row.NetRequirement, row.PlannedOrderReceipt, row.PlannedOrderRelease,
			); err != nil {
				return fmt.Errorf("insert ledger row %s/%d: %w", plan.Item, row.Bucket, err)
			}
		}
	}

	for _, cond := range append(append([]entities.Condition(nil), result.PastDue...), result.Failures...) {
		buckets, err := json.Marshal(cond.Buckets)
		if err != nil {
			return fmt.Errorf("encode condition buckets: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO planning_exceptions (run_id, item_code, kind, reason, buckets) VALUES (?, ?, ?, ?, ?)`,
			result.RunID, string(cond.Item), string(cond.Kind), cond.Reason, string(buckets),
		); err != nil {
			return fmt.Errorf("insert planning exception for %s: %w", cond.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit planning run: %w", err)
	}

	s.logger.Debug("Stored planning run", zap.String("run_id", result.RunID), zap.Int("items", len(result.Items)))
	return nil
}

// GetRun returns a stored result by run id
func (s *Store) GetRun(ctx context.Context, id string) (*dto.PlanningRunResult, error) {
	result, err := s.scanResult(s.db.QueryRowContext(ctx, `SELECT result_json FROM planning_runs WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return result, nil
}

// FindByDigest returns the stored run for an input digest, or nil if there is none
func (s *Store) FindByDigest(ctx context.Context, digest string) (*dto.PlanningRunResult, error) {
	return s.scanResult(s.db.QueryRowContext(ctx, `SELECT result_json FROM planning_runs WHERE input_digest = ?`, digest))
}

func (s *Store) scanResult(row *sql.Row) (*dto.PlanningRunResult, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query planning run: %w", err)
	}

	var result dto.PlanningRunResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode planning run: %w", err)
	}
	return &result, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT id, input_digest, horizon_buckets, bucket_unit, items, planned_orders, release_buckets, past_due_items, failed_items, created_at
		FROM planning_runs
		ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list planning runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var (
			run       RunSummary
			unit      string
			createdAt string
		)
		if err := rows.Scan(&run.ID, &run.InputDigest, &run.Buckets, &unit,
			&run.Summary.Items, &run.Summary.PlannedOrders, &run.Summary.ReleaseBuckets, &run.Summary.PastDueItems, &run.Summary.FailedItems,
			&createdAt); err != nil {
			return nil, fmt.Errorf("scan planning run: %w", err)
		}
		run.Unit = entities.BucketUnit(unit)
		if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at of run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LedgerRows returns the stored ledger rows of a run, optionally for a single item,
// ordered by low-level code, item and bucket
func (s *Store) LedgerRows(ctx context.Context, runID string, item entities.ItemCode) ([]LedgerRow, error) {
	query := `
		SELECT item_code, low_level_code, bucket, independent_demand, dependent_demand, gross_requirement,
		       scheduled_receipt, beginning_on_hand, projected_on_hand, net_requirement,
		       planned_order_receipt, planned_order_release
		FROM planning_ledger_rows
		WHERE run_id = ?`
	args := []interface{}{runID}
	if item != "" {
		query += ` AND item_code = ?`
		args = append(args, string(item))
	}
	query += ` ORDER BY low_level_code, item_code, bucket`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger rows: %w", err)
	}
	defer rows.Close()

	var ledger []LedgerRow
	for rows.Next() {
		var (
			r    LedgerRow
			code string
		)
		if err := rows.Scan(&code, &r.LowLevelCode, &r.Bucket, &r.IndependentDemand, &r.DependentDemand,
			&r.GrossRequirement, &r.ScheduledReceipt, &r.BeginningOnHand, &r.ProjectedOnHand,
			&r.NetRequirement, &r.PlannedOrderReceipt, &r.PlannedOrderRelease); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		r.Item = entities.ItemCode(code)
		ledger = append(ledger, r)
	}
	return ledger, rows.Err()
}

// Conditions returns the stored conditions of a run ordered by item and kind
func (s *Store) Conditions(ctx context.Context, runID string) ([]entities.Condition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_code, kind, reason, buckets FROM planning_exceptions
		WHERE run_id = ? ORDER BY item_code, kind`, runID)
	if err != nil {
		return nil, fmt.Errorf("query planning exceptions: %w", err)
	}
	defer rows.Close()

	var conditions []entities.Condition
	for rows.Next() {
		var (
			cond        entities.Condition
			code, kind  string
			bucketsJSON string
		)
		if err := rows.Scan(&code, &kind, &cond.Reason, &bucketsJSON); err != nil {
			return nil, fmt.Errorf("scan planning exception: %w", err)
		}
		if err := json.Unmarshal([]byte(bucketsJSON), &cond.Buckets); err != nil {
			return nil, fmt.Errorf("decode exception buckets: %w", err)
		}
		cond.Item = entities.ItemCode(code)
		cond.Kind = entities.ConditionKind(kind)
		conditions = append(conditions, cond)
	}
	return conditions, rows.Err()
}
