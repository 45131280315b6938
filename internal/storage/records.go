package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/helixbill/denialflow/internal/common"
	"github.com/helixbill/denialflow/internal/model"
)

// CreateDenialRecord persists a new denial record.
func (s *SQLiteStorage) CreateDenialRecord(ctx context.Context, record *model.DenialRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: record cannot be nil", common.ErrValidation)
	}
	if err := validateString(record.ID, "record ID"); err != nil {
		return err
	}
	if err := record.Case.Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	if !record.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", common.ErrValidation, record.Status)
	}

	codesJSON, err := json.Marshal(record.Case.DenialCodes)
	if err != nil {
		return fmt.Errorf("failed to marshal denial codes: %w", err)
	}
	snapshotJSON, err := json.Marshal(record.Case.Claim)
	if err != nil {
		return fmt.Errorf("failed to marshal claim snapshot: %w", err)
	}

	query := `INSERT INTO denial_records
		(id, claim_id, denial_codes, denial_reason_text, claim_snapshot, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.Case.ClaimID,
		string(codesJSON),
		record.Case.DenialReasonText,
		string(snapshotJSON),
		string(record.Status),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create denial record: %w", err)
	}
	return nil
}

// GetDenialRecord retrieves a denial record by ID.
func (s *SQLiteStorage) GetDenialRecord(ctx context.Context, id string) (*model.DenialRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "record ID"); err != nil {
		return nil, err
	}

	query := recordSelectColumns + ` FROM denial_records WHERE id = ?`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("denial record %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get denial record: %w", err)
	}
	return record, nil
}

// GetDenialRecordsByClaimID retrieves all denial records for a claim, oldest
// first.
func (s *SQLiteStorage) GetDenialRecordsByClaimID(ctx context.Context, claimID string) ([]model.DenialRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(claimID, "claim ID"); err != nil {
		return nil, err
	}

	query := recordSelectColumns + ` FROM denial_records WHERE claim_id = ? ORDER BY created_at, id`
	return s.queryRecords(ctx, query, claimID)
}

// GetDenialRecordsByStatus retrieves all denial records in a given status,
// oldest first.
func (s *SQLiteStorage) GetDenialRecordsByStatus(ctx context.Context, status model.DenialRecordStatus) ([]model.DenialRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", common.ErrValidation, status)
	}

	query := recordSelectColumns + ` FROM denial_records WHERE status = ? ORDER BY created_at, id`
	return s.queryRecords(ctx, query, string(status))
}

// UpdateDenialRecordStatus moves a record to a new lifecycle status. The
// transition is checked against the current status inside a transaction so a
// terminal record can never be reopened by a concurrent writer.
func (s *SQLiteStorage) UpdateDenialRecordStatus(ctx context.Context, id string, status model.DenialRecordStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "record ID"); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: invalid status %q", common.ErrValidation, status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM denial_records WHERE id = ?`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("denial record %s: %w", id, common.ErrNotFound)
		}
		return fmt.Errorf("failed to read current status: %w", err)
	}

	if !model.DenialRecordStatus(current).CanTransition(status) {
		return fmt.Errorf("%w: cannot transition record %s from %s to %s",
			common.ErrValidation, id, current, status)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE denial_records SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

// SaveClassification stores the classification verdict, the assigned workflow,
// and the priority score, and moves the record to classified.
func (s *SQLiteStorage) SaveClassification(ctx context.Context, id string, result model.ClassificationResult, workflow model.ResolutionWorkflow, priority int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "record ID"); err != nil {
		return err
	}
	if !result.Cause.Valid() {
		return fmt.Errorf("%w: invalid cause %q", common.ErrValidation, result.Cause)
	}
	if !workflow.Valid() {
		return fmt.Errorf("%w: invalid workflow %q", common.ErrValidation, workflow)
	}

	signalsJSON, err := json.Marshal(result.Signals)
	if err != nil {
		return fmt.Errorf("failed to marshal signals: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM denial_records WHERE id = ?`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("denial record %s: %w", id, common.ErrNotFound)
		}
		return fmt.Errorf("failed to read current status: %w", err)
	}
	if !model.DenialRecordStatus(current).CanTransition(model.StatusClassified) {
		return fmt.Errorf("%w: cannot transition record %s from %s to %s",
			common.ErrValidation, id, current, model.StatusClassified)
	}

	_, err = tx.ExecContext(ctx, `UPDATE denial_records
		SET cause = ?, confidence = ?, subcategory = ?, signals = ?,
		    assigned_workflow = ?, priority_score = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		string(result.Cause),
		result.Confidence,
		result.Subcategory,
		string(signalsJSON),
		string(workflow),
		priority,
		string(model.StatusClassified),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to save classification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit classification: %w", err)
	}
	return nil
}

const recordSelectColumns = `SELECT id, claim_id, denial_codes, denial_reason_text, claim_snapshot,
	status, cause, confidence, subcategory, signals, assigned_workflow, priority_score,
	created_at, updated_at`

func (s *SQLiteStorage) queryRecords(ctx context.Context, query string, args ...any) ([]model.DenialRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query denial records: %w", err)
	}
	defer rows.Close()

	var records []model.DenialRecord
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan denial record: %w", scanErr)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate denial records: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.DenialRecord, error) {
	var (
		record       model.DenialRecord
		codesJSON    string
		reasonText   sql.NullString
		snapshotJSON string
		status       string
		cause        sql.NullString
		confidence   sql.NullFloat64
		subcategory  sql.NullString
		signalsJSON  sql.NullString
		workflow     sql.NullString
		priority     sql.NullInt64
	)

	err := row.Scan(
		&record.ID,
		&record.Case.ClaimID,
		&codesJSON,
		&reasonText,
		&snapshotJSON,
		&status,
		&cause,
		&confidence,
		&subcategory,
		&signalsJSON,
		&workflow,
		&priority,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(codesJSON), &record.Case.DenialCodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal denial codes: %w", err)
	}
	if err := json.Unmarshal([]byte(snapshotJSON), &record.Case.Claim); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claim snapshot: %w", err)
	}
	record.Case.DenialReasonText = reasonText.String
	record.Status = model.DenialRecordStatus(status)

	if cause.Valid {
		result := model.ClassificationResult{
			Cause:       model.DenialCause(cause.String),
			Confidence:  confidence.Float64,
			Subcategory: subcategory.String,
		}
		if signalsJSON.Valid && signalsJSON.String != "" {
			if err := json.Unmarshal([]byte(signalsJSON.String), &result.Signals); err != nil {
				return nil, fmt.Errorf("failed to unmarshal signals: %w", err)
			}
		}
		record.Classification = &result
	}
	if workflow.Valid {
		record.AssignedWorkflow = model.ResolutionWorkflow(workflow.String)
	}
	record.PriorityScore = int(priority.Int64)

	return &record, nil
}
