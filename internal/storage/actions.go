package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/helixbill/denialflow/internal/common"
	"github.com/helixbill/denialflow/internal/model"
)

// AppendAction adds one entry to the append-only audit trail. There is no
// update or delete path for remediation actions.
func (s *SQLiteStorage) AppendAction(ctx context.Context, action *model.RemediationAction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if action == nil {
		return fmt.Errorf("%w: action cannot be nil", common.ErrValidation)
	}
	if err := action.Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}

	payloadJSON, err := json.Marshal(action.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal action payload: %w", err)
	}

	query := `INSERT INTO remediation_actions
		(id, denial_record_id, action_type, payload, status, executed_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		action.ID,
		action.DenialRecordID,
		action.ActionType,
		string(payloadJSON),
		string(action.Status),
		action.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrAuditPersistence, err)
	}
	return nil
}

// GetActions retrieves the audit trail for one denial record in execution
// order.
func (s *SQLiteStorage) GetActions(ctx context.Context, denialRecordID string) ([]model.RemediationAction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(denialRecordID, "denial record ID"); err != nil {
		return nil, err
	}

	query := `SELECT id, denial_record_id, action_type, payload, status, executed_at
		FROM remediation_actions
		WHERE denial_record_id = ?
		ORDER BY executed_at, rowid`

	rows, err := s.db.QueryContext(ctx, query, denialRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var actions []model.RemediationAction
	for rows.Next() {
		var (
			action      model.RemediationAction
			payloadJSON sql.NullString
			status      string
		)
		if err := rows.Scan(
			&action.ID,
			&action.DenialRecordID,
			&action.ActionType,
			&payloadJSON,
			&status,
			&action.ExecutedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		action.Status = model.ActionStatus(status)
		if payloadJSON.Valid && payloadJSON.String != "" && payloadJSON.String != "null" {
			if err := json.Unmarshal([]byte(payloadJSON.String), &action.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal action payload: %w", err)
			}
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate actions: %w", err)
	}
	return actions, nil
}
