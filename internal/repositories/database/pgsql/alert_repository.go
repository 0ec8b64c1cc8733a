package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/inventory_management_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const alertRuleColumns = `rule_id, name, description, alert_type, severity, is_active,
	conditions, stock_categories, specific_skus, applies_to_all_stocks,
	max_alerts_per_hour, cooldown_minutes, last_triggered,
	created_at, created_by, last_updated_at, last_updated_by`

const alertColumns = `alert_id, rule_id, stock_sku, alert_type, severity, title, message,
	is_acknowledged, is_resolved, acknowledged_by, resolved_by, acknowledged_at, resolved_at,
	snapshot_current, snapshot_reserved, snapshot_available, created_at`

type PgxAlertRepository struct {
	BaseRepository
}

// newPgxAlertRepository creates a new repository for alert rules and alerts.
func newPgxAlertRepository(pool *pgxpool.Pool) portsrepo.AlertRepositoryFacade {
	return &PgxAlertRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAlertRepository implements portsrepo.AlertRepositoryFacade
var _ portsrepo.AlertRepositoryFacade = (*PgxAlertRepository)(nil)

// Helper to convert domain.AlertRule to models.AlertRule for DB storage.
// Conditions and scoping lists serialize to jsonb.
func toModelAlertRule(d domain.AlertRule) (models.AlertRule, error) {
	conditions, err := json.Marshal(d.Conditions)
	if err != nil {
		return models.AlertRule{}, fmt.Errorf("failed to marshal rule conditions: %w", err)
	}
	categories, err := json.Marshal(d.StockCategories)
	if err != nil {
		return models.AlertRule{}, fmt.Errorf("failed to marshal rule categories: %w", err)
	}
	skus, err := json.Marshal(d.SpecificSKUs)
	if err != nil {
		return models.AlertRule{}, fmt.Errorf("failed to marshal rule SKUs: %w", err)
	}
	return models.AlertRule{
		RuleID:             d.RuleID,
		Name:               d.Name,
		Description:        d.Description,
		AlertType:          string(d.AlertType),
		Severity:           string(d.Severity),
		IsActive:           d.IsActive,
		Conditions:         conditions,
		StockCategories:    categories,
		SpecificSKUs:       skus,
		AppliesToAllStocks: d.AppliesToAllStocks,
		MaxAlertsPerHour:   d.MaxAlertsPerHour,
		CooldownMinutes:    d.CooldownMinutes,
		LastTriggered:      nullTime(d.LastTriggered),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}, nil
}

// Helper to convert models.AlertRule from DB to domain.AlertRule
func toDomainAlertRule(m models.AlertRule) (domain.AlertRule, error) {
	d := domain.AlertRule{
		RuleID:             m.RuleID,
		Name:               m.Name,
		Description:        m.Description,
		AlertType:          domain.AlertType(m.AlertType),
		Severity:           domain.AlertSeverity(m.Severity),
		IsActive:           m.IsActive,
		AppliesToAllStocks: m.AppliesToAllStocks,
		MaxAlertsPerHour:   m.MaxAlertsPerHour,
		CooldownMinutes:    m.CooldownMinutes,
		LastTriggered:      timePtr(m.LastTriggered),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if len(m.Conditions) > 0 {
		if err := json.Unmarshal(m.Conditions, &d.Conditions); err != nil {
			return domain.AlertRule{}, fmt.Errorf("failed to unmarshal rule conditions: %w", err)
		}
	}
	if len(m.StockCategories) > 0 {
		if err := json.Unmarshal(m.StockCategories, &d.StockCategories); err != nil {
			return domain.AlertRule{}, fmt.Errorf("failed to unmarshal rule categories: %w", err)
		}
	}
	if len(m.SpecificSKUs) > 0 {
		if err := json.Unmarshal(m.SpecificSKUs, &d.SpecificSKUs); err != nil {
			return domain.AlertRule{}, fmt.Errorf("failed to unmarshal rule SKUs: %w", err)
		}
	}
	return d, nil
}

// Helper to convert models.Alert from DB to domain.Alert
func toDomainAlert(m models.Alert) domain.Alert {
	return domain.Alert{
		AlertID:           m.AlertID,
		RuleID:            m.RuleID,
		StockSKU:          m.StockSKU,
		Type:              domain.AlertType(m.Type),
		Severity:          domain.AlertSeverity(m.Severity),
		Title:             m.Title,
		Message:           m.Message,
		IsAcknowledged:    m.IsAcknowledged,
		IsResolved:        m.IsResolved,
		AcknowledgedBy:    m.AcknowledgedBy.String,
		ResolvedBy:        m.ResolvedBy.String,
		AcknowledgedAt:    timePtr(m.AcknowledgedAt),
		ResolvedAt:        timePtr(m.ResolvedAt),
		SnapshotCurrent:   m.SnapshotCurrent,
		SnapshotReserved:  m.SnapshotReserved,
		SnapshotAvailable: m.SnapshotAvailable,
		CreatedAt:         m.CreatedAt,
	}
}

func scanAlertRuleRow(row pgx.Row) (models.AlertRule, error) {
	var m models.AlertRule
	err := row.Scan(
		&m.RuleID,
		&m.Name,
		&m.Description,
		&m.AlertType,
		&m.Severity,
		&m.IsActive,
		&m.Conditions,
		&m.StockCategories,
		&m.SpecificSKUs,
		&m.AppliesToAllStocks,
		&m.MaxAlertsPerHour,
		&m.CooldownMinutes,
		&m.LastTriggered,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanAlertRow(row pgx.Row) (models.Alert, error) {
	var m models.Alert
	err := row.Scan(
		&m.AlertID,
		&m.RuleID,
		&m.StockSKU,
		&m.Type,
		&m.Severity,
		&m.Title,
		&m.Message,
		&m.IsAcknowledged,
		&m.IsResolved,
		&m.AcknowledgedBy,
		&m.ResolvedBy,
		&m.AcknowledgedAt,
		&m.ResolvedAt,
		&m.SnapshotCurrent,
		&m.SnapshotReserved,
		&m.SnapshotAvailable,
		&m.CreatedAt,
	)
	return m, err
}

// SaveRule persists a new alert rule.
func (r *PgxAlertRepository) SaveRule(ctx context.Context, rule domain.AlertRule) error {
	m, err := toModelAlertRule(rule)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO alert_rules (rule_id, name, description, alert_type, severity, is_active,
			conditions, stock_categories, specific_skus, applies_to_all_stocks,
			max_alerts_per_hour, cooldown_minutes, last_triggered,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.RuleID, m.Name, m.Description, m.AlertType, m.Severity, m.IsActive,
		m.Conditions, m.StockCategories, m.SpecificSKUs, m.AppliesToAllStocks,
		m.MaxAlertsPerHour, m.CooldownMinutes, m.LastTriggered,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: alert rule %s already exists", apperrors.ErrDuplicate, m.RuleID)
		}
		return fmt.Errorf("failed to save alert rule %s: %w", m.RuleID, err)
	}
	return nil
}

// UpdateRule updates an existing rule's configuration.
func (r *PgxAlertRepository) UpdateRule(ctx context.Context, rule domain.AlertRule) error {
	m, err := toModelAlertRule(rule)
	if err != nil {
		return err
	}

	query := `
		UPDATE alert_rules
		SET name = $2, description = $3, severity = $4, is_active = $5,
			conditions = $6, max_alerts_per_hour = $7, cooldown_minutes = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE rule_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.RuleID, m.Name, m.Description, m.Severity, m.IsActive,
		m.Conditions, m.MaxAlertsPerHour, m.CooldownMinutes,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update alert rule %s: %w", m.RuleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindRuleByID retrieves a rule by id.
func (r *PgxAlertRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.AlertRule, error) {
	query := `SELECT ` + alertRuleColumns + ` FROM alert_rules WHERE rule_id = $1;`

	m, err := scanAlertRuleRow(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find alert rule %s: %w", ruleID, err)
	}

	d, err := toDomainAlertRule(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxAlertRepository) listRules(ctx context.Context, activeOnly bool) ([]domain.AlertRule, error) {
	query := `SELECT ` + alertRuleColumns + ` FROM alert_rules`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.AlertRule{}
	for rows.Next() {
		m, err := scanAlertRuleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert rule row: %w", err)
		}
		d, err := toDomainAlertRule(m)
		if err != nil {
			return nil, err
		}
		rules = append(rules, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating alert rule rows: %w", rows.Err())
	}
	return rules, nil
}

// ListRules retrieves all rules, active and inactive.
func (r *PgxAlertRepository) ListRules(ctx context.Context) ([]domain.AlertRule, error) {
	return r.listRules(ctx, false)
}

// ListActiveRules retrieves all active rules.
func (r *PgxAlertRepository) ListActiveRules(ctx context.Context) ([]domain.AlertRule, error) {
	return r.listRules(ctx, true)
}

// TouchRuleTriggered records that a rule fired at the given time.
func (r *PgxAlertRepository) TouchRuleTriggered(ctx context.Context, ruleID string, triggeredAt time.Time) error {
	query := `UPDATE alert_rules SET last_triggered = $2 WHERE rule_id = $1;`

	cmdTag, err := r.Pool.Exec(ctx, query, ruleID, triggeredAt)
	if err != nil {
		return fmt.Errorf("failed to touch alert rule %s: %w", ruleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveAlert persists a new alert event.
func (r *PgxAlertRepository) SaveAlert(ctx context.Context, alert domain.Alert) error {
	query := `
		INSERT INTO alerts (alert_id, rule_id, stock_sku, alert_type, severity, title, message,
			is_acknowledged, is_resolved,
			snapshot_current, snapshot_reserved, snapshot_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		alert.AlertID, alert.RuleID, alert.StockSKU, string(alert.Type), string(alert.Severity),
		alert.Title, alert.Message,
		alert.IsAcknowledged, alert.IsResolved,
		alert.SnapshotCurrent, alert.SnapshotReserved, alert.SnapshotAvailable, alert.CreatedAt,
	)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: alert %s already exists", apperrors.ErrDuplicate, alert.AlertID)
		}
		return fmt.Errorf("failed to save alert %s: %w", alert.AlertID, err)
	}
	return nil
}

// FindAlertByID retrieves an alert by id.
func (r *PgxAlertRepository) FindAlertByID(ctx context.Context, alertID string) (*domain.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE alert_id = $1;`

	m, err := scanAlertRow(r.Pool.QueryRow(ctx, query, alertID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find alert %s: %w", alertID, err)
	}

	d := toDomainAlert(m)
	return &d, nil
}

// ListAlerts retrieves a paginated list, unresolved first, newest first.
func (r *PgxAlertRepository) ListAlerts(ctx context.Context, includeResolved bool, limit int, offset int) ([]domain.Alert, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := ``
	if !includeResolved {
		where = ` WHERE is_resolved = FALSE`
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM alerts`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	query := `SELECT ` + alertColumns + ` FROM alerts` + where +
		` ORDER BY is_resolved, created_at DESC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []domain.Alert{}
	for rows.Next() {
		m, err := scanAlertRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, toDomainAlert(m))
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating alert rows: %w", rows.Err())
	}

	return alerts, total, nil
}

// CountRecentAlerts counts alerts created for a (rule, sku) pair since the given time.
func (r *PgxAlertRepository) CountRecentAlerts(ctx context.Context, ruleID string, sku string, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM alerts WHERE rule_id = $1 AND stock_sku = $2 AND created_at >= $3;`

	var count int64
	if err := r.Pool.QueryRow(ctx, query, ruleID, sku, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recent alerts for rule %s: %w", ruleID, err)
	}
	return count, nil
}

// FindLastAlertTime returns when the (rule, sku) pair last fired, or nil.
func (r *PgxAlertRepository) FindLastAlertTime(ctx context.Context, ruleID string, sku string) (*time.Time, error) {
	query := `SELECT MAX(created_at) FROM alerts WHERE rule_id = $1 AND stock_sku = $2;`

	var last *time.Time
	if err := r.Pool.QueryRow(ctx, query, ruleID, sku).Scan(&last); err != nil {
		return nil, fmt.Errorf("failed to find last alert time for rule %s: %w", ruleID, err)
	}
	return last, nil
}

// SetAcknowledged marks an alert acknowledged by a user.
func (r *PgxAlertRepository) SetAcknowledged(ctx context.Context, alertID string, userID string, at time.Time) error {
	query := `
		UPDATE alerts
		SET is_acknowledged = TRUE, acknowledged_by = $2, acknowledged_at = $3
		WHERE alert_id = $1 AND is_acknowledged = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, alertID, userID, at)
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert %s: %w", alertID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindAlertByID(ctx, alertID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		// Exists but was already acknowledged.
		return apperrors.ErrValidation
	}
	return nil
}

// SetResolved marks an alert resolved by a user.
func (r *PgxAlertRepository) SetResolved(ctx context.Context, alertID string, userID string, at time.Time, notes string) error {
	query := `
		UPDATE alerts
		SET is_resolved = TRUE, resolved_by = $2, resolved_at = $3,
			message = CASE WHEN $4::text = '' THEN message ELSE message || E'\n' || $4::text END
		WHERE alert_id = $1 AND is_resolved = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, alertID, userID, at, notes)
	if err != nil {
		return fmt.Errorf("failed to resolve alert %s: %w", alertID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindAlertByID(ctx, alertID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return findErr
		}
		// Exists but was already resolved.
		return apperrors.ErrValidation
	}
	return nil
}
