package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marketbay/storefront-api/internal/core/domain/audit"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/db"
)

type auditRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewAuditRepository creates a new instance of AuditRepository
func NewAuditRepository(database *db.Database, logger *logrus.Logger) ports.AuditRepository {
	return &auditRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new audit log entry into the database
func (r *auditRepository) Create(ctx context.Context, log *audit.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}

	var detailsJSON []byte
	var err error
	if log.Details != nil {
		detailsJSON, err = json.Marshal(log.Details)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_logs (
			id, account_id, action, resource, resource_id,
			details, ip_address, user_agent, timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	_, err = r.db.DB.ExecContext(ctx, query,
		log.ID,
		log.AccountID,
		log.Action,
		log.Resource,
		log.ResourceID,
		detailsJSON,
		log.IPAddress,
		log.UserAgent,
		log.Timestamp,
	)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"account_id": log.AccountID, "action": log.Action}).WithError(err).Error("db: failed to insert audit log")
		}
		return err
	}

	return nil
}

// List retrieves audit logs based on the provided filter
func (r *auditRepository) List(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error) {
	query, args := r.buildListQuery(filter)
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute audit list query")
		}
		return nil, err
	}
	defer rows.Close()

	var logs []*audit.AuditLog
	for rows.Next() {
		log := &audit.AuditLog{}
		var detailsJSON sql.NullString

		err := rows.Scan(
			&log.ID,
			&log.AccountID,
			&log.Action,
			&log.Resource,
			&log.ResourceID,
			&detailsJSON,
			&log.IPAddress,
			&log.UserAgent,
			&log.Timestamp,
		)
		if err != nil {
			return nil, err
		}

		if detailsJSON.Valid && detailsJSON.String != "" {
			var details interface{}
			if err := json.Unmarshal([]byte(detailsJSON.String), &details); err == nil {
				log.Details = details
			}
		}

		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: error iterating audit list rows")
		}
		return nil, err
	}

	return logs, nil
}

// buildListQuery constructs the SQL query and arguments for listing audit logs
func (r *auditRepository) buildListQuery(filter *audit.AuditLogFilter) (string, []interface{}) {
	query := `SELECT
		id, account_id, action, resource, resource_id,
		details, ip_address, user_agent, timestamp FROM audit_logs`

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter != nil {
		if filter.AccountID != nil {
			conditions = append(conditions, "account_id = $"+strconv.Itoa(argIndex))
			args = append(args, *filter.AccountID)
			argIndex++
		}

		if filter.Action != nil {
			conditions = append(conditions, "action = $"+strconv.Itoa(argIndex))
			args = append(args, string(*filter.Action))
			argIndex++
		}

		if filter.From != nil {
			conditions = append(conditions, "timestamp >= $"+strconv.Itoa(argIndex))
			args = append(args, *filter.From)
			argIndex++
		}

		if filter.To != nil {
			conditions = append(conditions, "timestamp <= $"+strconv.Itoa(argIndex))
			args = append(args, *filter.To)
			argIndex++
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY timestamp DESC"

	if filter != nil {
		if filter.Limit > 0 {
			query += " LIMIT $" + strconv.Itoa(argIndex)
			args = append(args, filter.Limit)
			argIndex++
		}

		if filter.Offset > 0 {
			query += " OFFSET $" + strconv.Itoa(argIndex)
			args = append(args, filter.Offset)
		}
	}

	return query, args
}
