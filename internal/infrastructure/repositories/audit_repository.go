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

	"github.com/avatarctic/recipe-submissions/internal/core/domain/audit"
	"github.com/avatarctic/recipe-submissions/internal/core/ports"
	"github.com/avatarctic/recipe-submissions/internal/infrastructure/db"
)

type auditRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewAuditRepository creates a repository over the auth_events table
func NewAuditRepository(database *db.Database, logger *logrus.Logger) ports.AuditRepository {
	return &auditRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new auth event
func (r *auditRepository) Create(ctx context.Context, ev *audit.AuthEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	var detailsJSON []byte
	var err error
	if ev.Details != nil {
		detailsJSON, err = json.Marshal(ev.Details)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO auth_events (
			id, contributor_id, email, action, details, ip_address, user_agent, timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	_, err = r.db.DB.ExecContext(ctx, query,
		ev.ID,
		ev.ContributorID,
		ev.Email,
		ev.Action,
		detailsJSON,
		ev.IPAddress,
		ev.UserAgent,
		ev.Timestamp,
	)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": ev.Email, "action": ev.Action}).WithError(err).Error("db: failed to insert auth event")
		}
		return err
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"email": ev.Email, "action": ev.Action, "contributor_id": ev.ContributorID}).Debug("db: auth event inserted")
	}
	return nil
}

// List retrieves auth events newest first
func (r *auditRepository) List(ctx context.Context, filter *audit.AuthEventFilter) ([]*audit.AuthEvent, error) {
	query, args := r.buildListQuery(filter, false)
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"query": query, "args": args}).Debug("db: executing auth event list query")
	}
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute auth event list query")
		}
		return nil, err
	}
	defer rows.Close()

	events := []*audit.AuthEvent{}
	for rows.Next() {
		ev := &audit.AuthEvent{}
		var detailsJSON sql.NullString

		if err := rows.Scan(
			&ev.ID,
			&ev.ContributorID,
			&ev.Email,
			&ev.Action,
			&detailsJSON,
			&ev.IPAddress,
			&ev.UserAgent,
			&ev.Timestamp,
		); err != nil {
			return nil, err
		}

		if detailsJSON.Valid && detailsJSON.String != "" {
			var details any
			if err := json.Unmarshal([]byte(detailsJSON.String), &details); err == nil {
				ev.Details = details
			}
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: error iterating auth event rows")
		}
		return nil, err
	}
	return events, nil
}

// Count returns the number of auth events matching the filter
func (r *auditRepository) Count(ctx context.Context, filter *audit.AuthEventFilter) (int, error) {
	query, args := r.buildListQuery(filter, true)

	var count int
	if err := r.db.DB.GetContext(ctx, &count, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute auth event count query")
		}
		return 0, err
	}
	return count, nil
}

// buildListQuery constructs the SQL and positional args for listing or counting events
func (r *auditRepository) buildListQuery(filter *audit.AuthEventFilter, isCount bool) (string, []any) {
	selectClause := `SELECT id, contributor_id, email, action, details, ip_address, user_agent, timestamp`
	if isCount {
		selectClause = "SELECT COUNT(*)"
	}

	query := selectClause + " FROM auth_events"
	var conditions []string
	var args []any
	argIndex := 1

	add := func(cond string, v any) {
		conditions = append(conditions, cond+" $"+strconv.Itoa(argIndex))
		args = append(args, v)
		argIndex++
	}

	if filter != nil {
		if filter.ContributorID != nil {
			add("contributor_id =", *filter.ContributorID)
		}
		if filter.Email != nil {
			add("email =", *filter.Email)
		}
		if filter.Action != nil {
			add("action =", string(*filter.Action))
		}
		if filter.StartTime != nil {
			add("timestamp >=", *filter.StartTime)
		}
		if filter.EndTime != nil {
			add("timestamp <=", *filter.EndTime)
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	if !isCount {
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
	}
	return query, args
}
