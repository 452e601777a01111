package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/cashlane/advance-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveTransactions stores imported ledger records for a user. Re-imported
// transactions are ignored.
func (r *Repository) SaveTransactions(userID string, txs []models.RawTransaction) error {
	query := `
		INSERT INTO advance.transactions
			(user_id, transaction_id, date, type, amount_cents, balance_cents, nsf, description, category, merchant)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, transaction_id) DO NOTHING`
	for _, t := range txs {
		var amount, balance sql.NullInt64
		if t.AmountCents != nil {
			amount = sql.NullInt64{Int64: *t.AmountCents, Valid: true}
		}
		if t.BalanceCents != nil {
			balance = sql.NullInt64{Int64: *t.BalanceCents, Valid: true}
		}
		if _, err := r.db.Exec(query, userID, t.TransactionID, t.Date, t.Type,
			amount, balance, t.NSF, t.Description, t.Category, t.Merchant); err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", t.TransactionID, err)
		}
	}
	return nil
}

// GetUserTransactions retrieves the raw ledger for a user.
func (r *Repository) GetUserTransactions(userID string) ([]models.RawTransaction, error) {
	query := `
		SELECT transaction_id, date, type, amount_cents, balance_cents, nsf, description, category, merchant
		FROM advance.transactions
		WHERE user_id = $1
		ORDER BY date, id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.RawTransaction
	for rows.Next() {
		var t models.RawTransaction
		var amount, balance sql.NullInt64
		if err := rows.Scan(&t.TransactionID, &t.Date, &t.Type, &amount, &balance,
			&t.NSF, &t.Description, &t.Category, &t.Merchant); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if amount.Valid {
			v := amount.Int64
			t.AmountCents = &v
		}
		if balance.Valid {
			v := balance.Int64
			t.BalanceCents = &v
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// GetUserEvents retrieves product events (advance history) for a user.
func (r *Repository) GetUserEvents(userID string) ([]models.UserEvent, error) {
	query := `
		SELECT type, created_at
		FROM advance.user_events
		WHERE user_id = $1
		ORDER BY created_at`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user events: %w", err)
	}
	defer rows.Close()

	var events []models.UserEvent
	for rows.Next() {
		var e models.UserEvent
		if err := rows.Scan(&e.Type, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan user event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// RecordAdvanceTaken appends an advance_taken event so later cooldown checks
// see this advance.
func (r *Repository) RecordAdvanceTaken(userID string, at time.Time) error {
	query := `
		INSERT INTO advance.user_events (user_id, type, created_at)
		VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(query, userID, models.EventAdvanceTaken, at); err != nil {
		return fmt.Errorf("failed to record advance event: %w", err)
	}
	return nil
}

// FindUserByID retrieves notification contact data for a user.
func (r *Repository) FindUserByID(userID string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, created_at
		FROM advance.users
		WHERE id = $1`
	err := r.db.QueryRow(query, userID).
		Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateDecision stores a decision with its reason trail.
func (r *Repository) CreateDecision(d *models.Decision) error {
	query := `
		INSERT INTO advance.decisions
			(id, user_id, amount_requested_cents, approved, credit_limit_cents,
			 amount_granted_cents, score, tier, reasons, plan_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)`
	if _, err := r.db.Exec(query, d.ID, d.UserID, d.AmountRequestedCents, d.Approved,
		d.CreditLimitCents, d.AmountGrantedCents, d.Score, d.Tier,
		pq.Array(d.Reasons), d.PlanID, d.CreatedAt); err != nil {
		return fmt.Errorf("failed to create decision: %w", err)
	}
	return nil
}

// GetUserDecisions retrieves a user's decision history, newest first.
func (r *Repository) GetUserDecisions(userID string) ([]models.Decision, error) {
	query := `
		SELECT id, user_id, amount_requested_cents, approved, credit_limit_cents,
		       amount_granted_cents, score, tier, reasons, COALESCE(plan_id, ''), created_at
		FROM advance.decisions
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var decisions []models.Decision
	for rows.Next() {
		var d models.Decision
		if err := rows.Scan(&d.ID, &d.UserID, &d.AmountRequestedCents, &d.Approved,
			&d.CreditLimitCents, &d.AmountGrantedCents, &d.Score, &d.Tier,
			pq.Array(&d.Reasons), &d.PlanID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// CreatePlan stores a plan together with its installments atomically.
func (r *Repository) CreatePlan(p *models.Plan) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	planQuery := `
		INSERT INTO advance.plans (id, decision_id, user_id, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(planQuery, p.ID, p.DecisionID, p.UserID, p.TotalCents, p.CreatedAt); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	instQuery := `
		INSERT INTO advance.installments (id, plan_id, due_date, amount_cents, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, inst := range p.Installments {
		if _, err := tx.Exec(instQuery, inst.ID, inst.PlanID, inst.DueDate,
			inst.AmountCents, inst.Status, inst.CreatedAt); err != nil {
			return fmt.Errorf("failed to create installment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan with its installments.
func (r *Repository) GetPlan(planID string) (*models.Plan, error) {
	plan := &models.Plan{}
	query := `
		SELECT id, decision_id, user_id, total_cents, created_at
		FROM advance.plans
		WHERE id = $1`
	err := r.db.QueryRow(query, planID).
		Scan(&plan.ID, &plan.DecisionID, &plan.UserID, &plan.TotalCents, &plan.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	instQuery := `
		SELECT id, plan_id, due_date, amount_cents, status, created_at
		FROM advance.installments
		WHERE plan_id = $1
		ORDER BY due_date`
	rows, err := r.db.Query(instQuery, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var inst models.Installment
		if err := rows.Scan(&inst.ID, &inst.PlanID, &inst.DueDate,
			&inst.AmountCents, &inst.Status, &inst.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		plan.Installments = append(plan.Installments, inst)
	}
	return plan, rows.Err()
}

// OverdueInstallment pairs a newly overdue installment with the contact data
// needed to notify the user.
type OverdueInstallment struct {
	Installment models.Installment
	UserID      string
	Email       string
	Username    string
}

// MarkOverdueInstallments flips pending installments past their due date to
// overdue and returns them with user contact data.
func (r *Repository) MarkOverdueInstallments(now time.Time) ([]OverdueInstallment, error) {
	query := `
		UPDATE advance.installments i
		SET status = $1
		FROM advance.plans p
		JOIN advance.users u ON u.id = p.user_id
		WHERE i.plan_id = p.id
		  AND i.status = $2
		  AND i.due_date < $3
		RETURNING i.id, i.plan_id, i.due_date, i.amount_cents, i.status, i.created_at,
		          p.user_id, u.email, u.username`
	rows, err := r.db.Query(query, models.InstallmentOverdue, models.InstallmentPending, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark overdue installments: %w", err)
	}
	defer rows.Close()

	var overdue []OverdueInstallment
	for rows.Next() {
		var o OverdueInstallment
		if err := rows.Scan(&o.Installment.ID, &o.Installment.PlanID, &o.Installment.DueDate,
			&o.Installment.AmountCents, &o.Installment.Status, &o.Installment.CreatedAt,
			&o.UserID, &o.Email, &o.Username); err != nil {
			return nil, fmt.Errorf("failed to scan overdue installment: %w", err)
		}
		overdue = append(overdue, o)
	}
	return overdue, rows.Err()
}

// RecordWebhookAttempt logs one delivery attempt of a decision webhook.
func (r *Repository) RecordWebhookAttempt(decisionID, kind string, statusCode int, success bool) error {
	query := `
		INSERT INTO advance.webhook_attempts (decision_id, kind, status_code, success, attempted_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)`
	if _, err := r.db.Exec(query, decisionID, kind, statusCode, success); err != nil {
		return fmt.Errorf("failed to record webhook attempt: %w", err)
	}
	return nil
}
