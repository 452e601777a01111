package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cashlane/advance-service/internal/integrations/ofx"
	"github.com/cashlane/advance-service/internal/integrations/webhook"
	"github.com/cashlane/advance-service/internal/metrics"
	"github.com/cashlane/advance-service/internal/models"
	"github.com/cashlane/advance-service/internal/repository"
	"github.com/cashlane/advance-service/internal/risk"
	"github.com/cashlane/advance-service/internal/utils/email"
)

// Pay-in-4: a granted advance is split into 4 weekly installments.
const (
	installmentCount    = 4
	installmentInterval = 7 * 24 * time.Hour
)

// Service handles business logic
type Service struct {
	repo     *repository.Repository
	engine   *risk.Engine
	parser   *ofx.Parser
	webhook  *webhook.Client
	notifier *email.Sender
	metrics  *metrics.Recorder
	log      *logrus.Logger
}

// NewService initializes a new service
func NewService(
	repo *repository.Repository,
	engine *risk.Engine,
	parser *ofx.Parser,
	wh *webhook.Client,
	notifier *email.Sender,
	rec *metrics.Recorder,
	log *logrus.Logger,
) *Service {
	return &Service{
		repo:     repo,
		engine:   engine,
		parser:   parser,
		webhook:  wh,
		notifier: notifier,
		metrics:  rec,
		log:      log,
	}
}

// RequestAdvance runs the full advance flow: fetch the ledger and event
// history, ask the engine for a decision, generate a repayment plan for the
// granted amount, persist everything and fire notifications. Notification
// failures are logged, never surfaced; the decision stands on its own.
func (s *Service) RequestAdvance(userID string, amountRequestedCents int64) (*models.Decision, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if amountRequestedCents <= 0 {
		return nil, fmt.Errorf("amount_requested_cents must be positive")
	}

	txs, err := s.repo.GetUserTransactions(userID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.GetUserEvents(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	score, err := s.engine.Decide(txs, amountRequestedCents, events, now)
	if err != nil {
		return nil, err
	}

	decision := &models.Decision{
		ID:                   uuid.NewString(),
		UserID:               userID,
		AmountRequestedCents: amountRequestedCents,
		Approved:             score.Approved,
		CreditLimitCents:     score.LimitCents,
		AmountGrantedCents:   score.AmountGrantedCents,
		Score:                score.FinalScore,
		Tier:                 score.Tier,
		Reasons:              score.Reasons,
		CreatedAt:            now,
	}

	var plan *models.Plan
	if decision.Approved && decision.AmountGrantedCents > 0 {
		plan = buildPlan(decision, now)
		decision.PlanID = plan.ID
	}

	if err := s.repo.CreateDecision(decision); err != nil {
		return nil, err
	}
	if plan != nil {
		if err := s.repo.CreatePlan(plan); err != nil {
			return nil, err
		}
		// The engine only reads advance history; recording the new advance
		// for future cooldown checks happens here.
		if err := s.repo.RecordAdvanceTaken(userID, now); err != nil {
			return nil, err
		}
	}

	s.metrics.ObserveDecision(decision.Tier, decision.Score)
	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"decision": decision.ID,
		"tier":     decision.Tier,
		"granted":  decision.AmountGrantedCents,
	}).Info("Advance decision made")

	s.notify(decision)
	return decision, nil
}

// buildPlan splits the granted amount into equal weekly installments, with
// the rounding remainder on the first one.
func buildPlan(d *models.Decision, now time.Time) *models.Plan {
	plan := &models.Plan{
		ID:         uuid.NewString(),
		DecisionID: d.ID,
		UserID:     d.UserID,
		TotalCents: d.AmountGrantedCents,
		CreatedAt:  now,
	}

	base := d.AmountGrantedCents / installmentCount
	remainder := d.AmountGrantedCents - base*installmentCount
	for i := 0; i < installmentCount; i++ {
		amount := base
		if i == 0 {
			amount += remainder
		}
		plan.Installments = append(plan.Installments, models.Installment{
			ID:          uuid.NewString(),
			PlanID:      plan.ID,
			DueDate:     now.Add(time.Duration(i+1) * installmentInterval),
			AmountCents: amount,
			Status:      models.InstallmentPending,
			CreatedAt:   now,
		})
	}
	return plan
}

// notify delivers the decision webhook and email, best-effort.
func (s *Service) notify(d *models.Decision) {
	if s.webhook.Enabled() {
		attempts, err := s.webhook.NotifyDecision(d)
		for _, a := range attempts {
			s.metrics.ObserveWebhookAttempt(a.Success)
			if recErr := s.repo.RecordWebhookAttempt(d.ID, "decision", a.StatusCode, a.Success); recErr != nil {
				s.log.Warnf("Failed to record webhook attempt: %v", recErr)
			}
		}
		if err != nil {
			s.log.Errorf("Webhook delivery for decision %s failed: %v", d.ID, err)
		}
	}

	user, err := s.repo.FindUserByID(d.UserID)
	if err != nil {
		s.log.Warnf("No contact data for user %s: %v", d.UserID, err)
		return
	}
	if err := s.notifier.SendDecisionNotification(user.Email, user.Username, d); err != nil {
		s.log.Errorf("Decision email for user %s failed: %v", d.UserID, err)
	}
}

// DecisionHistory returns a user's past decisions, newest first.
func (s *Service) DecisionHistory(userID string) ([]models.Decision, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	return s.repo.GetUserDecisions(userID)
}

// GetPlan returns a plan with its installments.
func (s *Service) GetPlan(planID string) (*models.Plan, error) {
	if planID == "" {
		return nil, fmt.Errorf("plan_id is required")
	}
	return s.repo.GetPlan(planID)
}

// ImportStatement parses an OFX statement and stores its transactions for
// the user. Returns the number of imported records.
func (s *Service) ImportStatement(userID string, body []byte) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id is required")
	}
	txs, err := s.parser.ParseStatement(body)
	if err != nil {
		return 0, err
	}
	if err := s.repo.SaveTransactions(userID, txs); err != nil {
		return 0, err
	}
	return len(txs), nil
}

// SweepOverdueInstallments marks pending installments past due as overdue
// and emails each affected user. Run from the nightly cron job.
func (s *Service) SweepOverdueInstallments(now time.Time) (int, error) {
	overdue, err := s.repo.MarkOverdueInstallments(now)
	if err != nil {
		return 0, err
	}
	for _, o := range overdue {
		if err := s.notifier.SendOverdueNotice(o.Email, o.Username, o.Installment); err != nil {
			s.log.Errorf("Overdue notice for user %s failed: %v", o.UserID, err)
		}
	}
	if len(overdue) > 0 {
		s.log.Infof("Marked %d installments overdue", len(overdue))
	}
	return len(overdue), nil
}
