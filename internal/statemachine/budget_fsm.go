package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/nomadecampers/nomade-api/internal/models"
)

// BudgetFSM wraps a budget with its state machine
type BudgetFSM struct {
	budget *models.Budget
	fsm    *fsm.FSM
}

// NewBudgetFSM creates a new budget state machine
func NewBudgetFSM(budget *models.Budget) *BudgetFSM {
	bfsm := &BudgetFSM{
		budget: budget,
	}

	bfsm.fsm = fsm.NewFSM(
		budget.Status,
		fsm.Events{
			// draft → sent
			{Name: "send", Src: []string{models.BudgetStatusDraft}, Dst: models.BudgetStatusSent},

			// sent → accepted
			{Name: "accept", Src: []string{models.BudgetStatusSent}, Dst: models.BudgetStatusAccepted},

			// sent → rejected
			{Name: "reject", Src: []string{models.BudgetStatusSent}, Dst: models.BudgetStatusRejected},

			// sent/rejected → draft (rework)
			{Name: "rework", Src: []string{models.BudgetStatusSent, models.BudgetStatusRejected}, Dst: models.BudgetStatusDraft},
		},
		fsm.Callbacks{},
	)

	return bfsm
}

// Send transitions budget to sent state
func (b *BudgetFSM) Send(ctx context.Context) error {
	if !b.budget.MaySend() {
		return fmt.Errorf("budget cannot be sent in current state: %s", b.budget.Status)
	}

	if err := b.fsm.Event(ctx, "send"); err != nil {
		return fmt.Errorf("failed to send budget: %w", err)
	}

	b.budget.Status = b.fsm.Current()
	return nil
}

// Accept transitions budget to accepted state
func (b *BudgetFSM) Accept(ctx context.Context) error {
	if !b.budget.MayAccept() {
		return fmt.Errorf("budget cannot be accepted in current state: %s", b.budget.Status)
	}

	if err := b.fsm.Event(ctx, "accept"); err != nil {
		return fmt.Errorf("failed to accept budget: %w", err)
	}

	b.budget.Status = b.fsm.Current()
	return nil
}

// Reject transitions budget to rejected state
func (b *BudgetFSM) Reject(ctx context.Context) error {
	if !b.budget.MayReject() {
		return fmt.Errorf("budget cannot be rejected in current state: %s", b.budget.Status)
	}

	if err := b.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject budget: %w", err)
	}

	b.budget.Status = b.fsm.Current()
	return nil
}

// Rework returns a sent or rejected budget to draft for edits
func (b *BudgetFSM) Rework(ctx context.Context) error {
	if err := b.fsm.Event(ctx, "rework"); err != nil {
		return fmt.Errorf("failed to rework budget: %w", err)
	}

	b.budget.Status = b.fsm.Current()
	return nil
}

// Current returns the current state
func (b *BudgetFSM) Current() string {
	return b.fsm.Current()
}

// Can checks if a transition is possible
func (b *BudgetFSM) Can(event string) bool {
	return b.fsm.Can(event)
}
