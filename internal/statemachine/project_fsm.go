package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/nomadecampers/nomade-api/internal/models"
)

// ProjectFSM wraps a project with its phase state machine
type ProjectFSM struct {
	project *models.Project
	fsm     *fsm.FSM
}

// NewProjectFSM creates a new project phase state machine
func NewProjectFSM(project *models.Project) *ProjectFSM {
	pfsm := &ProjectFSM{
		project: project,
	}

	pfsm.fsm = fsm.NewFSM(
		project.Phase,
		fsm.Events{
			// lead → presupuesto
			{Name: "send_budget", Src: []string{models.ProjectPhaseLead}, Dst: models.ProjectPhaseBudget},

			// presupuesto → contrato
			{Name: "sign_contract", Src: []string{models.ProjectPhaseBudget}, Dst: models.ProjectPhaseContract},

			// contrato → produccion
			{Name: "start_production", Src: []string{models.ProjectPhaseContract}, Dst: models.ProjectPhaseProduction},

			// produccion → entrega
			{Name: "deliver", Src: []string{models.ProjectPhaseProduction}, Dst: models.ProjectPhaseDelivery},

			// entrega → cerrado
			{Name: "close", Src: []string{models.ProjectPhaseDelivery}, Dst: models.ProjectPhaseClosed},

			// any non-final phase → cancelado
			{Name: "cancel", Src: []string{
				models.ProjectPhaseLead,
				models.ProjectPhaseBudget,
				models.ProjectPhaseContract,
				models.ProjectPhaseProduction,
				models.ProjectPhaseDelivery,
			}, Dst: models.ProjectPhaseCancelled},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// SendBudget moves the project into the budget phase
func (p *ProjectFSM) SendBudget(ctx context.Context) error {
	if !p.project.MaySendBudget() {
		return fmt.Errorf("project cannot move to budget phase from: %s", p.project.Phase)
	}

	if err := p.fsm.Event(ctx, "send_budget"); err != nil {
		return fmt.Errorf("failed to move project to budget phase: %w", err)
	}

	p.project.Phase = p.fsm.Current()
	return nil
}

// SignContract moves the project into the contract phase
func (p *ProjectFSM) SignContract(ctx context.Context) error {
	if !p.project.MaySignContract() {
		return fmt.Errorf("project cannot move to contract phase from: %s", p.project.Phase)
	}

	if err := p.fsm.Event(ctx, "sign_contract"); err != nil {
		return fmt.Errorf("failed to move project to contract phase: %w", err)
	}

	p.project.Phase = p.fsm.Current()
	return nil
}

// StartProduction moves the project into the production phase
func (p *ProjectFSM) StartProduction(ctx context.Context) error {
	if !p.project.MayStartProduction() {
		return fmt.Errorf("project cannot start production from: %s", p.project.Phase)
	}

	if err := p.fsm.Event(ctx, "start_production"); err != nil {
		return fmt.Errorf("failed to start production: %w", err)
	}

	p.project.Phase = p.fsm.Current()
	return nil
}

// Deliver moves the project into the delivery phase
func (p *ProjectFSM) Deliver(ctx context.Context) error {
	if !p.project.MayDeliver() {
		return fmt.Errorf("project cannot be delivered from: %s", p.project.Phase)
	}

	if err := p.fsm.Event(ctx, "deliver"); err != nil {
		return fmt.Errorf("failed to deliver project: %w", err)
	}

	p.project.Phase = p.fsm.Current()
	return nil
}

// Close closes a delivered project
func (p *ProjectFSM) Close(ctx context.Context) error {
	if !p.project.MayClose() {
		return fmt.Errorf("project cannot be closed from: %s", p.project.Phase)
	}

	if err := p.fsm.Event(ctx, "close"); err != nil {
		return fmt.Errorf("failed to close project: %w", err)
	}

	p.project.Phase = p.fsm.Current()
	return nil
}

// Cancel cancels the project from any non-final phase
func (p *ProjectFSM) Cancel(ctx context.Context) error {
	if !p.project.MayCancel() {
		return fmt.Errorf("project cannot be cancelled from: %s", p.project.Phase)
	}

	if err := p.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel project: %w", err)
	}

	p.project.Phase = p.fsm.Current()
	return nil
}

// Current returns the current phase
func (p *ProjectFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *ProjectFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
