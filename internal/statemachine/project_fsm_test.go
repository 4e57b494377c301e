package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadecampers/nomade-api/internal/models"
)

func TestProjectFSM_FullPipeline(t *testing.T) {
	ctx := context.Background()
	project := &models.Project{Phase: models.ProjectPhaseLead}

	steps := []struct {
		name     string
		run      func(*ProjectFSM) error
		expected string
	}{
		{"send_budget", func(m *ProjectFSM) error { return m.SendBudget(ctx) }, models.ProjectPhaseBudget},
		{"sign_contract", func(m *ProjectFSM) error { return m.SignContract(ctx) }, models.ProjectPhaseContract},
		{"start_production", func(m *ProjectFSM) error { return m.StartProduction(ctx) }, models.ProjectPhaseProduction},
		{"deliver", func(m *ProjectFSM) error { return m.Deliver(ctx) }, models.ProjectPhaseDelivery},
		{"close", func(m *ProjectFSM) error { return m.Close(ctx) }, models.ProjectPhaseClosed},
	}

	for _, step := range steps {
		machine := NewProjectFSM(project)
		require.NoError(t, step.run(machine), step.name)
		assert.Equal(t, step.expected, project.Phase, step.name)
	}
}

func TestProjectFSM_RejectsSkippedPhases(t *testing.T) {
	ctx := context.Background()

	project := &models.Project{Phase: models.ProjectPhaseLead}
	machine := NewProjectFSM(project)

	assert.Error(t, machine.SignContract(ctx))
	assert.Error(t, machine.Deliver(ctx))
	assert.Equal(t, models.ProjectPhaseLead, project.Phase)
}

func TestProjectFSM_CancelFromActivePhases(t *testing.T) {
	ctx := context.Background()

	for _, phase := range []string{
		models.ProjectPhaseLead,
		models.ProjectPhaseBudget,
		models.ProjectPhaseContract,
		models.ProjectPhaseProduction,
		models.ProjectPhaseDelivery,
	} {
		project := &models.Project{Phase: phase}
		machine := NewProjectFSM(project)
		require.NoError(t, machine.Cancel(ctx), phase)
		assert.Equal(t, models.ProjectPhaseCancelled, project.Phase)
	}
}

func TestProjectFSM_FinalPhasesAreTerminal(t *testing.T) {
	ctx := context.Background()

	for _, phase := range []string{models.ProjectPhaseClosed, models.ProjectPhaseCancelled} {
		project := &models.Project{Phase: phase}
		machine := NewProjectFSM(project)
		assert.Error(t, machine.Cancel(ctx), phase)
		assert.Error(t, machine.SendBudget(ctx), phase)
		assert.Equal(t, phase, project.Phase)
	}
}

func TestBudgetFSM_Lifecycle(t *testing.T) {
	ctx := context.Background()

	budget := &models.Budget{Status: models.BudgetStatusDraft}
	machine := NewBudgetFSM(budget)
	require.NoError(t, machine.Send(ctx))
	assert.Equal(t, models.BudgetStatusSent, budget.Status)

	// Accepting requires a fresh machine seeded with the persisted status
	machine = NewBudgetFSM(budget)
	require.NoError(t, machine.Accept(ctx))
	assert.Equal(t, models.BudgetStatusAccepted, budget.Status)

	// Accepted budgets cannot be sent again
	machine = NewBudgetFSM(budget)
	assert.Error(t, machine.Send(ctx))
}

func TestBudgetFSM_ReworkReturnsToDraft(t *testing.T) {
	ctx := context.Background()

	for _, status := range []string{models.BudgetStatusSent, models.BudgetStatusRejected} {
		budget := &models.Budget{Status: status}
		machine := NewBudgetFSM(budget)
		require.NoError(t, machine.Rework(ctx), status)
		assert.Equal(t, models.BudgetStatusDraft, budget.Status)
	}

	budget := &models.Budget{Status: models.BudgetStatusAccepted}
	machine := NewBudgetFSM(budget)
	assert.Error(t, machine.Rework(ctx))
}
