package services

import (
	"fmt"

	"github.com/adyen/shopflow/internal/models"
)

// DefaultRecentLimit is used when Recent is called with a non-positive limit
const DefaultRecentLimit = 20

// RunRepository defines the interface for flow run persistence
type RunRepository interface {
	CreateRun(run *models.FlowRun) error
	GetRunByReference(reference string) (*models.FlowRun, error)
	FinishRun(run *models.FlowRun) error
	ListRecent(limit int) ([]*models.FlowRun, error)
}

// RunService records flow runs in the journal
type RunService interface {
	Start(flow, browser string) (*models.FlowRun, error)
	Finish(reference string, status models.RunStatus, failures []string) (*models.FlowRun, error)
	Recent(limit int) ([]*models.FlowRun, error)
}

// RunServiceImpl implements RunService
type RunServiceImpl struct {
	runRepo RunRepository
}

// NewRunService creates a new run service
func NewRunService(runRepo RunRepository) RunService {
	return &RunServiceImpl{
		runRepo: runRepo,
	}
}

// Start records a new running flow run
func (s *RunServiceImpl) Start(flow, browser string) (*models.FlowRun, error) {
	run, err := models.NewFlowRun(flow, browser)
	if err != nil {
		return nil, fmt.Errorf("invalid run: %w", err)
	}

	if err := s.runRepo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return run, nil
}

// Finish moves a running flow run to its final status
func (s *RunServiceImpl) Finish(reference string, status models.RunStatus, failures []string) (*models.FlowRun, error) {
	run, err := s.runRepo.GetRunByReference(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	// Use domain methods to transition state
	if err := run.Finish(status, failures); err != nil {
		return nil, err
	}

	if err := s.runRepo.FinishRun(run); err != nil {
		return nil, fmt.Errorf("failed to finish run: %w", err)
	}

	return run, nil
}

// Recent returns the latest runs, newest first
func (s *RunServiceImpl) Recent(limit int) ([]*models.FlowRun, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	runs, err := s.runRepo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
