package harness

import (
	"github.com/adyen/shopflow/internal/models"
	"github.com/adyen/shopflow/internal/services"
)

// Recorder receives the start and outcome of every test
type Recorder interface {
	Started(flow, browser string) (reference string, err error)
	Finished(reference string, status Status, failures []string) error
}

// NopRecorder discards everything
type NopRecorder struct{}

// Started implements Recorder
func (NopRecorder) Started(flow, browser string) (string, error) { return "", nil }

// Finished implements Recorder
func (NopRecorder) Finished(string, Status, []string) error { return nil }

// JournalRecorder writes outcomes to the run journal
type JournalRecorder struct {
	runs services.RunService
}

// NewJournalRecorder creates a recorder over runs
func NewJournalRecorder(runs services.RunService) *JournalRecorder {
	return &JournalRecorder{runs: runs}
}

// Started implements Recorder
func (r *JournalRecorder) Started(flow, browser string) (string, error) {
	run, err := r.runs.Start(flow, browser)
	if err != nil {
		return "", err
	}
	return run.Reference, nil
}

// Finished implements Recorder
func (r *JournalRecorder) Finished(reference string, status Status, failures []string) error {
	_, err := r.runs.Finish(reference, status.runStatus(), failures)
	return err
}

func (s Status) runStatus() models.RunStatus {
	switch s {
	case StatusPassed:
		return models.RunStatusPassed
	case StatusSkipped:
		return models.RunStatusSkipped
	default:
		return models.RunStatusFailed
	}
}
