package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"adaptkit/internal/adapter"
	"adaptkit/internal/domain"
	"adaptkit/internal/logging"
	"adaptkit/internal/repository"
)

// ErrNoRepository is returned by run queries when persistence is disabled
var ErrNoRepository = errors.New("run persistence is disabled")

// Options tunes an ExtractionService
type Options struct {
	// Workers bounds parallel leaf extraction within a unit
	Workers int
	// LegacyFirstRoot resolves adapters from the first root variant only
	LegacyFirstRoot bool
	// Timeout cancels a run at the next unit boundary; zero means no limit
	Timeout time.Duration
}

// ExtractionService resolves, extracts and persists variant models
type ExtractionService struct {
	registry  *adapter.Registry
	resolver  *adapter.Resolver
	extractor *adapter.Extractor
	repo      repository.Repository
	eventBus  *EventBus
	timeout   time.Duration
	log       *slog.Logger
}

// NewExtractionService creates a new extraction service.
// repo and eventBus may be nil.
func NewExtractionService(registry *adapter.Registry, repo repository.Repository, eventBus *EventBus, opts Options) *ExtractionService {
	resolver := adapter.NewResolver(registry)
	resolver.LegacyFirstRoot = opts.LegacyFirstRoot

	extractor := adapter.NewExtractor()
	if opts.Workers > 0 {
		extractor.Workers = opts.Workers
	}

	return &ExtractionService{
		registry:  registry,
		resolver:  resolver,
		extractor: extractor,
		repo:      repo,
		eventBus:  eventBus,
		timeout:   opts.Timeout,
		log:       logging.New("service"),
	}
}

// Resolve returns the adapters applicable to the model
func (s *ExtractionService) Resolve(model *domain.VariantsModel) (*adapter.Set, error) {
	if err := s.validateModel(model); err != nil {
		return nil, err
	}
	return s.resolver.ResolveModel(model), nil
}

// Run resolves and extracts the model, then persists the report.
// A canceled or timed-out run still returns and stores the completed units,
// with Canceled set.
func (s *ExtractionService) Run(ctx context.Context, model *domain.VariantsModel) (*domain.Report, error) {
	if err := s.validateModel(model); err != nil {
		return nil, err
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report := domain.NewReport(model.Name)
	s.eventBus.Publish(Event{
		Type:    EventRunStarted,
		Payload: map[string]interface{}{"model": model.Name, "units": model.ActiveCount()},
	})

	set := s.resolver.ResolveModel(model)
	report.Adapters = set.IDs()
	s.eventBus.Publish(Event{
		Type:    EventAdaptersResolved,
		Payload: map[string]interface{}{"adapters": report.Adapters},
	})
	s.log.Info("adapters resolved", "model", model.Name, "adapters", report.Adapters)

	progress := newEventProgress(runCtx, s.eventBus, model.ActiveCount())
	units, canceled := s.extractor.ExtractModel(runCtx, model, set, progress)

	for _, u := range units {
		report.Units = append(report.Units, s.unitReport(u))
	}
	report.Canceled = canceled
	report.FinishedAt = time.Now()

	if canceled {
		s.eventBus.Publish(Event{Type: EventRunCanceled, Payload: report.Summary()})
		s.log.Warn("run canceled", "model", model.Name, "completed_units", len(units))
	} else {
		s.eventBus.Publish(Event{Type: EventRunCompleted, Payload: report.Summary()})
		s.log.Info("run completed", "model", model.Name,
			"units", len(units), "elements", report.ElementCount(), "duration", report.Duration())
	}

	if s.repo != nil {
		// Persist even when the caller's context is done.
		if _, err := s.repo.SaveRun(context.WithoutCancel(ctx), report); err != nil {
			return report, fmt.Errorf("save run: %w", err)
		}
		s.eventBus.Publish(Event{Type: EventRunSaved, Payload: map[string]int64{"id": report.ID}})
	}

	return report, nil
}

// unitReport flattens a unit, attributing each element to its owning adapter
func (s *ExtractionService) unitReport(u adapter.Unit) domain.UnitReport {
	ur := domain.UnitReport{
		Variant:  u.Variant.Label(),
		Elements: make([]domain.ElementRecord, 0, len(u.Elements)),
	}
	for _, el := range u.Elements {
		id := ""
		if a, ok := s.registry.AdapterFor(el); ok {
			id = a.ID()
		}
		ur.Elements = append(ur.Elements, domain.NewElementRecord(id, el))
	}
	return ur
}

// Owner returns the adapter that produced the element
func (s *ExtractionService) Owner(el domain.Element) (adapter.Adapter, bool) {
	return s.registry.AdapterFor(el)
}

// Runs lists stored runs, newest first
func (s *ExtractionService) Runs(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return s.repo.ListRuns(ctx, limit)
}

// GetRun loads a stored run
func (s *ExtractionService) GetRun(ctx context.Context, id int64) (*domain.Report, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return s.repo.GetRun(ctx, id)
}

func (s *ExtractionService) validateModel(model *domain.VariantsModel) error {
	if model == nil {
		return fmt.Errorf("model is required")
	}
	return model.Validate()
}
