package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"skusync/internal/domain/catalog"
	"skusync/internal/domain/item"
)

// Servicer интерфейс сервиса синхронизации
type Servicer interface {
	// Run выполняет полный прогон: аутентификация, план, обработка
	Run(ctx context.Context, opts RunOptions) (*Summary, error)
	// Preview строит план без обращений к каталогу
	Preview(ctx context.Context) (*Plan, error)
	// Runs возвращает последние прогоны
	Runs(ctx context.Context, limit int) ([]Summary, error)
}

// Service последовательно связывает товары без legacy_item_id с позициями каталога
type Service struct {
	items    item.Repository
	auth     Authenticator
	runs     RunRepository
	planner  *Planner
	resolver *Resolver
	guard    *ConflictGuard
	log      *slog.Logger
	config   *ServiceConfig

	mu      gosync.Mutex
	running bool
	now     func() time.Time
}

// NewService runs может быть nil, тогда история не сохраняется
func NewService(items item.Repository, cat Catalog, auth Authenticator, runs RunRepository, log *slog.Logger, config *ServiceConfig) *Service {
	if config == nil {
		config = &ServiceConfig{
			BatchSize:        25,
			InterRecordDelay: 200 * time.Millisecond,
			InterBatchDelay:  2 * time.Second,
		}
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 25
	}
	if config.ProgressEvery <= 0 {
		config.ProgressEvery = 10
	}

	return &Service{
		items:    items,
		auth:     auth,
		runs:     runs,
		planner:  NewPlanner(),
		resolver: NewResolver(newPacedCatalog(cat, config.InterRecordDelay), log),
		guard:    NewConflictGuard(items),
		log:      log.With("component", "sync_service"),
		config:   config,
		now:      time.Now,
	}
}

// Preview строит план по текущему состоянию хранилища
func (s *Service) Preview(ctx context.Context) (*Plan, error) {
	items, err := s.items.ListWithoutLegacyID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListItems, err)
	}
	return s.planner.Plan(items), nil
}

// Runs последние прогоны, новые первыми
func (s *Service) Runs(ctx context.Context, limit int) ([]Summary, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.ListRuns(ctx, limit)
}

// Run при отмене ctx дорабатывает текущий товар и возвращает накопленные итоги с Cancelled=true.
// Ошибка возвращается только если прогон прерван до обработки (аутентификация, чтение хранилища).
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	summary := &Summary{
		ID:        uuid.NewString(),
		State:     StateIdle,
		DryRun:    opts.DryRun,
		StartedAt: s.now(),
	}
	log := s.log.With("run_id", summary.ID)

	// 1. Проверяем доступ к каталогу до чтения товаров
	summary.State = StateAuthenticating
	if _, err := s.auth.Token(ctx); err != nil {
		log.Error("inventory authentication failed", "error", err)
		return s.abort(ctx, summary, err), err
	}

	// 2. План
	summary.State = StatePlanning
	plan, err := s.Preview(ctx)
	if err != nil {
		log.Error("planning failed", "error", err)
		return s.abort(ctx, summary, err), err
	}
	summary.Planned = len(plan.Items)

	log.Info("plan ready",
		"without_legacy_id", plan.Total,
		"skipped_blank_sku", plan.SkippedBlank,
		"representatives", len(plan.Items),
		"collapsed_variants", plan.Collapsed,
		"dry_run", opts.DryRun,
	)

	// 3. Обработка
	summary.State = StateProcessing
	s.process(ctx, log, plan.Items, summary, opts)

	summary.State = StateDone
	summary.FinishedAt = s.now()
	s.saveRun(ctx, summary)

	log.Info("sync finished",
		"planned", summary.Planned,
		"updated", summary.Updated,
		"not_found", summary.NotFound,
		"conflict", summary.Conflict,
		"error", summary.Error,
		"success_rate", fmt.Sprintf("%.1f%%", summary.SuccessRate()*100),
		"cancelled", summary.Cancelled,
		"duration", summary.Duration(),
	)

	return summary, nil
}

func (s *Service) process(ctx context.Context, log *slog.Logger, items []item.Item, summary *Summary, opts RunOptions) {
	total := len(items)

	for i, it := range items {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		if i > 0 && i%s.config.BatchSize == 0 {
			log.Info("batch complete",
				"batch", i/s.config.BatchSize,
				"progress", fmt.Sprintf("%d/%d", i, total),
				"updated", summary.Updated,
				"not_found", summary.NotFound,
				"conflict", summary.Conflict,
				"error", summary.Error,
			)
			if err := sleepWithContext(ctx, s.config.InterBatchDelay); err != nil {
				summary.Cancelled = true
				break
			}
		}

		log.Info("processing item",
			"progress", fmt.Sprintf("%d/%d", i+1, total),
			"sku", it.SKU,
			"name", it.ShortName(50),
		)

		// текущий товар дорабатываем даже при отмене
		res := s.processItem(context.WithoutCancel(ctx), log, it, opts.DryRun)
		summary.add(res)

		if (i+1)%s.config.ProgressEvery == 0 {
			log.Info("progress",
				"processed", i+1,
				"total", total,
				"success_rate", fmt.Sprintf("%.1f%%", float64(summary.Updated)/float64(i+1)*100),
			)
		}
	}

	if summary.Cancelled {
		log.Warn("sync cancelled", "processed", summary.Processed(), "planned", total)
	}
}

func (s *Service) processItem(ctx context.Context, log *slog.Logger, it item.Item, dryRun bool) Result {
	res := Result{ItemID: it.ID, SKU: it.SKU}

	resolution, err := s.resolver.Resolve(ctx, it.SKU)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			log.Info("not found in catalog", "sku", it.SKU)
			res.Outcome = OutcomeNotFound
			return res
		}
		log.Error("catalog lookup failed", "sku", it.SKU, "error", err)
		res.Outcome = OutcomeError
		res.Error = err.Error()
		return res
	}

	legacyID := resolution.Item.ItemID
	res.LegacyID = legacyID
	res.Match = resolution.Match

	verdict, err := s.guard.CheckAndClaim(ctx, it, legacyID)
	if err != nil {
		log.Error("conflict check failed", "sku", it.SKU, "legacy_item_id", legacyID, "error", err)
		res.Outcome = OutcomeError
		res.Error = err.Error()
		return res
	}
	if !verdict.Approved {
		log.Warn("legacy id already claimed",
			"sku", it.SKU,
			"legacy_item_id", legacyID,
			"owner_id", verdict.Owner.ID,
			"owner_sku", verdict.Owner.SKU,
		)
		res.Outcome = OutcomeConflict
		res.Owner = verdict.Owner.SKU
		return res
	}

	if dryRun {
		log.Info("dry run: would update", "sku", it.SKU, "legacy_item_id", legacyID, "match", resolution.Match)
		res.Outcome = OutcomeUpdated
		return res
	}

	if err := s.items.SetLegacyID(ctx, it.ID, legacyID); err != nil {
		if errors.Is(err, item.ErrLegacyIDTaken) {
			log.Warn("legacy id claimed concurrently", "sku", it.SKU, "legacy_item_id", legacyID)
			res.Outcome = OutcomeConflict
			return res
		}
		log.Error("failed to update item", "item_id", it.ID, "sku", it.SKU, "error", err)
		res.Outcome = OutcomeError
		res.Error = err.Error()
		return res
	}

	log.Info("item updated", "sku", it.SKU, "legacy_item_id", legacyID, "match", resolution.Match)
	res.Outcome = OutcomeUpdated
	return res
}

func (s *Service) abort(ctx context.Context, summary *Summary, err error) *Summary {
	summary.State = StateAborted
	summary.Reason = err.Error()
	summary.FinishedAt = s.now()
	s.saveRun(ctx, summary)
	return summary
}

func (s *Service) saveRun(ctx context.Context, summary *Summary) {
	if s.runs == nil {
		return
	}
	if err := s.runs.SaveRun(context.WithoutCancel(ctx), summary); err != nil {
		s.log.Warn("failed to save run", "run_id", summary.ID, "error", err)
	}
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
