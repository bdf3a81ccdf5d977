package scheduler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/awesomehub/internal/domain"
	"github.com/MrSnakeDoc/awesomehub/internal/index"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
	"github.com/MrSnakeDoc/awesomehub/internal/markdown"
	"github.com/MrSnakeDoc/awesomehub/internal/versions"
)

// ErrScrapeInProgress is returned when a full run is already going on.
var ErrScrapeInProgress = errors.New("scrape already in progress")

// ListStore is the persistence the scraper writes through.
type ListStore interface {
	GetList(ctx context.Context, id string) (*domain.AwesomeList, error)
	SaveList(ctx context.Context, list *domain.AwesomeList) error
	GetLastChecked(ctx context.Context, id string) (time.Time, error)
	SetLastChecked(ctx context.Context, id string, at time.Time) error
	GetReadmeDigest(ctx context.Context, id string) (string, error)
	SetReadmeDigest(ctx context.Context, id, digest string) error
}

// Source fetches upstream README files.
type Source interface {
	HasBeenUpdated(ctx context.Context, owner, repo string, since time.Time) bool
	Readme(ctx context.Context, owner, repo, branch string) (string, error)
}

// Outcome tells what ScrapeOne did with a repository.
type Outcome string

const (
	OutcomeScraped   Outcome = "scraped"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeBusy      Outcome = "busy"
	OutcomeFailed    Outcome = "failed"
)

// ScraperOptions tunes a ListScraper. Zero values fall back to defaults.
type ScraperOptions struct {
	Interval          time.Duration
	Workers           int
	NewItemWindow     time.Duration
	UmbrellaThreshold int
	MaxDocumentSize   int
}

// RunReport summarizes one ScrapeAll pass.
type RunReport struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Scraped    int       `json:"scraped"`
	Unchanged  int       `json:"unchanged"`
	Busy       int       `json:"busy"`
	Failed     int       `json:"failed"`
}

// ListScraper periodically turns tracked READMEs into stored lists
type ListScraper struct {
	repos  []domain.TrackedRepository
	source Source
	store  ListStore
	index  *index.ListIndex
	logger logger.Logger
	opts   ScraperOptions
	lexer  markdown.Lexer
	now    func() time.Time

	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
	running       atomic.Bool

	mu       sync.Mutex
	inFlight map[string]struct{}
	lastRun  RunReport
}

// NewListScraper creates a new list scraper. store may be nil, in which
// case the index alone carries previous versions.
func NewListScraper(
	repos []domain.TrackedRepository,
	source Source,
	store ListStore,
	idx *index.ListIndex,
	log logger.Logger,
	opts ScraperOptions,
) *ListScraper {
	if opts.Interval <= 0 {
		opts.Interval = 6 * time.Hour
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.NewItemWindow <= 0 {
		opts.NewItemWindow = versions.DefaultNewItemWindow
	}

	return &ListScraper{
		repos:         repos,
		source:        source,
		store:         store,
		index:         idx,
		logger:        log,
		opts:          opts,
		lexer:         markdown.NewGoldmarkLexer(opts.MaxDocumentSize),
		now:           time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: make(chan struct{}, 1),
		inFlight:      make(map[string]struct{}),
	}
}

// Start runs a first scrape then keeps scraping on every tick and manual
// trigger until Stop is called or ctx ends.
func (ls *ListScraper) Start(ctx context.Context) error {
	if len(ls.repos) == 0 {
		return errors.New("no tracked repositories")
	}

	ticker := time.NewTicker(ls.opts.Interval)
	go func() {
		defer ticker.Stop()
		ls.run(ctx, "initial")
		for {
			select {
			case <-ticker.C:
				ls.run(ctx, "scheduled")
			case <-ls.manualTrigger:
				ls.logger.Info("manual scrape triggered")
				ls.run(ctx, "manual")
			case <-ls.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (ls *ListScraper) run(ctx context.Context, reason string) {
	if _, err := ls.ScrapeAll(ctx); err != nil {
		ls.logger.Error("scrape run finished with errors",
			logger.String("reason", reason),
			logger.Error(err))
	}
}

// Stop stops the scraper. It is safe to call more than once.
func (ls *ListScraper) Stop() {
	ls.stopOnce.Do(func() { close(ls.stopCh) })
}

// Trigger queues a manual scrape. It reports false when a run is already
// going on or queued.
func (ls *ListScraper) Trigger() bool {
	if ls.running.Load() {
		return false
	}
	select {
	case ls.manualTrigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Running reports whether a ScrapeAll pass is in progress.
func (ls *ListScraper) Running() bool {
	return ls.running.Load()
}

// LastRun returns the report of the last finished pass.
func (ls *ListScraper) LastRun() RunReport {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.lastRun
}

// Repositories returns the tracked repositories.
func (ls *ListScraper) Repositories() []domain.TrackedRepository {
	out := make([]domain.TrackedRepository, len(ls.repos))
	copy(out, ls.repos)
	return out
}

// ScrapeAll scrapes every tracked repository with a bounded number of
// workers. The returned error joins the per-repository failures.
func (ls *ListScraper) ScrapeAll(ctx context.Context) (RunReport, error) {
	if !ls.running.CompareAndSwap(false, true) {
		return RunReport{}, ErrScrapeInProgress
	}
	defer ls.running.Store(false)

	report := RunReport{RunID: uuid.NewString(), StartedAt: ls.now().UTC()}
	runLog := ls.logger.With(logger.RunID(report.RunID))
	runLog.Info("scraping tracked lists",
		logger.Int("lists", len(ls.repos)),
		logger.Int("workers", ls.opts.Workers))

	jobs := make(chan domain.TrackedRepository)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
		counts = map[Outcome]int{}
	)

	for i := 0; i < ls.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for repo := range jobs {
				outcome, err := ls.ScrapeOne(ctx, repo)
				mu.Lock()
				counts[outcome]++
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", repo.ID(), err))
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, repo := range ls.repos {
		select {
		case jobs <- repo:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	report.FinishedAt = ls.now().UTC()
	report.Scraped = counts[OutcomeScraped]
	report.Unchanged = counts[OutcomeUnchanged]
	report.Busy = counts[OutcomeBusy]
	report.Failed = counts[OutcomeFailed]

	ls.mu.Lock()
	ls.lastRun = report
	ls.mu.Unlock()

	runLog.Info("scrape run completed",
		logger.Int("scraped", report.Scraped),
		logger.Int("unchanged", report.Unchanged),
		logger.Int("failed", report.Failed),
		logger.Duration("took", report.FinishedAt.Sub(report.StartedAt)))

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return report, errors.Join(errs...)
}

// ScrapeOne refreshes a single repository. Concurrent calls for the same
// repository return OutcomeBusy without doing anything.
func (ls *ListScraper) ScrapeOne(ctx context.Context, repo domain.TrackedRepository) (Outcome, error) {
	id := repo.ID()
	log := ls.logger.With(logger.ListID(id))
	if !ls.acquire(id) {
		log.Debug("list already being scraped")
		return OutcomeBusy, nil
	}
	defer ls.release(id)

	_, indexed := ls.index.GetList(id)
	lastChecked := ls.lastChecked(ctx, id)

	if indexed && !ls.source.HasBeenUpdated(ctx, repo.Owner, repo.Repo, lastChecked) {
		log.Debug("list unchanged since last check",
			logger.Time("last_checked", lastChecked))
		return OutcomeUnchanged, nil
	}

	readme, err := ls.source.Readme(ctx, repo.Owner, repo.Repo, repo.Branch)
	if err != nil {
		log.Warn("failed to fetch readme", logger.Error(err))
		return OutcomeFailed, err
	}

	checkedAt := ls.now().UTC()
	digest := readmeDigest(readme)
	if indexed && digest == ls.storedDigest(ctx, id) {
		ls.markChecked(ctx, id, checkedAt)
		log.Debug("readme content unchanged", logger.Digest(digest))
		return OutcomeUnchanged, nil
	}

	cur, err := markdown.Parse(readme, repo.Owner, repo.Repo, markdown.ParseOptions{
		Name:              repo.Name,
		UmbrellaThreshold: ls.opts.UmbrellaThreshold,
		Lexer:             ls.lexer,
		Now:               ls.now,
	})
	if err != nil {
		log.Error("failed to parse readme", logger.Error(err))
		return OutcomeFailed, err
	}
	if repo.Description != "" {
		cur.Description = repo.Description
	}

	prev, err := ls.previous(ctx, id)
	if err != nil {
		return OutcomeFailed, err
	}

	merged := versions.Reconcile(ls.logger, prev, cur, ls.opts.NewItemWindow, checkedAt)

	if ls.store != nil {
		if err := ls.store.SaveList(ctx, merged); err != nil {
			log.Error("failed to save list", logger.Error(err))
			return OutcomeFailed, err
		}
		if err := ls.store.SetReadmeDigest(ctx, id, digest); err != nil {
			log.Warn("failed to save readme digest", logger.Error(err))
		}
	}
	ls.index.UpdateList(merged)
	ls.markChecked(ctx, id, checkedAt)

	log.Info("list scraped",
		logger.Digest(digest),
		logger.Int("items", len(merged.Items)),
		logger.Int("new_items", merged.CountNew()),
		logger.Int("categories", len(merged.Categories)))

	return OutcomeScraped, nil
}

// previous returns the last stored version, or nil when there is none or
// it cannot be decoded.
func (ls *ListScraper) previous(ctx context.Context, id string) (*domain.AwesomeList, error) {
	if ls.store == nil {
		prev, _ := ls.index.GetList(id)
		return prev, nil
	}

	prev, err := ls.store.GetList(ctx, id)
	switch {
	case err == nil:
		return prev, nil
	case errors.Is(err, domain.ErrListNotFound):
		return nil, nil
	case errors.Is(err, domain.ErrCorruptPreviousState):
		ls.logger.Warn("stored list is unreadable, re-baselining",
			logger.ListID(id),
			logger.Error(err))
		return nil, nil
	default:
		return nil, fmt.Errorf("load previous version of %s: %w", id, err)
	}
}

func (ls *ListScraper) lastChecked(ctx context.Context, id string) time.Time {
	if ls.store == nil {
		return time.Time{}
	}
	at, err := ls.store.GetLastChecked(ctx, id)
	if err != nil {
		ls.logger.Warn("failed to read last check time", logger.ListID(id), logger.Error(err))
		return time.Time{}
	}
	return at
}

func (ls *ListScraper) storedDigest(ctx context.Context, id string) string {
	if ls.store == nil {
		return ""
	}
	digest, err := ls.store.GetReadmeDigest(ctx, id)
	if err != nil {
		ls.logger.Warn("failed to read readme digest", logger.ListID(id), logger.Error(err))
		return ""
	}
	return digest
}

func (ls *ListScraper) markChecked(ctx context.Context, id string, at time.Time) {
	if ls.store == nil {
		return
	}
	if err := ls.store.SetLastChecked(ctx, id, at); err != nil {
		ls.logger.Warn("failed to save last check time", logger.ListID(id), logger.Error(err))
	}
}

func (ls *ListScraper) acquire(id string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if _, busy := ls.inFlight[id]; busy {
		return false
	}
	ls.inFlight[id] = struct{}{}
	return true
}

func (ls *ListScraper) release(id string) {
	ls.mu.Lock()
	delete(ls.inFlight, id)
	ls.mu.Unlock()
}

func readmeDigest(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}
