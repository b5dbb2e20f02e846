package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/discord-recap/internal/aggregate"
	"github.com/discord-recap/internal/models"
	"github.com/discord-recap/internal/report"
	"github.com/discord-recap/internal/sample"
	"github.com/rs/zerolog"
)

// Store is the fetch interface the pipeline consumes. *storage.Client
// implements it; tests provide an in-memory fake.
type Store interface {
	TotalMessages(ctx context.Context) (int, error)
	Members(ctx context.Context) ([]models.Member, error)
	Channels(ctx context.Context) ([]models.Channel, error)
	FirstMessageTime(ctx context.Context) (string, error)
	LastMessageTime(ctx context.Context) (string, error)
	MessageAt(ctx context.Context, offset int) (*models.Message, error)
	StreamScanRows(ctx context.Context, total, concurrency int, onPage func(rows []models.ScanRow), onProgress func(fetched, total int)) error
	AuthorsMatching(ctx context.Context, keyword string) ([]string, error)
	ContentPage(ctx context.Context, page int) ([]models.ContentRow, error)
	TopMediaPosts(ctx context.Context, monthStart, monthEnd string, minReactions int, excludeChannelID string, limit int) ([]models.Message, error)
}

// State describes where a pipeline run currently is
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
	StateError
)

// String returns string representation of State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	}
	return "unknown"
}

const totalPhases = 5

// phaseLabels name the phases for progress consumers
var phaseLabels = [totalPhases]string{
	"Quick stats",
	"Full scan",
	"Gratitude search",
	"Content sampling",
	"Top generations",
}

// phaseWeights spread the overall percentage across phases; the full
// scan dominates the run time
var phaseWeights = [totalPhases]int{10, 60, 10, 10, 10}

// Pipeline orchestrates the phases of one report computation.
// Phases are strictly sequential; each phase merges its fragment into
// the report as soon as it completes, so consumers can render partial
// results progressively.
type Pipeline struct {
	store  Store
	cfg    *models.Config
	logger zerolog.Logger
	rng    *rand.Rand

	onProgress func(models.ProgressEvent)
	onPhase    func(phase int, snapshot models.Report)

	mu      sync.Mutex
	state   State
	phase   int
	rep     models.Report
	lastErr error

	// Carried between phases
	lookups         report.Lookups
	channelCategory map[string]string
	pageSize        int
}

// Option configures optional pipeline callbacks
type Option func(*Pipeline)

// WithProgress registers a progress event consumer
func WithProgress(fn func(models.ProgressEvent)) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// WithPhaseComplete registers a callback fired with a report snapshot
// after each phase merge. This is the progressive-reveal contract:
// every phase boundary is an observable checkpoint.
func WithPhaseComplete(fn func(phase int, snapshot models.Report)) Option {
	return func(p *Pipeline) { p.onPhase = fn }
}

// WithRand overrides the sampling RNG (used by tests for determinism)
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) { p.rng = rng }
}

// New creates a pipeline
func New(store Store, cfg *models.Config, logger zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:    store,
		cfg:      cfg,
		logger:   logger.With().Str("component", "pipeline").Logger(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		state:    StateIdle,
		pageSize: cfg.PageSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current state and, in the error state, the cause
func (p *Pipeline) State() (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.lastErr
}

// Report returns a snapshot of the report accumulated so far
func (p *Pipeline) Report() models.Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rep
}

// emit sends a progress event for the current phase
func (p *Pipeline) emit(phase, phasePct int, errMsg string) {
	if p.onProgress == nil {
		return
	}

	overall := 0
	for i := 0; i < phase-1; i++ {
		overall += phaseWeights[i]
	}
	overall += phaseWeights[phase-1] * phasePct / 100

	p.onProgress(models.ProgressEvent{
		Phase:      phase,
		PhaseLabel: phaseLabels[phase-1],
		PhasePct:   phasePct,
		OverallPct: overall,
		Error:      errMsg,
	})
}

// completePhase merges nothing by itself; phases mutate p.rep under
// the lock and then call this to publish the checkpoint
func (p *Pipeline) completePhase(phase int) {
	p.emit(phase, 100, "")
	if p.onPhase != nil {
		p.onPhase(phase, p.Report())
	}
	p.logger.Info().Int("phase", phase).Str("label", phaseLabels[phase-1]).Msg("Phase complete")
}

// Run executes all phases and returns the sealed report.
// Any unrecoverable fetch failure aborts the run; retries only happen
// inside the fetch client at the page level.
func (p *Pipeline) Run(ctx context.Context) (*models.Report, error) {
	p.mu.Lock()
	p.state = StateRunning
	p.rep = models.Report{}
	p.lastErr = nil
	p.mu.Unlock()

	phases := []func(context.Context) error{
		p.runQuickStats,
		p.runFullScan,
		p.runGratitudeSearch,
		p.runContentSampling,
		p.runMediaExtraction,
	}

	started := time.Now()
	for i, phase := range phases {
		p.mu.Lock()
		p.phase = i + 1
		p.mu.Unlock()

		p.emit(i+1, 0, "")
		if err := phase(ctx); err != nil {
			err = fmt.Errorf("phase %d (%s) failed: %w", i+1, phaseLabels[i], err)
			p.mu.Lock()
			p.state = StateError
			p.lastErr = err
			p.mu.Unlock()
			p.emit(i+1, 0, err.Error())
			p.logger.Error().Err(err).Int("phase", i+1).Msg("Pipeline run failed")
			return nil, err
		}
		p.completePhase(i + 1)
	}

	p.mu.Lock()
	p.state = StateDone
	p.rep.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	final := p.rep
	p.mu.Unlock()

	p.logger.Info().
		Dur("elapsed", time.Since(started)).
		Int("total_messages", final.TotalMessages).
		Msg("Pipeline run complete")
	return &final, nil
}

// runQuickStats resolves totals, lookup tables, the date range and the
// highlighted message
func (p *Pipeline) runQuickStats(ctx context.Context) error {
	total, err := p.store.TotalMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to count messages: %w", err)
	}

	members, err := p.store.Members(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch members: %w", err)
	}
	channels, err := p.store.Channels(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch channels: %w", err)
	}

	first, err := p.store.FirstMessageTime(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch first message: %w", err)
	}
	last, err := p.store.LastMessageTime(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch last message: %w", err)
	}

	lookups := report.BuildLookups(members, channels)

	var highlight *models.HighlightMessage
	if total > p.cfg.HighlightOffset {
		msg, err := p.store.MessageAt(ctx, p.cfg.HighlightOffset)
		if err != nil {
			return fmt.Errorf("failed to fetch highlight message: %w", err)
		}
		if msg != nil {
			highlight = &models.HighlightMessage{
				Author:    lookups.MemberName(msg.AuthorID),
				Channel:   lookups.ChannelName(msg.ChannelID),
				Content:   msg.Content,
				Timestamp: msg.CreatedAt,
				AvatarURL: lookups.MemberAvatars[msg.AuthorID],
			}
		}
	}

	p.mu.Lock()
	p.lookups = lookups
	p.channelCategory = report.ClassifyChannels(channels, p.cfg.CategoryPatterns)
	p.rep.TotalMessages = total
	p.rep.TotalMembers = len(members)
	p.rep.TotalChannels = len(channels)
	p.rep.DateRange = models.DateRange{Start: datePart(first), End: datePart(last)}
	p.rep.HighlightMessage = highlight
	p.mu.Unlock()

	p.logger.Info().
		Int("total_messages", total).
		Int("members", len(members)).
		Int("channels", len(channels)).
		Str("start", datePart(first)).
		Str("end", datePart(last)).
		Msg("Quick stats resolved")
	return nil
}

// runFullScan streams every message once through the accumulators and
// derives the bulk of the report
func (p *Pipeline) runFullScan(ctx context.Context) error {
	acc := aggregate.New(p.cfg.LateNightStartHour, p.cfg.LateNightEndHour)

	total := p.Report().TotalMessages
	err := p.store.StreamScanRows(ctx, total, p.cfg.Concurrency,
		acc.ProcessPage,
		func(fetched, totalRows int) {
			if totalRows > 0 {
				p.emit(2, fetched*100/totalRows, "")
			}
		})
	if err != nil {
		return fmt.Errorf("full scan failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	lk := p.lookups

	p.rep.TopContributors = report.TopContributors(acc.AuthorCounts, lk, 5)
	p.rep.Milestones = report.Milestones(acc.DateCounts, p.rep.DateRange.Start, p.cfg.MilestoneTargets, p.cfg.MilestoneLabels)
	p.rep.CumulativeMessages = report.CumulativeSeries(acc.DateCounts)
	p.rep.ActivityHeatmap = report.HeatmapBuckets(&acc.Heatmap)
	p.rep.ChannelStats = report.ChannelShares(acc.ChannelCounts, lk, p.rep.TotalMessages, 5)
	p.rep.CategoryTrends = report.CategoryTrends(acc.ChannelMonthCounts, p.channelCategory, p.cfg.CategoryOrder)

	p.rep.Awards.MostHelpful = report.MostActiveReplier(acc.ReplyCounts, lk)
	p.rep.Awards.NightOwl = report.ClosestToHour(acc.AuthorHourStats, lk, p.cfg.NightOwlTargetHour, p.cfg.MinAwardSample)
	p.rep.Awards.EarlyBird = report.ClosestToHour(acc.AuthorHourStats, lk, p.cfg.EarlyBirdTarget, p.cfg.MinAwardSample)
	p.rep.Awards.AllNighter = report.AllNighter(acc.AuthorLateNightCounts, acc.AuthorCounts, lk, p.cfg.MinAwardSample)

	p.rep.FunStats.BusiestDay = report.BusiestDay(acc.DateCounts)
	p.rep.FunStats.MostRepliedThread = report.MostRepliedThread(acc.ReferenceCounts)
	return nil
}

// runGratitudeSearch runs the targeted keyword query for the most
// thankful award. Full-text filtering happens at the store, not in the
// accumulators.
func (p *Pipeline) runGratitudeSearch(ctx context.Context) error {
	authors, err := p.store.AuthorsMatching(ctx, p.cfg.GratitudeKeyword)
	if err != nil {
		return fmt.Errorf("gratitude search failed: %w", err)
	}

	p.mu.Lock()
	p.rep.Awards.MostThankful = report.GratitudeAward(authors, p.lookups)
	p.mu.Unlock()
	return nil
}

// runContentSampling fetches a random sample of content pages and
// derives the text statistics
func (p *Pipeline) runContentSampling(ctx context.Context) error {
	total := p.Report().TotalMessages
	totalPages := (total + p.pageSize - 1) / p.pageSize
	indices := sample.PageIndices(totalPages, p.cfg.SamplePages, p.rng)

	var rows []models.ContentRow
	for i, pageIdx := range indices {
		page, err := p.store.ContentPage(ctx, pageIdx)
		if err != nil {
			return fmt.Errorf("failed to sample page %d: %w", pageIdx, err)
		}
		rows = append(rows, page...)
		p.emit(4, (i+1)*100/len(indices), "")
	}

	stats := sample.Analyze(rows)

	p.mu.Lock()
	p.rep.FunStats.LongestMessage = models.LongestMessage{
		Chars:    stats.LongestChars,
		Username: p.lookups.MemberName(stats.LongestAuthorID),
	}
	p.rep.FunStats.MostUsedEmoji = models.EmojiStat{Emoji: stats.TopEmoji, Count: stats.TopEmojiCount}
	p.rep.FunStats.MostUsedWord = models.WordStat{Word: stats.TopWord, Count: stats.TopWordCount}
	p.mu.Unlock()
	return nil
}

// datePart trims an ISO timestamp to its date
func datePart(timestamp string) string {
	if len(timestamp) >= 10 {
		return timestamp[:10]
	}
	return timestamp
}
