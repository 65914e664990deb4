package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"reddit-repost-assistant/internal/config"
	"reddit-repost-assistant/internal/domain"
	"reddit-repost-assistant/internal/domain/model"
	"reddit-repost-assistant/internal/domain/ports/adapter"
	"reddit-repost-assistant/internal/domain/ports/repository"
	"reddit-repost-assistant/internal/infra/logging"
	"reddit-repost-assistant/internal/infra/metrics"
	"reddit-repost-assistant/internal/infra/worker"
	"reddit-repost-assistant/internal/similarity"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	maxPersistedHits = 200
	maxQueryTokens   = 8
	strongDupeFloor  = 0.9
	maxDraftTitleLen = 300
)

// Scheduler runs one background task per accepted job.
type Scheduler interface {
	Submit(task worker.Task) error
}

// CheckUseCase is the repost check workflow: it accepts candidate content,
// scans subreddit history read-only within a lookback window, produces a
// ranked list of potential duplicates and generates a draft payload for human
// review when it looks safe to proceed. It never posts anything.
type CheckUseCase struct {
	cfg   config.CheckConfig
	jobs  repository.CheckJobStore
	blobs repository.BlobStore
	forum adapter.ForumSearchClient
	sched Scheduler
	log   *zerolog.Logger

	now func() time.Time
}

// NewCheckUseCase constructs the orchestrator.
func NewCheckUseCase(
	cfg config.CheckConfig,
	jobs repository.CheckJobStore,
	blobs repository.BlobStore,
	forum adapter.ForumSearchClient,
	sched Scheduler,
	log *zerolog.Logger,
) *CheckUseCase {
	return &CheckUseCase{
		cfg:   cfg,
		jobs:  jobs,
		blobs: blobs,
		forum: forum,
		sched: sched,
		log:   log,
		now:   time.Now,
	}
}

// StartCheck admits a new check job and schedules its background scan.
// Returns the job id immediately; scanning happens asynchronously.
// lookbackDays and minTitleSimilarity fall back to configured defaults when
// nil, as does an empty subreddit list.
func (uc *CheckUseCase) StartCheck(
	ctx context.Context,
	candidate model.Candidate,
	subreddits []string,
	lookbackDays *int,
	minTitleSimilarity *float64,
) (string, error) {
	defer logging.TraceDuration(uc.log, "CheckUC.StartCheck")()

	if strings.TrimSpace(candidate.Title) == "" {
		return "", fmt.Errorf("%w: candidate title is required", domain.ErrInvalidArgument)
	}

	subs := make([]string, 0, len(subreddits))
	for _, s := range subreddits {
		if s = strings.TrimSpace(s); s != "" {
			subs = append(subs, s)
		}
	}
	if len(subs) == 0 {
		subs = append(subs, uc.cfg.DefaultSubreddits...)
	}
	lb := uc.cfg.LookbackDays
	if lookbackDays != nil {
		lb = *lookbackDays
	}
	mts := uc.cfg.MinTitleSimilarity
	if minTitleSimilarity != nil {
		mts = *minTitleSimilarity
	}

	jobID := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	candDoc := model.CandidateDocument{Candidate: candidate, CreatedAt: uc.now().UTC()}
	data, err := json.MarshalIndent(candDoc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode candidate: %w", err)
	}
	candPath := uc.blobs.CandidatePath(jobID)

	// Admission comes first: a capacity-rejected submission must leave no
	// trace in the blob store.
	job := &model.CheckJob{
		JobID:              jobID,
		Status:             model.CheckStatusStarting,
		Subreddits:         subs,
		LookbackDays:       lb,
		MinTitleSimilarity: mts,
		StartedAt:          uc.now().UTC(),
		CandidatePath:      candPath,
		ResultPath:         uc.blobs.ResultPath(jobID),
	}
	if err := uc.jobs.Create(ctx, job, uc.cfg.MaxActiveJobs); err != nil {
		return "", err
	}

	if err := uc.blobs.Put(ctx, candPath, data); err != nil {
		_ = uc.jobs.Finish(ctx, jobID, model.CheckStatusFailed,
			&model.JobFailure{Code: model.FailurePersist, Message: err.Error()}, uc.now().UTC())
		return "", fmt.Errorf("persist candidate: %w", err)
	}

	if err := uc.sched.Submit(func(taskCtx context.Context) error {
		uc.runCheck(taskCtx, jobID)
		return nil
	}); err != nil {
		// the record exists but nothing will ever run it; close it out
		_ = uc.jobs.Finish(ctx, jobID, model.CheckStatusFailed,
			&model.JobFailure{Code: model.FailureSchedule, Message: err.Error()}, uc.now().UTC())
		return "", fmt.Errorf("%w: %v", domain.ErrTooManyActiveJobs, err)
	}

	uc.log.Info().Str("job_id", jobID).Strs("subreddits", subs).Int("lookback_days", lb).Msg("check started")
	return jobID, nil
}

// GetJob returns a snapshot of one job.
func (uc *CheckUseCase) GetJob(ctx context.Context, jobID string) (*model.CheckJob, error) {
	return uc.jobs.Get(ctx, jobID)
}

// ListJobs returns snapshots of all jobs.
func (uc *CheckUseCase) ListJobs(ctx context.Context) ([]*model.CheckJob, error) {
	return uc.jobs.List(ctx)
}

// ReadResults loads the persisted results document for a job. While the job
// is still running (or after it failed) the result blob does not exist yet;
// callers get a placeholder with the current status and no results, and must
// inspect the status to tell "not ready" apart from "none found".
func (uc *CheckUseCase) ReadResults(ctx context.Context, jobID string) (*model.ResultsDocument, error) {
	job, err := uc.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	ok, err := uc.blobs.Exists(ctx, job.ResultPath)
	if err != nil {
		return nil, fmt.Errorf("stat results: %w", err)
	}
	if !ok {
		return &model.ResultsDocument{JobID: jobID, Status: job.Status, Results: []model.Hit{}}, nil
	}
	data, err := uc.blobs.Get(ctx, job.ResultPath)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var doc model.ResultsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return &doc, nil
}

// runCheck is the background execution unit. It drives one job to a terminal
// state and never returns an error upward: any failure is reduced to the
// failed status on the job record.
func (uc *CheckUseCase) runCheck(ctx context.Context, jobID string) {
	log := logging.With(logging.WithJobID(ctx, jobID), uc.log)
	start := uc.now()

	job, err := uc.jobs.Get(ctx, jobID)
	if err != nil {
		log.Error().Err(err).Msg("job vanished before scan")
		return
	}
	if err := uc.jobs.SetStatus(ctx, jobID, model.CheckStatusRunning); err != nil {
		log.Error().Err(err).Msg("could not mark job running")
		return
	}

	hits, candidate, failure := uc.scan(ctx, job, log)
	if failure == nil {
		failure = uc.persistOutcome(ctx, job, candidate, hits)
	}

	finished := uc.now().UTC()
	status := model.CheckStatusCompleted
	if failure != nil {
		status = model.CheckStatusFailed
		log.Error().Str("cause", string(failure.Code)).Str("detail", failure.Message).Msg("check failed")
	}
	if err := uc.jobs.Finish(ctx, jobID, status, failure, finished); err != nil {
		log.Error().Err(err).Msg("could not finish job")
		return
	}

	metrics.IncCheck(string(status))
	if status == model.CheckStatusCompleted {
		metrics.ObserveScan(uc.now().Sub(start).Seconds(), len(hits))
		log.Info().Int("hits", len(hits)).Dur("duration", uc.now().Sub(start)).Msg("check completed")
	}
}

// scan walks every subreddit of the job and collects kept hits, unranked.
func (uc *CheckUseCase) scan(ctx context.Context, job *model.CheckJob, log *zerolog.Logger) ([]model.Hit, *model.Candidate, *model.JobFailure) {
	data, err := uc.blobs.Get(ctx, job.CandidatePath)
	if err != nil {
		return nil, nil, &model.JobFailure{Code: model.FailureLoadCandidate, Message: err.Error()}
	}
	var candDoc model.CandidateDocument
	if err := json.Unmarshal(data, &candDoc); err != nil {
		return nil, nil, &model.JobFailure{Code: model.FailureLoadCandidate, Message: err.Error()}
	}
	candidate := candDoc.Candidate

	cutoff := float64(uc.now().UTC().Add(-time.Duration(job.LookbackDays) * 24 * time.Hour).Unix())
	query := buildQuery(candidate.Title)

	// One pacing state for the whole job, shared across subreddits.
	limiter := rate.NewLimiter(rate.Every(uc.cfg.FetchInterval), 1)

	var hits []model.Hit
	for _, sub := range scanTargets(job.Subreddits) {
		subHits, err := uc.scanSubreddit(ctx, sub, query, candidate, cutoff, job.MinTitleSimilarity, limiter)
		if err != nil {
			return nil, nil, &model.JobFailure{Code: model.FailureForumSearch, Message: err.Error()}
		}
		log.Debug().Str("subreddit", sub).Int("kept", len(subHits)).Msg("subreddit scanned")
		hits = append(hits, subHits...)
	}
	return hits, &candidate, nil
}

func (uc *CheckUseCase) scanSubreddit(
	ctx context.Context,
	sub, query string,
	candidate model.Candidate,
	cutoff float64,
	minSimilarity float64,
	limiter *rate.Limiter,
) ([]model.Hit, error) {
	var hits []model.Hit
	seen := 0
	after := ""
	for seen < uc.cfg.MaxResultsPerQuery {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		var (
			page adapter.Page
			err  error
		)
		remaining := uc.cfg.MaxResultsPerQuery - seen
		if query != "" {
			page, err = uc.forum.Search(ctx, sub, query, after, remaining)
		} else {
			page, err = uc.forum.Recent(ctx, sub, after, remaining)
		}
		if err != nil {
			return nil, err
		}
		if len(page.Posts) == 0 {
			break
		}

		for _, post := range page.Posts {
			seen++
			if post.CreatedUTC != 0 && post.CreatedUTC < cutoff {
				continue
			}
			sim := similarity.Compare(candidate.Title, candidate.URL, post.Title, post.URL)
			if !sim.SameURL && sim.TitleScore < minSimilarity {
				continue
			}
			hits = append(hits, model.Hit{
				Subreddit:       post.Subreddit,
				ID:              post.ID,
				Permalink:       post.Permalink,
				Title:           post.Title,
				URL:             post.URL,
				CreatedUTC:      post.CreatedUTC,
				TitleSimilarity: round4(sim.TitleScore),
				SameURL:         sim.SameURL,
			})
			if seen >= uc.cfg.MaxResultsPerQuery {
				break
			}
		}
		if page.After == "" {
			break
		}
		after = page.After
	}
	return hits, nil
}

// persistOutcome ranks the hits, derives the draft and writes both documents.
func (uc *CheckUseCase) persistOutcome(ctx context.Context, job *model.CheckJob, candidate *model.Candidate, hits []model.Hit) *model.JobFailure {
	RankHits(hits)
	if len(hits) > maxPersistedHits {
		hits = hits[:maxPersistedHits]
	}

	draft := BuildDraft(*candidate, hits, job.MinTitleSimilarity, uc.now().UTC())

	completed := uc.now().UTC()
	out := model.ResultsDocument{
		JobID:              job.JobID,
		Status:             model.CheckStatusCompleted,
		Subreddits:         job.Subreddits,
		LookbackDays:       job.LookbackDays,
		MinTitleSimilarity: job.MinTitleSimilarity,
		Candidate:          candidate,
		Results:            hits,
		Draft:              &draft,
		CompletedAt:        &completed,
	}
	// The results document goes last: its existence is what marks a job's
	// output complete, so a write failure must not leave one behind.
	if err := uc.putJSON(ctx, uc.blobs.DraftPath(job.JobID), draft); err != nil {
		return &model.JobFailure{Code: model.FailurePersist, Message: err.Error()}
	}
	if err := uc.putJSON(ctx, job.ResultPath, out); err != nil {
		return &model.JobFailure{Code: model.FailurePersist, Message: err.Error()}
	}
	return nil
}

func (uc *CheckUseCase) putJSON(ctx context.Context, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return uc.blobs.Put(ctx, path, data)
}

// RankHits orders hits URL-matches first, then by title similarity descending.
func RankHits(hits []model.Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].SameURL != hits[j].SameURL {
			return hits[i].SameURL
		}
		return hits[i].TitleSimilarity > hits[j].TitleSimilarity
	})
}

// BuildDraft derives the go/no-go recommendation from the ranked hits. A
// strong duplicate (URL match, or similarity at or above max(min, 0.9))
// blocks the ready recommendation.
func BuildDraft(candidate model.Candidate, hits []model.Hit, minSimilarity float64, at time.Time) model.Draft {
	threshold := math.Max(minSimilarity, strongDupeFloor)
	strong := false
	for _, h := range hits {
		if h.SameURL || h.TitleSimilarity >= threshold {
			strong = true
			break
		}
	}

	title := strings.TrimSpace(candidate.Title)
	if r := []rune(title); len(r) > maxDraftTitleLen {
		title = string(r[:maxDraftTitleLen])
	}

	draft := model.Draft{
		Title:       title,
		URL:         candidate.URL,
		Notes:       candidate.Notes,
		GeneratedAt: at,
	}
	if strong {
		draft.Status = model.DraftStatusNeedsReview
		draft.Recommendation = "Review similar posts before posting."
	} else {
		draft.Status = model.DraftStatusReady
		draft.Recommendation = "No strong duplicates found in lookback window."
	}
	return draft
}

// scanTargets expands the subreddit list; a single "all" entry means one
// global scan target, not a subreddit literally named all.
func scanTargets(subs []string) []string {
	if len(subs) == 1 && strings.EqualFold(subs[0], "all") {
		return []string{"all"}
	}
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// buildQuery takes the first few whitespace-delimited title tokens; an empty
// result tells the scanner to fall back to the recent listing.
func buildQuery(title string) string {
	tokens := strings.Fields(title)
	if len(tokens) > maxQueryTokens {
		tokens = tokens[:maxQueryTokens]
	}
	return strings.Join(tokens, " ")
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
