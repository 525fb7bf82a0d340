package downloader

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "cardcrawl/pkg/errors"
	"cardcrawl/pkg/logger"
)

// Variant is one image flavour published per card
type Variant struct {
	Label  string
	Suffix string
}

// BaseVariant is the plain card image
var BaseVariant = Variant{Label: "base", Suffix: ""}

// EvolutionVariant returns the evolved-card image variant
func EvolutionVariant(suffix string) Variant {
	return Variant{Label: "evolution", Suffix: suffix}
}

// DownloadJob represents a single image request
type DownloadJob struct {
	Identifier string
	Variant    Variant
	URL        string
	// Name is the stored file name without extension
	Name string
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      DownloadJob
	Success  bool
	Error    error
	Duration time.Duration
	Size     int
}

// Stats summarises a run
type Stats struct {
	Attempted  int
	Downloaded int
	Skipped    int
}

// ImageFetcher retrieves one image body
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageStorage persists one image body
type ImageStorage interface {
	Save(name string, body []byte) error
}

// BuildJobs expands identifiers into one job per variant, keeping
// identifier order and, within an identifier, variant order.
func BuildJobs(identifiers []string, imageBaseURL, extension string, variants []Variant) []DownloadJob {
	base := strings.TrimRight(imageBaseURL, "/")
	jobs := make([]DownloadJob, 0, len(identifiers)*len(variants))

	for _, id := range identifiers {
		for _, v := range variants {
			name := id + v.Suffix
			jobs = append(jobs, DownloadJob{
				Identifier: id,
				Variant:    v,
				URL:        base + "/" + name + extension,
				Name:       name,
			})
		}
	}
	return jobs
}

// Runner downloads jobs one after another.
// A failed job is logged and skipped; it never stops the run.
type Runner struct {
	client   ImageFetcher
	storage  ImageStorage
	logger   logger.Logger
	onResult func(DownloadResult)
}

// NewRunner creates a sequential download runner
func NewRunner(client ImageFetcher, storage ImageStorage, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Runner{
		client:  client,
		storage: storage,
		logger:  log.WithField("component", "downloader"),
	}
}

// OnResult registers a callback invoked after every job
func (r *Runner) OnResult(fn func(DownloadResult)) {
	r.onResult = fn
}

// Run processes jobs in order and returns the tally. Item failures
// (network, status, storage) are skipped. It stops early when ctx is
// cancelled or a job fails in any other way, returning the tally so far.
func (r *Runner) Run(ctx context.Context, jobs []DownloadJob) (Stats, error) {
	var stats Stats

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		result := r.processJob(ctx, job)
		if result.Error != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			if !apperrors.IsItemFailure(result.Error) {
				return stats, fmt.Errorf("download %s: %w", job.URL, result.Error)
			}
		}

		stats.Attempted++
		if result.Success {
			stats.Downloaded++
		} else {
			stats.Skipped++
		}

		if r.onResult != nil {
			r.onResult(result)
		}
	}

	return stats, nil
}

// processJob handles a single download job
func (r *Runner) processJob(ctx context.Context, job DownloadJob) DownloadResult {
	start := time.Now()
	result := DownloadResult{Job: job}

	data, err := r.client.Fetch(ctx, job.URL)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		if apperrors.IsItemFailure(err) && ctx.Err() == nil {
			r.logFailure(job, err)
		}
		return result
	}

	result.Size = len(data)

	if err := r.storage.Save(job.Name, data); err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		r.logFailure(job, err)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)

	logger.LogDownload(r.logger.WithFields(map[string]interface{}{
		"size":     result.Size,
		"duration": result.Duration,
	}), job.Identifier, job.Variant.Label, true, nil)

	return result
}

func (r *Runner) logFailure(job DownloadJob, err error) {
	entry := r.logger.WithFields(map[string]interface{}{
		"url":  job.URL,
		"kind": string(apperrors.TypeOf(err)),
	})
	logger.LogDownload(entry, job.Identifier, job.Variant.Label, false, err)
}
