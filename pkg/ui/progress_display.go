package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// progressEvery is how often, in finished jobs, a counter line is printed
const progressEvery = 25

// ProgressDisplay reports download progress one line at a time
type ProgressDisplay struct {
	mu              sync.Mutex
	total           int
	done            int
	downloadedCount int
	skipped         int
	bytesDownloaded int64
	startTime       time.Time
	verbose         bool
}

// NewProgressDisplay creates a display for total jobs. In verbose mode
// skipped downloads are listed too.
func NewProgressDisplay(total int, verbose bool) *ProgressDisplay {
	return &ProgressDisplay{
		total:     total,
		startTime: time.Now(),
		verbose:   verbose,
	}
}

// CompleteDownload records a saved image
func (p *ProgressDisplay) CompleteDownload(fileName string, size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.downloadedCount++
	p.bytesDownloaded += size

	if !quiet {
		fmt.Fprintf(Output, "%s %s %s\n", Green("✓"), fileName, Dim(formatBytes(size)))
	}
	p.maybePrintCounter()
}

// SkipDownload records an image that was not saved
func (p *ProgressDisplay) SkipDownload(fileName string, reason error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.skipped++

	if p.verbose && !quiet {
		fmt.Fprintf(Output, "%s %s %s\n", Dim("·"), fileName, Dim(reason.Error()))
	}
	p.maybePrintCounter()
}

func (p *ProgressDisplay) maybePrintCounter() {
	if quiet || p.done%progressEvery != 0 || p.done == p.total {
		return
	}
	fmt.Fprintf(Output, "%s %s\n", Magenta("→"), p.counterLine())
}

func (p *ProgressDisplay) counterLine() string {
	const width = 20
	filled := 0
	if p.total > 0 {
		filled = p.done * width / p.total
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
	return fmt.Sprintf("[%s] %d/%d • %d saved • %d skipped", bar, p.done, p.total, p.downloadedCount, p.skipped)
}

// Complete prints the final summary
func (p *ProgressDisplay) Complete(outputDir string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if quiet {
		return
	}

	elapsed := time.Since(p.startTime)
	fmt.Fprintf(Output, "\n%s Downloaded %d images\n", Green("✓"), p.downloadedCount)
	fmt.Fprintf(Output, "  %s %s in %s\n", Dim("•"), formatBytes(p.bytesDownloaded), formatDuration(elapsed))
	if p.skipped > 0 {
		fmt.Fprintf(Output, "  %s %d images not available\n", Dim("•"), p.skipped)
	}
	fmt.Fprintf(Output, "  %s saved to %s\n", Dim("•"), outputDir)
}

// Counts returns saved and skipped totals so far
func (p *ProgressDisplay) Counts() (downloaded, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.downloadedCount, p.skipped
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// formatBytes formats bytes in a human-readable way
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
