// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download filters scored paper records by a threshold and saves the
// PDF of every qualifying paper as <dest>/<index>.pdf, where index is the
// record's position in the records file.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/paperscout/internal/httputil"
	"github.com/pdiddy/paperscout/internal/records"
	"github.com/pdiddy/paperscout/pkg/types"
)

// DefaultThreshold is the minimum score downloaded when none is configured.
const DefaultThreshold = 50

// Decision says what happens to one record.
type Decision int

const (
	Download Decision = iota
	BelowThreshold
	NoScore
)

func (d Decision) String() string {
	switch d {
	case Download:
		return "download"
	case BelowThreshold:
		return "below threshold"
	case NoScore:
		return "unscored"
	default:
		return "unknown"
	}
}

// Decide applies the threshold to one record. The threshold is inclusive and
// a record without a score is never downloaded.
func Decide(r types.PaperRecord, threshold int) Decision {
	switch {
	case !r.Scored():
		return NoScore
	case *r.Score < threshold:
		return BelowThreshold
	default:
		return Download
	}
}

// Select returns the positions of records that qualify for download, in order.
func Select(recs []types.PaperRecord, threshold int) []int {
	var idx []int
	for i, r := range recs {
		if Decide(r, threshold) == Download {
			idx = append(idx, i)
		}
	}
	return idx
}

// FileName is the positional output name for the record at index i.
func FileName(i int) string {
	return strconv.Itoa(i) + ".pdf"
}

// Summary holds the outcome of a download run.
type Summary struct {
	Downloaded     int
	BelowThreshold int
	Unscored       int
	Paths          []string
}

// Total returns the number of records considered.
func (s Summary) Total() int {
	return s.Downloaded + s.BelowThreshold + s.Unscored
}

// Downloader fetches qualifying PDFs one at a time.
type Downloader struct {
	Client    *http.Client
	UserAgent string
	DestDir   string
	Threshold int
}

// New returns a Downloader for the configured destination and threshold.
func New(client *http.Client, cfg types.DownloadConfig, httpCfg types.HTTPConfig) *Downloader {
	return &Downloader{
		Client:    client,
		UserAgent: httpCfg.UserAgent,
		DestDir:   cfg.DestDir,
		Threshold: cfg.Threshold,
	}
}

// DownloadFile loads the records at path and runs Download over them. The
// records file must already exist.
func (d *Downloader) DownloadFile(ctx context.Context, path string, w io.Writer) (Summary, error) {
	recs, err := records.Load(path)
	if err != nil {
		return Summary{}, eris.Wrap(err, "download: loading records")
	}
	return d.Download(ctx, recs, w)
}

// Download writes every record scoring at or above the threshold to
// DestDir/<index>.pdf, replacing existing files. Records below the
// threshold or without a score are skipped. The first HTTP or write failure
// stops the run; files already written stay in place.
func (d *Downloader) Download(ctx context.Context, recs []types.PaperRecord, w io.Writer) (Summary, error) {
	var summary Summary

	if err := os.MkdirAll(d.DestDir, 0o755); err != nil {
		return summary, eris.Wrapf(err, "download: creating directory %s", d.DestDir)
	}

	for i, r := range recs {
		switch Decide(r, d.Threshold) {
		case NoScore:
			summary.Unscored++
			zap.L().Debug("download: skipping unscored record", zap.Int("index", i), zap.String("title", r.Title))
			continue
		case BelowThreshold:
			summary.BelowThreshold++
			continue
		}

		dest := filepath.Join(d.DestDir, FileName(i))
		fmt.Fprintf(w, "downloading: %s (score %d) -> %s\n", r.Title, *r.Score, dest)

		if err := d.fetch(ctx, r.URL, dest); err != nil {
			return summary, eris.Wrapf(err, "download: paper %d (%s)", i, r.Title)
		}
		summary.Downloaded++
		summary.Paths = append(summary.Paths, dest)
	}

	fmt.Fprintf(w, "\nDownload summary: %d downloaded, %d below threshold %d, %d unscored (total: %d)\n",
		summary.Downloaded, summary.BelowThreshold, d.Threshold, summary.Unscored, summary.Total())
	return summary, nil
}

// fetch streams url into destPath through a temporary file in the same
// directory, renamed into place on success.
func (d *Downloader) fetch(ctx context.Context, url, destPath string) error {
	resp, err := httputil.Get(ctx, d.Client, url, d.UserAgent, "application/pdf")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return eris.Wrap(err, "creating temp file")
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return eris.Wrap(copyErr, "writing download")
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return eris.Wrap(closeErr, "closing temp file")
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return eris.Wrap(err, "renaming temp file")
	}
	return nil
}
