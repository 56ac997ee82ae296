package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/jera/internal/legacy"
)

// EventCallback is called after a batch file has been imported.
type EventCallback func(file string, sum *Summary)

// Watch starts an fsnotify watcher on the import drop directory and imports
// batch files as they appear, until ctx is cancelled. Pending files already
// in the directory are processed on startup. Writes are debounced so a file
// still being copied in is only picked up once it settles.
func Watch(ctx context.Context, im *Importer, provider legacy.Provider, dir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("import watcher: started", slog.String("dir", dir))

	// Drain anything left over from a previous run.
	ProcessPending(ctx, im, provider, logger, cb)

	var settleTimer *time.Timer
	var settleCh <-chan time.Time
	scheduleScan := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(500 * time.Millisecond)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(500 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("import watcher: stopped")
			return nil

		case <-settleCh:
			ProcessPending(ctx, im, provider, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			scheduleScan()

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("import watcher: error", slog.String("error", werr.Error()))
		}
	}
}

// ProcessPending imports and archives every pending batch file. Failures on
// one file are logged and do not stop the others.
func ProcessPending(ctx context.Context, im *Importer, provider legacy.Provider, logger *slog.Logger, cb EventCallback) {
	metas, err := provider.List()
	if err != nil {
		logger.Warn("import: list pending failed", slog.String("error", err.Error()))
		return
	}
	for _, m := range metas {
		if ctx.Err() != nil {
			return
		}
		sum, err := importFile(ctx, im, provider, m.Path)
		if err != nil {
			logger.Warn("import: batch file failed",
				slog.String("file", m.Path),
				slog.String("error", err.Error()))
			continue
		}
		if err := provider.Archive(m.Path); err != nil {
			logger.Warn("import: archive failed",
				slog.String("file", m.Path),
				slog.String("error", err.Error()))
		}
		logger.Info("import: batch file done",
			slog.String("file", m.Path),
			slog.Int("total", sum.Total),
			slog.Int("successful", sum.Successful),
			slog.Int("failed", sum.Failed),
			slog.Int("skipped", sum.Skipped))
		if cb != nil {
			cb(m.Path, sum)
		}
	}
}

func importFile(ctx context.Context, im *Importer, provider legacy.Provider, path string) (*Summary, error) {
	data, err := provider.Read(path)
	if err != nil {
		return nil, err
	}
	records, err := DecodeBatch(data)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, records)
}

// DecodeBatch accepts either a bare JSON array of records or an object with
// a "records" field, which is the shape the legacy export writes.
func DecodeBatch(data []byte) ([]Record, error) {
	var wrapper struct {
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Records != nil {
		return wrapper.Records, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("importer: decode batch: %w", err)
	}
	return records, nil
}
