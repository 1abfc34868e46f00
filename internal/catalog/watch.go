package catalog

import (
	"context"
	"os"
	"time"
)

// fileState is what a scan remembers per path. A missing file has the zero value.
type fileState struct {
	mtime time.Time
	size  int64
}

// FileWatcher polls catalog files and reports, once per tick, every path whose
// mtime or size moved since the previous tick. Files that appear or disappear
// count as changed.
type FileWatcher struct {
	paths    []string
	interval time.Duration
	onChange func(changed []string)
	seen     map[string]fileState
}

func NewFileWatcher(paths []string, interval time.Duration, onChange func(changed []string)) *FileWatcher {
	return &FileWatcher{
		paths:    append([]string(nil), paths...),
		interval: interval,
		onChange: onChange,
		seen:     make(map[string]fileState, len(paths)),
	}
}

// Run polls until ctx is done. It always returns nil so it can sit in an errgroup.
func (w *FileWatcher) Run(ctx context.Context) error {
	w.scan() // baseline, never reported

	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if changed := w.scan(); len(changed) > 0 && w.onChange != nil {
				w.onChange(changed)
			}
		}
	}
}

func (w *FileWatcher) scan() []string {
	var changed []string
	for _, p := range w.paths {
		var cur fileState
		if fi, err := os.Stat(p); err == nil {
			cur = fileState{mtime: fi.ModTime(), size: fi.Size()}
		}
		prev, ok := w.seen[p]
		w.seen[p] = cur
		if ok && cur != prev {
			changed = append(changed, p)
		}
	}
	return changed
}
