package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/cobalt-lang/cobalt/internal/diagnostics"
)

// watch runs the command, then runs it again every time the file is written.
// It returns only when the watcher fails.
func (d *driver) watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// editors often replace the file instead of writing it, so the directory
	// is watched and events are filtered by name
	target, err := filepath.Abs(d.args.Path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	d.runOnce()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			d.logger.Debug().Str("file", ev.Name).Stringer("op", ev.Op).Msg("file changed")
			fmt.Fprintln(d.stdout, "---")
			d.runOnce()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (d *driver) runOnce() {
	err := d.run()
	switch {
	case err == nil:
		d.logger.Info().Str("file", d.args.Path).Msg("ok")
	case errors.Is(err, diagnostics.ErrCompilerErrorFound):
		d.logger.Info().Str("file", d.args.Path).Msg("errors found")
	default:
		d.logger.Error().Err(err).Msg("check failed")
	}
}
