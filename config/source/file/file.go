// Package file reads a configuration document from disk and signals changes
// with fsnotify. The archiver format is taken from the file extension unless
// set with Format.
package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-slark/proptree/archiver"
	_ "github.com/go-slark/proptree/archiver/msgpack"
	_ "github.com/go-slark/proptree/archiver/toml"
	_ "github.com/go-slark/proptree/archiver/xml"
	_ "github.com/go-slark/proptree/archiver/yaml"
	"github.com/go-slark/proptree/logger"
	"github.com/go-slark/proptree/pkg/routine"
)

type Option func(*File)

// Format overrides the archiver name derived from the extension.
func Format(name string) Option {
	return func(f *File) {
		f.format = name
	}
}

type File struct {
	path   string
	dir    string
	format string
	notify chan struct{}
	done   chan struct{}

	watchOnce sync.Once
	closeOnce sync.Once
	watching  bool
}

func New(path string, opts ...Option) *File {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	} else {
		logger.Log(context.TODO(), logger.ErrorLevel, logger.Fields(logger.Path(path), logger.Error(err)), "file path")
	}
	f := &File{
		path:   path,
		dir:    filepath.Dir(path),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.format == "" {
		ext := filepath.Ext(path)
		if ar := archiver.ByExtension(ext); ar != nil {
			f.format = ar.Name()
		} else {
			f.format = strings.TrimPrefix(ext, ".")
		}
	}
	return f
}

func (f *File) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

// Watch starts watching the directory of the file on first call. The channel
// is closed by Close.
func (f *File) Watch() <-chan struct{} {
	f.watchOnce.Do(func() {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Log(context.TODO(), logger.ErrorLevel, logger.Fields(logger.Module("config/file"), logger.Error(err)), "file watch")
			return
		}
		if err = w.Add(f.dir); err != nil {
			_ = w.Close()
			logger.Log(context.TODO(), logger.ErrorLevel, logger.Fields(logger.Module("config/file"), logger.Path(f.dir), logger.Error(err)), "file watch")
			return
		}
		f.watching = true
		routine.GoSafe(context.TODO(), func() {
			f.watch(w)
		})
	})
	return f.notify
}

func (f *File) watch(w *fsnotify.Watcher) {
	defer close(f.notify)
	defer w.Close()

	// we only care about the config file being written or (re)created,
	// editors often replace the file instead of writing it
	const writeOrCreateMask = fsnotify.Write | fsnotify.Create
	for {
		select {
		case <-f.done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op&writeOrCreateMask == 0 || filepath.Clean(event.Name) != f.path {
				continue
			}
			logger.Log(context.TODO(), logger.DebugLevel, logger.Fields(logger.Module("config/file"), logger.Path(event.Name)), "file modify")
			select {
			case f.notify <- struct{}{}:
			default:
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Log(context.TODO(), logger.ErrorLevel, logger.Fields(logger.Module("config/file"), logger.Error(err)), "file watch error")
		}
	}
}

func (f *File) Close() error {
	f.closeOnce.Do(func() {
		close(f.done)
		// the watch goroutine owns notify once started
		f.watchOnce.Do(func() {})
		if !f.watching {
			close(f.notify)
		}
	})
	return nil
}

func (f *File) Format() string {
	return f.format
}

func (f *File) Path() string {
	return f.path
}
