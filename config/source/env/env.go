// Package env turns environment variables into a configuration document.
// With the default prefix PROPTREE_, the variable PROPTREE_FG_COLOR__RED=161
// becomes the property fg_color.red: names are lower cased and a double
// underscore separates nesting levels.
package env

import (
	"context"
	"os"
	"strings"

	"github.com/go-slark/proptree/archiver"
	"github.com/go-slark/proptree/archiver/xml"
	"github.com/go-slark/proptree/errors"
	"github.com/go-slark/proptree/logger"
	"github.com/go-slark/proptree/pkg/stringz"
)

const separator = "__"

type Env struct {
	prefix  []string
	environ func() []string
	ctx     context.Context
	cancel  context.CancelFunc
}

type Option func(*Env)

func Prefix(prefix ...string) Option {
	return func(e *Env) {
		e.prefix = prefix
	}
}

// Environ replaces os.Environ as the variable list.
func Environ(fn func() []string) Option {
	return func(e *Env) {
		e.environ = fn
	}
}

func New(opts ...Option) *Env {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Env{
		prefix:  []string{"PROPTREE_"},
		environ: os.Environ,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Env) Load() ([]byte, error) {
	root := archiver.NewScope(archiver.Root)
	for _, env := range e.environ() {
		key, value, _ := strings.Cut(env, "=")
		prefix, match := e.match(key)
		if !match || len(prefix) == len(key) {
			continue
		}
		path := strings.Split(strings.ToLower(strings.TrimPrefix(key, prefix)), separator)
		if !valid(path) {
			logger.Log(context.TODO(), logger.DebugLevel, logger.Fields(logger.Module("config/env"), logger.Path(key)), "skip variable")
			continue
		}
		if err := insert(root, path, value); err != nil {
			return nil, errors.FromError(err).WithMeta("variable", key)
		}
	}
	root.Sort()
	return archiver.Marshal(xml.New(), root)
}

func valid(path []string) bool {
	for _, seg := range path {
		if !stringz.IsName(seg) {
			return false
		}
	}
	return true
}

func insert(scope *archiver.Node, path []string, value string) error {
	for _, seg := range path[:len(path)-1] {
		child, ok := scope.Child(seg)
		if !ok {
			child = archiver.NewScope(seg)
			if err := scope.Add(child); err != nil {
				return err
			}
		}
		if child.IsLeaf() {
			return errors.StructureMismatch("variable nests below a value").WithMeta(errors.MetaPath, seg)
		}
		scope = child
	}
	return scope.Add(archiver.NewLeaf(path[len(path)-1], value))
}

func (e *Env) match(key string) (string, bool) {
	for _, prefix := range e.prefix {
		if strings.HasPrefix(key, prefix) {
			return prefix, true
		}
	}
	return "", false
}

// Watch never fires; the channel is closed by Close.
func (e *Env) Watch() <-chan struct{} {
	return e.ctx.Done()
}

func (e *Env) Close() error {
	e.cancel()
	return nil
}

func (e *Env) Format() string {
	return xml.Name
}
