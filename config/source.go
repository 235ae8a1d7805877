package config

// Source yields a document in the archiver format named by Format.
type Source interface {
	Load() ([]byte, error)
	Watch() <-chan struct{}
	Close() error
	Format() string
}
