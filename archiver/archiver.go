// Package archiver defines the contract between property traversal and the
// document formats it is written to and read from.
//
// Saving drives an Encoder with Enter/Leaf/Leave calls in canonical order.
// Loading asks the archiver to Decode a document into a Node tree, which the
// traversal then reads by name. Backends live in subpackages and register
// themselves by name when imported:
//
//	import _ "github.com/go-slark/proptree/archiver/xml"
package archiver

import (
	"sort"
	"strings"
	"sync"
)

// Root is the name of the outermost scope of every document.
const Root = "properties"

type Archiver interface {
	Name() string
	NewEncoder() Encoder
	Decode(data []byte) (*Node, error)
}

// Encoder accumulates one document. Calls must be balanced: every Enter is
// matched by a Leave with the same name.
type Encoder interface {
	Enter(name string) error
	Leave(name string) error
	Leaf(name, value string) error
	Bytes() ([]byte, error)
}

var (
	mu        sync.RWMutex
	archivers = make(map[string]Archiver)
	exts      = make(map[string]string)
)

func Register(ar Archiver, extensions ...string) {
	if ar == nil || len(ar.Name()) == 0 {
		panic("cannot register nil or empty name Archiver")
	}

	mu.Lock()
	defer mu.Unlock()
	name := strings.ToLower(ar.Name())
	archivers[name] = ar
	for _, ext := range extensions {
		exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = name
	}
}

func Get(name string) Archiver {
	mu.RLock()
	defer mu.RUnlock()
	return archivers[strings.ToLower(name)]
}

// ByExtension resolves a file extension such as ".yml" to an archiver.
func ByExtension(ext string) Archiver {
	mu.RLock()
	defer mu.RUnlock()
	name, ok := exts[strings.ToLower(strings.TrimPrefix(ext, "."))]
	if !ok {
		return nil
	}
	return archivers[name]
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(archivers))
	for name := range archivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
