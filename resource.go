package email

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// ErrSourceConsumed is returned by ReaderSource.Open after the first call.
var ErrSourceConsumed = errors.New("data source has already been read")

// DataSource supplies the content of a Resource.
type DataSource interface {
	// Name is the name the data came with, often a file name. It may be
	// empty.
	Name() string

	// ContentType is the declared media type. It may be empty when unknown.
	ContentType() string

	// Open returns the content.
	Open() (io.ReadCloser, error)
}

// Identifier is implemented by data sources that can name their content, so
// two sources with equal content are one resource.
type Identifier interface {
	Identity() string
}

// BytesSource holds its content in memory.
type BytesSource struct {
	name        string
	contentType string
	data        []byte
}

var _ DataSource = (*BytesSource)(nil)

// NewBytesSource returns a source for data. An empty contentType is filled
// in by sniffing the data.
func NewBytesSource(name, contentType string, data []byte) *BytesSource {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	return &BytesSource{name, contentType, data}
}

func (s *BytesSource) Name() string        { return s.name }
func (s *BytesSource) ContentType() string { return s.contentType }

// Bytes returns the content. Do not modify it.
func (s *BytesSource) Bytes() []byte { return s.data }

// Open returns a reader over the content. It may be called any number of
// times.
func (s *BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

// Identity is the SHA-256 of the content.
func (s *BytesSource) Identity() string {
	sum := sha256.Sum256(s.data)
	return hex.EncodeToString(sum[:])
}

// FileSource reads its content from a file each time it is opened.
type FileSource struct {
	path        string
	contentType string
}

var _ DataSource = (*FileSource)(nil)

// NewFileSource returns a source for the file at path. An empty contentType
// is detected from the file content.
func NewFileSource(path, contentType string) (*FileSource, error) {
	if contentType == "" {
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to detect content type of %q: %w", path, err)
		}
		contentType = mt.String()
	}
	return &FileSource{path, contentType}, nil
}

// Name is the base name of the file.
func (s *FileSource) Name() string        { return filepath.Base(s.path) }
func (s *FileSource) ContentType() string { return s.contentType }

func (s *FileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

// Identity is the cleaned file path.
func (s *FileSource) Identity() string {
	return "file:" + filepath.Clean(s.path)
}

// ReaderSource hands out a stream exactly once. Parsing without fetching
// attachment data produces these.
type ReaderSource struct {
	name        string
	contentType string

	mu sync.Mutex
	r  io.Reader
}

var _ DataSource = (*ReaderSource)(nil)

// NewReaderSource returns a source over r.
func NewReaderSource(name, contentType string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, contentType: contentType, r: r}
}

func (s *ReaderSource) Name() string        { return s.name }
func (s *ReaderSource) ContentType() string { return s.contentType }

// Open returns the stream, or ErrSourceConsumed if it was handed out already.
func (s *ReaderSource) Open() (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil {
		return nil, ErrSourceConsumed
	}

	r := s.r
	s.r = nil
	if rc, ok := r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(r), nil
}

// Resource is a named piece of content to embed or attach.
type Resource struct {
	// Name is the preferred name. When empty, the data source name is used.
	Name   string
	Source DataSource

	// Description becomes Content-Description.
	Description string

	// TransferEncoding becomes Content-Transfer-Encoding. Empty means base64.
	TransferEncoding string
}

// ResourceKey identifies a resource by name and content.
type ResourceKey struct {
	Name     string
	Identity string
}

// Key returns the identity of the resource. Content identity comes from the
// source when it is an Identifier and is the source itself otherwise.
func (r Resource) Key() ResourceKey {
	k := ResourceKey{Name: r.Name}
	switch s := r.Source.(type) {
	case nil:
	case Identifier:
		k.Identity = s.Identity()
	default:
		k.Identity = fmt.Sprintf("%T@%p", s, s)
	}
	return k
}

// ResourceSet is an insertion-ordered set of resources keyed by Key.
type ResourceSet struct {
	items []Resource
	index map[ResourceKey]int
}

// NewResourceSet returns a set holding rs, duplicates dropped.
func NewResourceSet(rs ...Resource) *ResourceSet {
	s := &ResourceSet{}
	for _, r := range rs {
		s.Add(r)
	}
	return s
}

// Add appends r unless an equal resource is present. It reports whether r
// was added.
func (s *ResourceSet) Add(r Resource) bool {
	if s.index == nil {
		s.index = map[ResourceKey]int{}
	}

	k := r.Key()
	if _, ok := s.index[k]; ok {
		return false
	}

	s.index[k] = len(s.items)
	s.items = append(s.items, r)
	return true
}

// Contains reports whether an equal resource is present.
func (s *ResourceSet) Contains(r Resource) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[r.Key()]
	return ok
}

// Len returns the number of resources.
func (s *ResourceSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns a copy of the resources in insertion order.
func (s *ResourceSet) Items() []Resource {
	if s == nil {
		return nil
	}
	return append([]Resource(nil), s.items...)
}
