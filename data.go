package smartdocs

import (
	"bytes"
	"io"
	"math"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ValueKind distinguishes the variants a Value can hold.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindText
	KindNumber
	KindFile
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindFile:
		return "file"
	default:
		return "null"
	}
}

// Value is the content stored for one field: text (which also carries
// YYYY-MM-DD dates), a finite number, a file reference, or null.
type Value struct {
	kind ValueKind
	text string
	num  float64
	file FileHandle
}

// Null returns the empty value.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric value. NaN and infinities become Null.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, num: f}
}

// File returns a value referencing h. A nil handle becomes Null.
func File(h FileHandle) Value {
	if h == nil {
		return Null()
	}
	return Value{kind: KindFile, file: h}
}

func (v Value) Kind() ValueKind { return v.kind }

// Float returns the number held by v and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// FileHandle returns the referenced file, or nil.
func (v Value) FileHandle() FileHandle { return v.file }

// IsEmpty reports whether v counts as unset for required-field checks.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindText:
		return strings.TrimSpace(v.text) == ""
	case KindNumber:
		return false
	case KindFile:
		return v.file == nil
	default:
		return true
	}
}

// String renders v the way it appears in generated documents.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindFile:
		return v.file.Name()
	default:
		return ""
	}
}

// FileHandle references a user-supplied file without holding its content.
// Open is called at most once per generation.
type FileHandle interface {
	Name() string
	Size() int64
	MimeType() string
	Open() (io.ReadCloser, error)
}

type memFile struct {
	name string
	mime string
	data []byte
}

// NewMemFile returns a handle over an in-memory file. An empty mimeType is
// derived from the file extension.
func NewMemFile(name, mimeType string, data []byte) FileHandle {
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(name))
	}
	return &memFile{name: name, mime: mimeType, data: data}
}

func (f *memFile) Name() string     { return f.name }
func (f *memFile) Size() int64      { return int64(len(f.data)) }
func (f *memFile) MimeType() string { return f.mime }

func (f *memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type pathFile struct {
	path string
	size int64
}

// NewPathFile returns a handle for a file on disk. The file is stat'ed now
// and only opened when a generator needs its content.
func NewPathFile(path string) (FileHandle, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &pathFile{path: path, size: fi.Size()}, nil
}

func (f *pathFile) Name() string { return filepath.Base(f.path) }
func (f *pathFile) Size() int64  { return f.size }

func (f *pathFile) MimeType() string {
	return mime.TypeByExtension(filepath.Ext(f.path))
}

func (f *pathFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// DocumentData maps field ids to values for one editing session. The zero
// value is ready to use. It is not safe for concurrent use; a session owns
// its record and hands out clones.
type DocumentData struct {
	values map[string]Value
}

// NewDocumentData returns a record pre-populated with values.
func NewDocumentData(values map[string]Value) DocumentData {
	d := DocumentData{values: make(map[string]Value, len(values))}
	for k, v := range values {
		d.values[k] = v
	}
	return d
}

// Set stores v under id, replacing any earlier value.
func (d *DocumentData) Set(id string, v Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	d.values[id] = v
}

// Get returns the value stored under id.
func (d DocumentData) Get(id string) (Value, bool) {
	v, ok := d.values[id]
	return v, ok
}

// Lookup returns the value stored under id, or Null when absent.
func (d DocumentData) Lookup(id string) Value {
	return d.values[id]
}

// Delete removes id.
func (d *DocumentData) Delete(id string) {
	delete(d.values, id)
}

func (d DocumentData) Len() int { return len(d.values) }

// Keys returns the stored ids in sorted order.
func (d DocumentData) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy. File handles are shared, not copied.
func (d DocumentData) Clone() DocumentData {
	return NewDocumentData(d.values)
}
