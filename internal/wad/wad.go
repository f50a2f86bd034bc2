package wad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gitlab.com/edge-engine/roqplay/internal/helper"
)

const (
	headerSize = 12
	entrySize  = 16

	// NameLength is the fixed width of a lump name in the directory.
	NameLength = 8
)

var (
	// ErrMalformed is returned when the archive header or directory is
	// inconsistent with the file it was read from.
	ErrMalformed = errors.New("malformed wad")

	magicIWAD = []byte("IWAD")
	magicPWAD = []byte("PWAD")
)

// Lump describes a single directory entry.
type Lump struct {
	Name   string
	Offset int64
	Size   int64
}

// Archive is a parsed WAD directory on top of a random access reader.
type Archive struct {
	r      io.ReaderAt
	closer io.Closer
	kind   string
	lumps  []Lump
}

// Open parses the WAD file at path. The caller must Close the archive.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	a, err := New(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	a.closer = f

	return a, nil
}

// New parses a WAD directory from r, which holds size bytes.
func New(r io.ReaderAt, size int64) (*Archive, error) {
	var header [headerSize]byte
	if size < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrMalformed, size)
	}
	if err := readAt(r, header[:], 0); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	magic := header[0:4]
	if !bytes.Equal(magic, magicIWAD) && !bytes.Equal(magic, magicPWAD) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrMalformed, magic)
	}

	numLumps := int64(int32(binary.LittleEndian.Uint32(header[4:8])))
	tableOffset := int64(int32(binary.LittleEndian.Uint32(header[8:12])))

	if numLumps < 0 || tableOffset < 0 {
		return nil, fmt.Errorf("%w: negative directory (%d lumps at %d)", ErrMalformed, numLumps, tableOffset)
	}
	if tableOffset+numLumps*entrySize > size {
		return nil, fmt.Errorf("%w: directory of %d lumps at %d runs past end of file (%d bytes)", ErrMalformed, numLumps, tableOffset, size)
	}

	table := make([]byte, numLumps*entrySize)
	if err := readAt(r, table, tableOffset); err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	lumps := make([]Lump, numLumps)
	for i := range lumps {
		entry := table[i*entrySize : (i+1)*entrySize]

		l := Lump{
			Offset: int64(int32(binary.LittleEndian.Uint32(entry[0:4]))),
			Size:   int64(int32(binary.LittleEndian.Uint32(entry[4:8]))),
			Name:   lumpName(entry[8:16]),
		}

		if l.Offset < 0 || l.Size < 0 || l.Offset+l.Size > size {
			return nil, fmt.Errorf("%w: lump %d (%q) at %d+%d is out of bounds", ErrMalformed, i, l.Name, l.Offset, l.Size)
		}

		lumps[i] = l
	}

	return &Archive{r: r, kind: string(magic), lumps: lumps}, nil
}

func lumpName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToUpper(string(raw))
}

// Kind returns "IWAD" or "PWAD".
func (a *Archive) Kind() string { return a.kind }

// Lumps returns the directory in archive order.
func (a *Archive) Lumps() []Lump {
	return append([]Lump(nil), a.lumps...)
}

// Find looks up a lump by name, ignoring case. When several lumps share a
// name the last one wins, so later entries override earlier ones.
func (a *Archive) Find(name string) (Lump, bool) {
	name = strings.ToUpper(name)
	for i := len(a.lumps) - 1; i >= 0; i-- {
		if a.lumps[i].Name == name {
			return a.lumps[i], true
		}
	}
	return Lump{}, false
}

// Load reads the named lump fully into memory.
func (a *Archive) Load(name string) ([]byte, error) {
	if name == "" || len(name) > NameLength {
		return nil, helper.ErrInvalidArgumentf("wad: invalid lump name %q", name)
	}

	l, ok := a.Find(name)
	if !ok {
		return nil, helper.ErrNotFoundf("wad: lump %q not found", name)
	}

	return a.ReadLump(l)
}

// ReadLump reads the data of a directory entry.
func (a *Archive) ReadLump(l Lump) ([]byte, error) {
	data := make([]byte, l.Size)
	if err := readAt(a.r, data, l.Offset); err != nil {
		return nil, fmt.Errorf("read lump %q: %w", l.Name, err)
	}

	return data, nil
}

// readAt fills p from r at off. io.ReaderAt may report io.EOF together with
// a complete read at the end of the input, which is not an error here.
func readAt(r io.ReaderAt, p []byte, off int64) error {
	if len(p) == 0 {
		return nil
	}

	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Close releases the underlying file, if the archive owns one.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
