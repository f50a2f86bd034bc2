package testhelper

import (
	"bytes"
	"encoding/binary"
	"io/ioutil"
	"path/filepath"
	"testing"
)

// TestLump is a named lump used to build WAD fixtures.
type TestLump struct {
	Name string
	Data []byte
}

// BuildWAD assembles a PWAD holding lumps in order. The directory follows
// the lump data, as most WAD tools write it.
func BuildWAD(lumps ...TestLump) []byte {
	return buildWAD("PWAD", lumps)
}

// BuildIWAD is like BuildWAD but marks the archive as an IWAD.
func BuildIWAD(lumps ...TestLump) []byte {
	return buildWAD("IWAD", lumps)
}

func buildWAD(magic string, lumps []TestLump) []byte {
	var body bytes.Buffer
	offsets := make([]int, len(lumps))

	for i, l := range lumps {
		offsets[i] = 12 + body.Len()
		body.Write(l.Data)
	}

	var out bytes.Buffer
	out.WriteString(magic)
	binary.Write(&out, binary.LittleEndian, int32(len(lumps)))
	binary.Write(&out, binary.LittleEndian, int32(12+body.Len()))
	out.Write(body.Bytes())

	for i, l := range lumps {
		var name [8]byte
		copy(name[:], l.Name)

		binary.Write(&out, binary.LittleEndian, int32(offsets[i]))
		binary.Write(&out, binary.LittleEndian, int32(len(l.Data)))
		out.Write(name[:])
	}

	return out.Bytes()
}

// WriteWAD writes a PWAD holding lumps into a temporary directory and
// returns its path.
func WriteWAD(t testing.TB, lumps ...TestLump) string {
	t.Helper()

	path := filepath.Join(TempDir(t), "test.wad")
	if err := ioutil.WriteFile(path, BuildWAD(lumps...), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}
