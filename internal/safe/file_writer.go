package safe

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
)

// ErrAlreadyDone is returned when the file was already committed or closed.
var ErrAlreadyDone = errors.New("safe file was already committed or closed")

// FileWriter writes to a temporary file next to the target and only
// replaces the target on Commit, so readers never see a partial lump.
type FileWriter struct {
	tmp  *os.File
	path string
	once sync.Once
}

// CreateFileWriter starts a write to path.
func CreateFileWriter(path string) (*FileWriter, error) {
	tmp, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}

	return &FileWriter{tmp: tmp, path: path}, nil
}

func (fw *FileWriter) Write(p []byte) (int, error) {
	return fw.tmp.Write(p)
}

// Commit syncs the temporary file and renames it over the target. Only the
// first call to Commit or Close has an effect.
func (fw *FileWriter) Commit() error {
	err := ErrAlreadyDone

	fw.once.Do(func() {
		if err = fw.tmp.Sync(); err != nil {
			err = fmt.Errorf("sync temp file: %w", err)
			fw.discard()
			return
		}

		if err = fw.tmp.Close(); err != nil {
			err = fmt.Errorf("close temp file: %w", err)
			os.Remove(fw.tmp.Name())
			return
		}

		if err = os.Rename(fw.tmp.Name(), fw.path); err != nil {
			err = fmt.Errorf("rename temp file: %w", err)
			os.Remove(fw.tmp.Name())
			return
		}

		if err = syncDir(filepath.Dir(fw.path)); err != nil {
			err = fmt.Errorf("sync dir: %w", err)
		}
	})

	return err
}

// Close drops the temporary file without touching the target.
func (fw *FileWriter) Close() error {
	err := ErrAlreadyDone
	fw.once.Do(func() { err = fw.discard() })
	return err
}

func (fw *FileWriter) discard() error {
	if err := fw.tmp.Close(); err != nil {
		return err
	}
	if err := os.Remove(fw.tmp.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Sync()
}
