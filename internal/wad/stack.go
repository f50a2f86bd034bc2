package wad

import (
	"gitlab.com/edge-engine/roqplay/internal/helper"
)

// Stack layers archives in load order. A lump in a later archive replaces a
// lump of the same name in an earlier one, the way PWADs patch an IWAD.
type Stack []*Archive

// OpenStack opens every archive in paths. On failure the archives opened so
// far are closed again.
func OpenStack(paths []string) (Stack, error) {
	s := make(Stack, 0, len(paths))
	for _, path := range paths {
		a, err := Open(path)
		if err != nil {
			s.Close()
			return nil, err
		}
		s = append(s, a)
	}
	return s, nil
}

// Load reads the named lump from the last archive containing it.
func (s Stack) Load(name string) ([]byte, error) {
	if name == "" || len(name) > NameLength {
		return nil, helper.ErrInvalidArgumentf("wad: invalid lump name %q", name)
	}

	for i := len(s) - 1; i >= 0; i-- {
		if l, ok := s[i].Find(name); ok {
			return s[i].ReadLump(l)
		}
	}

	return nil, helper.ErrNotFoundf("wad: lump %q not found in %d archives", name, len(s))
}

// Close closes every archive, returning the first error.
func (s Stack) Close() error {
	var first error
	for _, a := range s {
		if err := a.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
