package pipeline

import (
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/filesystem"
	"github.com/productbrew/fnbundle/pkg/types"
)

// fileState is the content of a file before the pipeline touched it
type fileState struct {
	path    string
	data    []byte
	existed bool
}

// snapshot holds the files Deploy rewrites
type snapshot struct {
	fs    types.FS
	files []fileState
}

func (p *Pipeline) snapshot(fn types.Function) (*snapshot, error) {
	s := &snapshot{fs: p.fs}
	for _, path := range []string{fn.ManifestPath, fn.LockfilePath} {
		ok, err := filesystem.Exists(p.fs, path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", path)
		}
		state := fileState{path: path, existed: ok}
		if ok {
			if state.data, err = p.fs.ReadFile(path); err != nil {
				return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
			}
		}
		s.files = append(s.files, state)
	}
	p.logger.Debug().Str("function", fn.Name).Msg("Snapshot taken for restore")
	return s, nil
}

// restore puts every file back, removing the ones that did not exist
func (s *snapshot) restore() error {
	for _, f := range s.files {
		if f.existed {
			if err := filesystem.WriteFile(s.fs, f.path, f.data, 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to restore %s", f.path)
			}
			continue
		}
		ok, err := filesystem.Exists(s.fs, f.path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", f.path)
		}
		if ok {
			if err := s.fs.Remove(f.path); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to remove %s", f.path)
			}
		}
	}
	return nil
}
