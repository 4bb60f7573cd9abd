package utils

import (
	"os"
	"path/filepath"
)

// LocalFileStore keeps rendered documents on local disk. Deployments point
// the services at the hosted storage collaborator instead.
type LocalFileStore struct {
	Root string
}

func (s *LocalFileStore) Save(ref string, data []byte) error {
	path := filepath.Join(s.Root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
