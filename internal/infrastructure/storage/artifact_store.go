package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	domainRepo "github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/spf13/afero"
)

type artifactStore struct {
	fs afero.Fs
}

// NewArtifactStore stores artifacts as flat files at the root of fs
func NewArtifactStore(fs afero.Fs) domainRepo.ArtifactStore {
	return &artifactStore{fs: fs}
}

// NewLocalArtifactStore stores artifacts in dir on the local disk, creating it if needed
func NewLocalArtifactStore(dir string) (domainRepo.ArtifactStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return NewArtifactStore(afero.NewBasePathFs(osFs, dir)), nil
}

func (s *artifactStore) Write(ctx context.Context, key string, data []byte) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// write to a temp file and rename so readers never see a partial invoice
	tmp := name + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, name); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to store artifact %s: %w", key, err)
	}
	return nil
}

func (s *artifactStore) Exists(ctx context.Context, key string) (bool, error) {
	name, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, name)
}

func (s *artifactStore) Read(ctx context.Context, key string) ([]byte, error) {
	name, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, name)
	if os.IsNotExist(err) {
		return nil, domainRepo.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}
	return data, nil
}

// cleanKey only accepts plain file names
func cleanKey(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key != path.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid artifact key %q", key)
	}
	return "/" + key, nil
}
