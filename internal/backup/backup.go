// Package backup archives the SQLite session store, with an optional config
// file, to a tar.gz and restores it again.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HerbHall/comparenet/internal/store"
)

// ErrExists is returned by Restore when a target file exists and force is
// not set.
var ErrExists = errors.New("file already exists")

// Backup snapshots s with VACUUM INTO, so the store can keep serving while
// the archive is written, and packs the snapshot under dbName together with
// configPath when that file exists.
func Backup(ctx context.Context, s *store.SQLiteStore, dbName, configPath, outputPath string) error {
	tmp, err := os.MkdirTemp("", "comparenet-backup-*")
	if err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	snapshot := filepath.Join(tmp, dbName)
	if _, err := s.DB().ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return fmt.Errorf("snapshot database: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	gw := gzip.NewWriter(out)
	tw := tar.NewWriter(gw)

	err = addFile(tw, snapshot, dbName)
	if err == nil && configPath != "" {
		if _, statErr := os.Stat(configPath); statErr == nil {
			err = addFile(tw, configPath, filepath.Base(configPath))
		}
	}
	for _, c := range []io.Closer{tw, gw, out} {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}

// Restore extracts the archive at input into dir. Existing files are only
// replaced when force is set.
func Restore(_ context.Context, input, dir string, force bool) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := filepath.Base(hdr.Name)
		if name != hdr.Name || strings.HasPrefix(name, ".") {
			return fmt.Errorf("unsafe archive entry %q", hdr.Name)
		}
		if err := extract(tr, filepath.Join(dir, name), force); err != nil {
			return err
		}
	}
}

func extract(r io.Reader, target string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	out, err := os.OpenFile(target, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s: %w (use --force to overwrite)", target, ErrExists)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return out.Close()
}

func addFile(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
