package casestore

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ExportArchive packs a problem's stored directory into a
// zstd-compressed tar at dstPath, e.g. for sharing cases between
// machines without re-scraping the judge.
func (s *Store) ExportArchive(rawURL string, dstPath string) error {
	dir := s.ProblemDir(rawURL)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ErrCasesNotFound(rawURL)
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer out.Close()

	zw, err := zstd.NewWriter(out)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	err = filepath.Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		hdr := &tar.Header{
			Name: filepath.ToSlash(rel),
			Mode: 0644,
			Size: info.Size(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to pack problem directory: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finalize tar: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize zstd stream: %w", err)
	}
	return nil
}

// ImportArchive unpacks an archive produced by ExportArchive into the
// store, placed under the directory derived from rawURL.
func (s *Store) ImportArchive(rawURL string, srcPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	defer in.Close()

	zr, err := zstd.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	tmp, err := os.MkdirTemp(s.root, ".tmp-import-")
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(s.root, 0755); mkErr != nil {
			return fmt.Errorf("failed to create store root: %w", mkErr)
		}
		tmp, err = os.MkdirTemp(s.root, ".tmp-import-")
	}
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %w", err)
		}
		name := filepath.FromSlash(hdr.Name)
		if strings.Contains(name, "..") {
			return fmt.Errorf("archive entry escapes target directory: %s", hdr.Name)
		}
		dst := filepath.Join(tmp, name)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		f, err := os.Create(dst)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := io.Copy(f, tr); err != nil {
			f.Close()
			return fmt.Errorf("failed to extract %s: %w", name, err)
		}
		f.Close()
	}

	dir := s.ProblemDir(rawURL)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove previous problem directory: %w", err)
	}
	if err := os.Rename(tmp, dir); err != nil {
		return fmt.Errorf("failed to move imported directory into place: %w", err)
	}
	return nil
}
