// Package filesystem provides the file copy primitives the archive and
// publish plugins are built on.
package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kalekundert/sparekeys/pkg/errors"
)

// SkipFunc decides whether a directory entry is excluded from a copy.
// It receives the entry's base name.
type SkipFunc func(name string, d fs.DirEntry) bool

// ExpandHome expands a leading ~ in path to the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "failed to determine home directory")
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// CopyFile copies a single file, preserving its permission bits
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "cannot stat %s", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", src)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(dst))
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", dst)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to copy %s", src)
	}
	return nil
}

// CopyTree copies a directory tree (or a single file) from src to dst
func CopyTree(src, dst string) error {
	return CopyTreeFiltered(src, dst, nil)
}

// CopyTreeFiltered copies a tree, skipping entries the filter rejects.
// Symlinks are recreated rather than followed; sockets and other special
// files are ignored.
func CopyTreeFiltered(src, dst string, skip SkipFunc) error {
	info, err := os.Lstat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "cannot stat %s", src)
	}
	if !info.IsDir() {
		return CopyFile(src, dst)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
		}
		if skip != nil && skip(d.Name(), d) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0755)

		case d.Type()&fs.ModeSymlink != 0:
			linkDest, err := os.Readlink(path)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot read symlink %s", path)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(target))
			}
			return os.Symlink(linkDest, target)

		case d.Type().IsRegular():
			return CopyFile(path, target)

		default:
			// Sockets, devices, pipes: nothing portable to copy.
			return nil
		}
	})
}

// CopyIntoArchive copies a path into the archive directory, placed at the
// same position relative to the user's home directory. Paths outside the
// home directory keep their absolute layout under the archive root.
func CopyIntoArchive(path, archiveDir string) error {
	src, err := ExpandHome(path)
	if err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "failed to determine home directory")
	}

	var dst string
	if rel, err := filepath.Rel(home, src); err == nil && !strings.HasPrefix(rel, "..") {
		dst = filepath.Join(archiveDir, rel)
	} else {
		dst = filepath.Join(archiveDir, strings.TrimPrefix(src, string(filepath.Separator)))
	}

	return CopyTree(src, dst)
}

// ListFiles returns the paths of all regular files under root, relative
// to root, in walk order.
func ListFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() || d.Type()&fs.ModeSymlink != 0 {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", root)
	}
	return files, nil
}

// IsEmptyTree reports whether a directory contains no files at all
func IsEmptyTree(root string) (bool, error) {
	files, err := ListFiles(root)
	if err != nil {
		return false, err
	}
	return len(files) == 0, nil
}

// Exists reports whether a path exists
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
