// Package storage resolves seed files inside the configured storage folder.
package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Disk is a storage folder holding one JSON file per table.
type Disk struct {
	fs   afero.Fs
	root string
}

// NewDisk returns a Disk rooted at folder on the host filesystem.
func NewDisk(folder string) *Disk {
	return NewDiskFs(afero.NewOsFs(), folder)
}

func NewDiskFs(fs afero.Fs, folder string) *Disk {
	return &Disk{fs: fs, root: filepath.Clean(folder)}
}

func (d *Disk) Root() string {
	return d.root
}

// Path returns the location of name inside the storage folder.
func (d *Disk) Path(name string) string {
	return filepath.Join(d.root, filepath.Clean("/"+name))
}

func (d *Disk) Exists(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	info, err := d.fs.Stat(d.Path(name))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (d *Disk) Open(name string) (io.ReadCloser, error) {
	f, err := d.fs.Open(d.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// List returns the JSON files present in the storage folder.
func (d *Disk) List() ([]string, error) {
	matches, err := afero.Glob(d.fs, filepath.Join(d.root, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", d.root, err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if name := filepath.Base(m); d.Exists(name) {
			names = append(names, name)
		}
	}
	return names, nil
}
