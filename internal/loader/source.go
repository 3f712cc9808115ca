package loader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"acupoint-viewer/internal/scene"
)

// ReadFile decodes a model from an .obj file or from the first .obj entry of a .zip archive.
func ReadFile(p string) (*scene.Node, error) {
	if strings.EqualFold(filepath.Ext(p), ".zip") {
		data, name, err := firstOBJ(p)
		if err != nil {
			return nil, err
		}
		root, err := Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return root, nil
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// firstOBJ returns the contents of the first .obj entry in zipPath, in archive order.
// Directory entries, macOS resource forks and entries escaping the archive root are skipped.
func firstOBJ(zipPath string) (data []byte, name string, err error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, "", fmt.Errorf("unzip: %w", err)
	}
	defer r.Close()
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".obj") {
			continue
		}
		clean := path.Clean(f.Name)
		if strings.HasPrefix(clean, "../") || path.IsAbs(clean) || strings.HasPrefix(clean, "__MACOSX/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("unzip: %w", err)
		}
		data, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("unzip: %w", err)
		}
		return data, f.Name, nil
	}
	return nil, "", fmt.Errorf("unzip: %s: %w", filepath.Base(zipPath), ErrNoModel)
}
