package pack

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	manifestFiles = []string{"manifest.json", "manifest.yaml", "manifest.yml"}
	contentFiles  = []string{"content.json", "content.yaml", "content.yml"}
)

// Pack is a loaded content pack. Dir is relative to the file system the pack
// was loaded from and is the root for the pack's own assets.
type Pack struct {
	Dir      string
	Manifest Manifest
	Content  Content
}

func (p *Pack) Name() string {
	return p.Manifest.Name
}

func (p *Pack) ID() string {
	if p.Manifest.UniqueID != "" {
		return p.Manifest.UniqueID
	}
	return p.Dir
}

// Animated returns the records that request animation, valid or not.
func (p *Pack) Animated() []Record {
	var out []Record
	for _, r := range p.Content.Changes {
		if r.Animated() {
			out = append(out, r)
		}
	}
	return out
}

// LoadSpec decodes the first file of names present in dir. Both JSON and
// YAML documents go through the YAML decoder.
func LoadSpec[T any](fsys fs.FS, dir string, names ...string) (T, string, error) {
	var zero T
	for _, name := range names {
		file := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return zero, file, fmt.Errorf("pack: load %s: %w", file, err)
		}

		var spec T
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return zero, file, fmt.Errorf("pack: unmarshal %s: %w", file, err)
		}
		return spec, file, nil
	}
	return zero, "", fmt.Errorf("pack: %s: none of %v: %w", dir, names, fs.ErrNotExist)
}

// Load reads the manifest and content file of the pack in dir.
func Load(fsys fs.FS, dir string) (*Pack, error) {
	manifest, _, err := LoadSpec[Manifest](fsys, dir, manifestFiles...)
	if err != nil {
		return nil, err
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("pack: %s: manifest has no Name", dir)
	}

	content, _, err := LoadSpec[Content](fsys, dir, contentFiles...)
	if err != nil {
		return nil, err
	}

	return &Pack{Dir: dir, Manifest: manifest, Content: content}, nil
}

// LoadAll loads every direct subdirectory of root that has a manifest,
// ordered by directory name. Packs that fail to load are skipped and their
// errors joined into the returned error.
func LoadAll(fsys fs.FS, root string) ([]*Pack, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("pack: read %s: %w", root, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var packs []*Pack
	var errs []error
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := path.Join(root, e.Name())
		if !hasManifest(fsys, dir) {
			continue
		}
		p, err := Load(fsys, dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		packs = append(packs, p)
	}
	return packs, errors.Join(errs...)
}

func hasManifest(fsys fs.FS, dir string) bool {
	for _, name := range manifestFiles {
		if _, err := fs.Stat(fsys, path.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
