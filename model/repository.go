package model

import "strings"

const (
	// CurrentVersion is the schema version written by this build.
	CurrentVersion = 1

	// RootName names the pseudo-entry standing for the workspace root.
	RootName = "Root"
)

// Repository is one registered git working copy.
type Repository struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`

	synthetic bool
}

// IsSynthetic reports whether the entry was derived at load time rather than stored.
func (r Repository) IsSynthetic() bool {
	return r.synthetic
}

// Banner returns the upper-cased label printed around command output.
func (r Repository) Banner() string {
	return strings.ToUpper(r.Name)
}

// Document is the persisted workspace registry.
type Document struct {
	Version      int          `yaml:"version"`
	Root         string       `yaml:"root"`
	IgnoreRoot   bool         `yaml:"ignore_root"`
	Repositories []Repository `yaml:"repositories"`
}

// NewDocument returns a fresh document rooted at root with the root excluded.
func NewDocument(root string) *Document {
	return &Document{
		Version:      CurrentVersion,
		Root:         root,
		IgnoreRoot:   true,
		Repositories: []Repository{},
	}
}

// Members returns the effective execution list. Unless IgnoreRoot is set,
// the workspace root is prepended as a synthetic entry named Root.
func (d *Document) Members() []Repository {
	members := make([]Repository, 0, len(d.Repositories)+1)
	if !d.IgnoreRoot {
		members = append(members, Repository{Name: RootName, Path: d.Root, synthetic: true})
	}
	return append(members, d.Repositories...)
}

// Find returns the first repository named name. Later duplicates are shadowed.
func (d *Document) Find(name string) (Repository, bool) {
	for _, repo := range d.Repositories {
		if repo.Name == name {
			return repo, true
		}
	}
	return Repository{}, false
}

// Remove drops the first repository named name.
func (d *Document) Remove(name string) (Repository, bool) {
	for i, repo := range d.Repositories {
		if repo.Name == name {
			d.Repositories = append(d.Repositories[:i], d.Repositories[i+1:]...)
			return repo, true
		}
	}
	return Repository{}, false
}

// Stored returns the repositories that belong on disk, leaving out synthetic entries.
func (d *Document) Stored() []Repository {
	stored := make([]Repository, 0, len(d.Repositories))
	for _, repo := range d.Repositories {
		if !repo.synthetic {
			stored = append(stored, repo)
		}
	}
	return stored
}
