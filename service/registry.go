package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nanaki-93/grit/model"
	"gopkg.in/yaml.v3"
)

const (
	// MetaDir is the workspace metadata directory under the root.
	MetaDir = ".grit"
	// ConfigFile is the registry document inside MetaDir.
	ConfigFile = "config.yml"
	// GitMarker is the entry that marks a directory as a git working copy.
	GitMarker = ".git"
)

// RegistryService defines operations over a workspace's repository registry
type RegistryService interface {
	Root() string
	ConfigPath() string
	Resolve(path string) string
	IsRepository(path string) bool

	Initialize(targetDir string) (bool, error)
	Load() (*model.Document, error)
	Save(doc *model.Document) error
	AddRepository(name, path string) (model.Repository, error)
	AddAllDiscovered() ([]model.Repository, error)
	RemoveRepository(name string) (model.Repository, error)
	CleanMissing() ([]model.Repository, error)
	FindByName(name string) (model.Repository, error)
	ConvertLegacy() (bool, error)
	Destroy() error
}

// WorkspaceRegistry implements RegistryService on top of <root>/.grit/config.yml
type WorkspaceRegistry struct {
	root   string
	logger Logger
}

// NewRegistry creates a registry for the workspace rooted at root
func NewRegistry(root string, logger Logger) RegistryService {
	if logger == nil {
		logger = &DefaultLogger{}
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &WorkspaceRegistry{
		root:   root,
		logger: logger,
	}
}

func (r *WorkspaceRegistry) Root() string {
	return r.root
}

func (r *WorkspaceRegistry) ConfigPath() string {
	return configPathFor(r.root)
}

func configPathFor(dir string) string {
	return filepath.Join(dir, MetaDir, ConfigFile)
}

// Resolve turns a registered path into a filesystem path. Relative paths are
// taken against the workspace root.
func (r *WorkspaceRegistry) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.root, path)
}

// IsRepository reports whether path is an existing directory holding a .git marker
func (r *WorkspaceRegistry) IsRepository(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(path, GitMarker))
	return err == nil
}

// Initialize creates the metadata directory and a fresh document under targetDir.
// An existing document is never overwritten; the returned bool tells whether one was written.
func (r *WorkspaceRegistry) Initialize(targetDir string) (bool, error) {
	info, err := os.Stat(targetDir)
	if err != nil || !info.IsDir() {
		return false, fmt.Errorf("%s: %w", targetDir, ErrNotADirectory)
	}

	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		return false, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(absDir, MetaDir), 0o755); err != nil {
		return false, fmt.Errorf("failed to create metadata directory: %w", err)
	}

	cfgPath := configPathFor(absDir)
	if _, err := os.Stat(cfgPath); err == nil {
		r.logger.Info("workspace already initialized", "config", cfgPath)
		return false, nil
	}

	if err := writeDocument(cfgPath, model.NewDocument(absDir)); err != nil {
		return false, err
	}
	r.logger.Debug("workspace initialized", "root", absDir)
	return true, nil
}

// Load reads the workspace document from the root
func (r *WorkspaceRegistry) Load() (*model.Document, error) {
	data, err := os.ReadFile(r.ConfigPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.ConfigPath(), ErrConfigMissing)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return decodeDocument(data)
}

func decodeDocument(data []byte) (*model.Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}
	if topMapping(&node) == nil {
		return nil, fmt.Errorf("%w: document is not a mapping", ErrConfigCorrupt)
	}
	if isLegacyDocument(&node) {
		return nil, ErrLegacyFormat
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc model.Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrConfigCorrupt)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}

	if doc.Version == 0 {
		doc.Version = model.CurrentVersion
	}
	if doc.Version != model.CurrentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrConfigCorrupt, doc.Version)
	}
	if doc.Root == "" {
		return nil, fmt.Errorf("%w: root is not set", ErrConfigCorrupt)
	}
	if doc.Repositories == nil {
		doc.Repositories = []model.Repository{}
	}
	return &doc, nil
}

// Save replaces the workspace document with doc
func (r *WorkspaceRegistry) Save(doc *model.Document) error {
	return writeDocument(r.ConfigPath(), doc)
}

// writeDocument encodes doc without synthetic entries and swaps it into place.
func writeDocument(path string, doc *model.Document) error {
	out := model.Document{
		Version:      doc.Version,
		Root:         doc.Root,
		IgnoreRoot:   doc.IgnoreRoot,
		Repositories: doc.Stored(),
	}
	if out.Version == 0 {
		out.Version = model.CurrentVersion
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&out); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".config.yml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if err := temp.Chmod(0o644); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// AddRepository registers path under name. An empty path defaults to name.
// Names are not checked for uniqueness.
func (r *WorkspaceRegistry) AddRepository(name, path string) (model.Repository, error) {
	if path == "" {
		path = name
	}
	if !r.IsRepository(r.Resolve(path)) {
		return model.Repository{}, fmt.Errorf("%s: %w", path, ErrNotAGitRepo)
	}

	doc, err := r.Load()
	if err != nil {
		return model.Repository{}, err
	}

	repo := model.Repository{Name: name, Path: path}
	doc.Repositories = append(doc.Repositories, repo)
	if err := r.Save(doc); err != nil {
		return model.Repository{}, err
	}
	r.logger.Debug("repository added", "name", name, "path", path)
	return repo, nil
}

// AddAllDiscovered registers every immediate child of the root that is a git
// working copy. Existing entries are not consulted, so repeated calls duplicate.
func (r *WorkspaceRegistry) AddAllDiscovered() ([]model.Repository, error) {
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", r.root, err)
	}

	var added []model.Repository
	for _, entry := range entries {
		if entry.Name() == MetaDir {
			continue
		}
		if !r.IsRepository(filepath.Join(r.root, entry.Name())) {
			r.logger.Debug("skipping non-repository", "path", entry.Name())
			continue
		}
		added = append(added, model.Repository{Name: entry.Name(), Path: entry.Name()})
	}

	doc.Repositories = append(doc.Repositories, added...)
	if err := r.Save(doc); err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveRepository deregisters the first entry named name
func (r *WorkspaceRegistry) RemoveRepository(name string) (model.Repository, error) {
	doc, err := r.Load()
	if err != nil {
		return model.Repository{}, err
	}

	removed, ok := doc.Remove(name)
	if !ok {
		return model.Repository{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err := r.Save(doc); err != nil {
		return model.Repository{}, err
	}
	return removed, nil
}

// CleanMissing drops entries whose path is gone, not a directory, or not a
// git working copy, and returns what was dropped.
func (r *WorkspaceRegistry) CleanMissing() ([]model.Repository, error) {
	doc, err := r.Load()
	if err != nil {
		return nil, err
	}

	kept := make([]model.Repository, 0, len(doc.Repositories))
	var dropped []model.Repository
	for _, repo := range doc.Repositories {
		if r.IsRepository(r.Resolve(repo.Path)) {
			kept = append(kept, repo)
			continue
		}
		r.logger.Debug("dropping invalid repository", "name", repo.Name, "path", repo.Path)
		dropped = append(dropped, repo)
	}

	doc.Repositories = kept
	if err := r.Save(doc); err != nil {
		return nil, err
	}
	return dropped, nil
}

// FindByName returns the first entry named name
func (r *WorkspaceRegistry) FindByName(name string) (model.Repository, error) {
	doc, err := r.Load()
	if err != nil {
		return model.Repository{}, err
	}
	repo, ok := doc.Find(name)
	if !ok {
		return model.Repository{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return repo, nil
}

// Destroy removes the workspace metadata directory
func (r *WorkspaceRegistry) Destroy() error {
	metaDir := filepath.Join(r.root, MetaDir)
	if _, err := os.Stat(metaDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", metaDir, ErrConfigMissing)
		}
		return fmt.Errorf("failed to stat %s: %w", metaDir, err)
	}
	if err := os.RemoveAll(metaDir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", metaDir, err)
	}
	r.logger.Debug("workspace destroyed", "root", r.root)
	return nil
}
