package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/nanaki-93/grit/model"
	"gopkg.in/yaml.v3"
)

// legacyPrefix marks keys written as symbols by the first generation of the tool
// (":root:", ":repositories:", ":name:", ":path:").
const legacyPrefix = ":"

// isLegacyDocument reports whether the top-level mapping uses symbol keys.
func isLegacyDocument(node *yaml.Node) bool {
	top := topMapping(node)
	if top == nil {
		return false
	}
	for i := 0; i < len(top.Content)-1; i += 2 {
		if strings.HasPrefix(top.Content[i].Value, legacyPrefix) {
			return true
		}
	}
	return false
}

func topMapping(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

// ConvertLegacy rewrites a legacy document in the current schema. It returns
// false without touching the file when the document is already current.
func (r *WorkspaceRegistry) ConvertLegacy() (bool, error) {
	data, err := os.ReadFile(r.ConfigPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%s: %w", r.ConfigPath(), ErrConfigMissing)
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return false, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}

	if !isLegacyDocument(&node) {
		if _, err := decodeDocument(data); err != nil {
			return false, err
		}
		r.logger.Info("config already in current format", "config", r.ConfigPath())
		return false, nil
	}

	doc, err := convertLegacyNode(&node)
	if err != nil {
		return false, err
	}
	if err := r.Save(doc); err != nil {
		return false, err
	}
	r.logger.Debug("legacy config converted", "repositories", len(doc.Repositories))
	return true, nil
}

// convertLegacyNode walks a legacy document. The legacy tool always ran on the
// root, so a missing :ignore_root: converts to false.
func convertLegacyNode(node *yaml.Node) (*model.Document, error) {
	top := topMapping(node)
	if top == nil {
		return nil, fmt.Errorf("%w: legacy document is not a mapping", ErrConfigCorrupt)
	}

	doc := &model.Document{
		Version:      model.CurrentVersion,
		Repositories: []model.Repository{},
	}

	for i := 0; i < len(top.Content)-1; i += 2 {
		key, value := top.Content[i].Value, top.Content[i+1]
		switch key {
		case ":root":
			if err := value.Decode(&doc.Root); err != nil {
				return nil, fmt.Errorf("%w: :root: %v", ErrConfigCorrupt, err)
			}
		case ":ignore_root":
			if err := value.Decode(&doc.IgnoreRoot); err != nil {
				return nil, fmt.Errorf("%w: :ignore_root: %v", ErrConfigCorrupt, err)
			}
		case ":repositories":
			repos, err := convertLegacyRepositories(value)
			if err != nil {
				return nil, err
			}
			doc.Repositories = repos
		default:
			return nil, fmt.Errorf("%w: unknown legacy key %q", ErrConfigCorrupt, key)
		}
	}
	if doc.Root == "" {
		return nil, fmt.Errorf("%w: legacy document has no :root:", ErrConfigCorrupt)
	}
	return doc, nil
}

func convertLegacyRepositories(node *yaml.Node) ([]model.Repository, error) {
	repos := []model.Repository{}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return repos, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: :repositories: is not a list", ErrConfigCorrupt)
	}

	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: repository entry is not a mapping", ErrConfigCorrupt)
		}
		var repo model.Repository
		for i := 0; i < len(item.Content)-1; i += 2 {
			key, value := item.Content[i].Value, item.Content[i+1]
			if value.Tag == "!!null" {
				continue
			}
			switch key {
			case ":name":
				repo.Name = value.Value
			case ":path":
				repo.Path = value.Value
			default:
				return nil, fmt.Errorf("%w: unknown legacy repository key %q", ErrConfigCorrupt, key)
			}
		}
		if repo.Path == "" {
			repo.Path = repo.Name
		}
		repos = append(repos, repo)
	}
	return repos, nil
}
