package skill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/logging"
)

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger
}

// FileStore persists skills as YAML files, one file per skill named
// <name>.yaml in a flat directory. Files that fail to parse are skipped
// with a warning so one corrupt record never blocks the catalog.
type FileStore struct {
	dir    string
	logger logging.Logger
}

// NewFileStore creates a YAML-backed skill store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string, optFns ...func(o *FileStoreOptions)) (*FileStore, error) {
	opts := FileStoreOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create skill dir %s: %w", dir, err)
	}

	return &FileStore{dir: dir, logger: opts.Logger}, nil
}

// Load implements Store. Unreadable or invalid files are skipped.
func (s *FileStore) Load(_ context.Context) ([]core.Skill, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read skill dir %s: %w", s.dir, err)
	}

	var out []core.Skill

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skill.store.unreadable", "path", path, "error", err.Error())
			continue
		}

		var rec skillRecord
		if err := yaml.Unmarshal(data, &rec); err != nil {
			s.logger.Warn("skill.store.invalid", "path", path, "error", err.Error())
			continue
		}

		if rec.Name == "" {
			s.logger.Warn("skill.store.invalid", "path", path, "error", "missing name")
			continue
		}

		out = append(out, rec.toSkill())
	}

	return out, nil
}

// Save implements Store. The skill is written atomically via a temp file
// rename.
func (s *FileStore) Save(_ context.Context, sk core.Skill) error {
	data, err := yaml.Marshal(newSkillRecord(sk))
	if err != nil {
		return fmt.Errorf("marshal skill %s: %w", sk.Name, err)
	}

	path := filepath.Join(s.dir, sk.Name+".yaml")
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write skill %s: %w", sk.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write skill %s: %w", sk.Name, err)
	}

	return nil
}

// skillRecord is the on-disk YAML shape of a skill. Modifications are
// kind-tagged so new kinds can be added without breaking old readers;
// unknown kinds are dropped on load.
type skillRecord struct {
	Name          string               `yaml:"name"`
	Description   string               `yaml:"description"`
	Prompt        string               `yaml:"prompt,omitempty"`
	RequiredTools []string             `yaml:"required_tools,omitempty"`
	Model         string               `yaml:"model,omitempty"`
	Modifications []modificationRecord `yaml:"modifications,omitempty"`
}

type modificationRecord struct {
	Kind    string `yaml:"kind"`
	Text    string `yaml:"text,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Value   any    `yaml:"value,omitempty"`
	Feature string `yaml:"feature,omitempty"`
	Enabled bool   `yaml:"enabled,omitempty"`
}

const (
	kindAddInstruction = "add-instruction"
	kindSetParameter   = "set-parameter"
	kindEnableFeature  = "enable-feature"
)

func newSkillRecord(sk core.Skill) skillRecord {
	rec := skillRecord{
		Name:          sk.Name,
		Description:   sk.Description,
		Prompt:        sk.Prompt,
		RequiredTools: sk.RequiredTools,
		Model:         sk.Model,
	}

	for _, m := range sk.Modifications {
		switch v := m.(type) {
		case core.AddInstruction:
			rec.Modifications = append(rec.Modifications, modificationRecord{Kind: kindAddInstruction, Text: v.Text})
		case core.SetParameter:
			rec.Modifications = append(rec.Modifications, modificationRecord{Kind: kindSetParameter, Key: v.Key, Value: v.Value})
		case core.EnableFeature:
			rec.Modifications = append(rec.Modifications, modificationRecord{Kind: kindEnableFeature, Feature: v.Feature, Enabled: v.Enabled})
		}
	}

	return rec
}

func (r skillRecord) toSkill() core.Skill {
	sk := core.Skill{
		Name:          r.Name,
		Description:   r.Description,
		Prompt:        r.Prompt,
		RequiredTools: r.RequiredTools,
		Model:         r.Model,
	}

	for _, m := range r.Modifications {
		switch m.Kind {
		case kindAddInstruction:
			sk.Modifications = append(sk.Modifications, core.AddInstruction{Text: m.Text})
		case kindSetParameter:
			sk.Modifications = append(sk.Modifications, core.SetParameter{Key: m.Key, Value: m.Value})
		case kindEnableFeature:
			sk.Modifications = append(sk.Modifications, core.EnableFeature{Feature: m.Feature, Enabled: m.Enabled})
		}
	}

	return sk
}
