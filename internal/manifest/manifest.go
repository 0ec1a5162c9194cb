// Package manifest reads pack manifests and turns their command declarations
// into command specs.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"command-registrar/internal/core/domain"
)

const FileName = "manifest.json"

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9]+$`)

// ManifestError wraps every failure to read or interpret a manifest file.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

type Manifest struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Commands    CommandMap `json:"commands"`
}

type CommandDeclaration struct {
	// Source names the pack function that serves the command at runtime.
	Source      string              `json:"source,omitempty"`
	Description string              `json:"description"`
	Options     []OptionDeclaration `json:"options"`
}

type OptionDeclaration struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Required    *bool  `json:"required,omitempty"`
}

type NamedCommand struct {
	Name string
	CommandDeclaration
}

// CommandMap is the "commands" object of a manifest, kept in file order.
type CommandMap []NamedCommand

func (m *CommandMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("commands must be an object")
	}

	var out CommandMap
	seen := make(map[string]bool)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in commands", tok)
		}
		if seen[name] {
			return fmt.Errorf("command %q declared twice", name)
		}
		seen[name] = true

		var decl CommandDeclaration
		if err := dec.Decode(&decl); err != nil {
			return fmt.Errorf("command %q: %w", name, err)
		}
		out = append(out, NamedCommand{Name: name, CommandDeclaration: decl})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

func (m CommandMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cmd := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cmd.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(cmd.CommandDeclaration)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Read parses dir/manifest.json.
func Read(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ManifestError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	if err := m.validate(); err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}

	return &m, nil
}

func (m *Manifest) validate() error {
	var errs []error

	if m.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if m.ID != "" && !idPattern.MatchString(m.ID) {
		errs = append(errs, fmt.Errorf("id %q must match %s", m.ID, idPattern))
	}

	return errors.Join(errs...)
}

// Specs converts the manifest's command declarations. Any unknown option type
// fails the whole conversion.
func (m *Manifest) Specs() ([]domain.CommandSpec, error) {
	specs := make([]domain.CommandSpec, 0, len(m.Commands))

	for _, cmd := range m.Commands {
		spec := domain.CommandSpec{
			Name:        cmd.Name,
			Description: cmd.Description,
		}

		for i, opt := range cmd.Options {
			typ, err := domain.ParseOptionType(opt.Type)
			if err != nil {
				return nil, fmt.Errorf("command %q option %d (%q): %w", cmd.Name, i, opt.ID, err)
			}
			spec.Options = append(spec.Options, domain.OptionSpec{
				Name:        opt.ID,
				Description: opt.Description,
				Type:        typ,
				Optional:    opt.Required != nil && !*opt.Required,
			})
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// LoadManifest reads dir/manifest.json and returns its command specs.
func LoadManifest(dir string) ([]domain.CommandSpec, error) {
	m, err := Read(dir)
	if err != nil {
		return nil, err
	}

	specs, err := m.Specs()
	if err != nil {
		return nil, &ManifestError{Path: filepath.Join(dir, FileName), Err: err}
	}

	return specs, nil
}

type Pack struct {
	Dir      string
	Manifest *Manifest
	Commands []domain.CommandSpec
}

// LoadPacks loads every direct sub-directory of root that holds a manifest,
// in lexical order.
func LoadPacks(root string) ([]Pack, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read packs dir: %w", err)
	}

	var packs []Pack
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, FileName)); errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Skipping directory without manifest", "dir", dir)
			continue
		}

		m, err := Read(dir)
		if err != nil {
			return nil, err
		}
		specs, err := m.Specs()
		if err != nil {
			return nil, &ManifestError{Path: filepath.Join(dir, FileName), Err: err}
		}

		slog.Info("Loaded pack", "dir", dir, "title", m.Title, "commands", len(specs))
		packs = append(packs, Pack{Dir: dir, Manifest: m, Commands: specs})
	}

	return packs, nil
}
