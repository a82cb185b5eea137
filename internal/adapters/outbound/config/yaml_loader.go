package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/arclint/arclint/internal/domain"
)

// FileName is the project configuration file looked up in the scan root.
const FileName = ".arclint.yaml"

const schemaURL = "https://arclint.dev/schemas/arclint.json"

//go:embed schema.json
var schemaJSON []byte

// YAMLLoader implements domain.ConfigLoader by reading .arclint.yaml.
type YAMLLoader struct {
	schema *jsonschema.Schema
}

// New creates a YAMLLoader. The embedded schema is compiled once here; it
// is part of the binary, so a failure is a programming error.
func New() *YAMLLoader {
	sch, err := compileSchema()
	if err != nil {
		panic(err)
	}
	return &YAMLLoader{schema: sch}
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, errors.Wrap(err, "decoding config schema")
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, errors.Wrap(err, "registering config schema")
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, errors.Wrap(err, "compiling config schema")
	}
	return sch, nil
}

// Load reads .arclint.yaml from root.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(root string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, errors.Wrapf(err, "reading %s", FileName)
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return domain.ProjectConfig{}, errors.Wrapf(domain.ErrInvalidConfig, "parsing %s: %v", FileName, err)
	}
	// An empty file is the default config.
	if generic == nil {
		return domain.DefaultConfig(), nil
	}

	if err := l.checkSchema(generic); err != nil {
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, errors.Wrapf(domain.ErrInvalidConfig, "parsing %s: %v", FileName, err)
	}

	// Validate before defaults so typos in the user's input are caught.
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, errors.Wrapf(err, "invalid %s", FileName)
	}

	return cfg.WithDefaults(), nil
}

// checkSchema round-trips the YAML tree through JSON so the validator sees
// JSON-typed values.
func (l *YAMLLoader) checkSchema(generic any) error {
	raw, err := json.Marshal(generic)
	if err != nil {
		return errors.Wrapf(domain.ErrInvalidConfig, "%s is not representable as JSON: %v", FileName, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return errors.Wrapf(domain.ErrInvalidConfig, "%s: %v", FileName, err)
	}
	if err := l.schema.Validate(inst); err != nil {
		return errors.Wrapf(domain.ErrInvalidConfig, "%s does not match schema: %v", FileName, err)
	}
	return nil
}
