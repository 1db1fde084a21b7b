// Package config loads splice settings from a CUE file.
//
// The file is unified with an embedded #Config schema, so unknown fields
// and ill-typed values are rejected and every omitted field takes its
// schema default:
//
//	output_format: "yaml"
//	diff: ignore_metadata: ["ALE/Modified Date", "ALE/Creator"]
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// Config holds every setting the CLI reads.
type Config struct {
	OutputFormat string      `json:"output_format"`
	StackName    string      `json:"stack_name"`
	Diff         DiffConfig  `json:"diff"`
	Store        StoreConfig `json:"store"`
	Media        MediaConfig `json:"media"`
}

type DiffConfig struct {
	IgnoreMetadata []string `json:"ignore_metadata"`
}

type StoreConfig struct {
	Path string `json:"path"`
}

type MediaConfig struct {
	HTTPTimeoutSeconds int `json:"http_timeout_seconds"`
}

// HTTPTimeout is the per-download timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Media.HTTPTimeoutSeconds) * time.Second
}

// Error reports a configuration that failed to load or validate.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %s", e.Path, e.Message)
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	return Parse("<defaults>", nil)
}

// Load reads and validates the CUE file at path. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: err.Error()}
	}
	return Parse(path, data)
}

// Parse validates CUE source against the schema. filename is used in
// error messages only.
func Parse(filename string, src []byte) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &Error{Path: "schema.cue", Message: err.Error()}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	user := ctx.CompileBytes(src, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return nil, &Error{Path: filename, Message: details(err)}
	}

	v := def.Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &Error{Path: filename, Message: details(err)}
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, &Error{Path: filename, Message: details(err)}
	}
	return &cfg, nil
}

func details(err error) string {
	return strings.TrimRight(cueerrors.Details(err, nil), "\n")
}
