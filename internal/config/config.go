// Package config provides layered configuration loading for the three
// recognized keys: rdf-location, include-ldp-type, and extension-graphs.
// Uses go-playground/validator struct tags for validation and a file +
// env overlay, lowest to highest priority.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"ldpstore/internal/apperrors"
	"ldpstore/internal/ldp"
)

// Config is the typed configuration surface. RdfLocation is fixed at
// process start (it selects the adapter implementation); IncludeLDPType
// and ExtensionGraphs may be hot-reloaded by Watcher.
type Config struct {
	RdfLocation     string `yaml:"rdf-location"`
	IncludeLDPType  bool   `yaml:"include-ldp-type" validate:"-"`
	ExtensionGraphs string `yaml:"extension-graphs"`
	WorkerPoolSize  int    `yaml:"worker-pool-size" validate:"gte=0"`
}

// Default returns the configuration used when no key is given at all:
// in-memory store, synthetic LDP-type included, no extensions
// registered.
func Default() *Config {
	return &Config{
		RdfLocation:     "",
		IncludeLDPType:  true,
		ExtensionGraphs: "",
		WorkerPoolSize:  0,
	}
}

// Load reads base a YAML file (if it exists), overlays LDP_* environment
// variables, and validates the result. A missing path is not an error —
// callers get Default() overlaid with env.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, apperrors.InvalidArgument("reading config file: " + err.Error())
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.InvalidArgument("parsing config file: " + err.Error())
		}
	}

	applyEnvOverlay(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverlay(cfg *Config) {
	if v, ok := os.LookupEnv("LDP_RDF_LOCATION"); ok {
		cfg.RdfLocation = v
	}
	if v, ok := os.LookupEnv("LDP_INCLUDE_LDP_TYPE"); ok {
		cfg.IncludeLDPType = strings.EqualFold(v, "true") || v == "1"
	}
	if v, ok := os.LookupEnv("LDP_EXTENSION_GRAPHS"); ok {
		cfg.ExtensionGraphs = v
	}
}

var validate = validator.New()

// Validate runs the go-playground/validator struct-tag checks.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return apperrors.Validation("invalid configuration: " + err.Error())
	}
	return nil
}

// ParsedExtensionGraphs parses the comma-separated `name=IRI` pairs,
// trimming whitespace and silently dropping malformed entries one at a
// time. audit and acl are reserved and never appear in the returned set
// even if present in the raw string.
func (c *Config) ParsedExtensionGraphs() []ldp.ExtensionGraph {
	var out []ldp.ExtensionGraph
	for _, pair := range strings.Split(c.ExtensionGraphs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		iri := strings.TrimSpace(parts[1])
		if name == "" || iri == "" || name == ldp.ExtAudit || name == ldp.ExtACL {
			continue
		}
		out = append(out, ldp.ExtensionGraph{Name: name, IRI: iri})
	}
	return out
}
