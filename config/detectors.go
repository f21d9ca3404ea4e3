package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rafabd1/LintHound/core/secret"
	"github.com/rafabd1/LintHound/utils"
	"gopkg.in/yaml.v3"
)

// DetectorFile is the document holding user-defined credential types.
//
//	detectors:
//	  - rule_name: acme-api-key
//	    prefixes: [acme_]
//	    charset: alnum
//	    length: 37
type DetectorFile struct {
	Detectors []secret.Definition `yaml:"detectors" toml:"detectors" json:"detectors"`
}

// LoadDetectorDefinitions reads a YAML, TOML or JSON detector file, picked by
// extension.
func LoadDetectorDefinitions(path string) ([]secret.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewError(utils.IOError, "reading detectors file", err)
	}

	var doc DetectorFile
	switch ext := utils.GetFileExtension(path); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, utils.NewError(utils.ConfigError, "parsing "+path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, utils.NewError(utils.ConfigError, "parsing "+path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, utils.NewError(utils.ConfigError,
				fmt.Sprintf("parsing %s: unknown key %s", path, undecoded[0]), nil)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, utils.NewError(utils.ConfigError, "parsing "+path, err)
		}
	default:
		return nil, utils.NewError(utils.ConfigError,
			fmt.Sprintf("detectors file %s: unsupported extension %q (want .yaml, .yml, .toml or .json)", path, ext), nil)
	}
	return doc.Detectors, nil
}

// LoadDetectors compiles every definition in the file, in file order.
func LoadDetectors(path string) ([]secret.Detector, error) {
	defs, err := LoadDetectorDefinitions(path)
	if err != nil {
		return nil, err
	}
	out := make([]secret.Detector, 0, len(defs))
	var problems []string
	for i, d := range defs {
		p, err := d.Compile()
		if err != nil {
			problems = append(problems, fmt.Sprintf("entry %d: %v", i+1, err))
			continue
		}
		out = append(out, p)
	}
	if len(problems) > 0 {
		return nil, utils.NewError(utils.ConfigError,
			fmt.Sprintf("%s: %s", path, strings.Join(problems, "; ")), nil)
	}
	return out, nil
}
