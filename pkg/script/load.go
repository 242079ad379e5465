package script

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/dsanim/pkg/errors"
)

// Format is a script encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var extensions = map[string]Format{
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	if err := errors.ValidateExtension(path, ".toml", ".yaml", ".yml", ".json"); err != nil {
		return "", err
	}
	return extensions[strings.ToLower(filepath.Ext(path))], nil
}

// Load reads, decodes and validates the script at path.
func Load(path string) (*Script, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read script %s", path)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Script, error) {
	var s Script
	if err := decode(data, format, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func decode(data []byte, format Format, s *Script) error {
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), s)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidScript, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil {
			if stderrors.Is(err, io.EOF) {
				return errors.New(errors.ErrCodeInvalidScript, "empty script")
			}
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "decode json")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported script format %q", format)
	}
	return nil
}
