// Package devjson renders devcontainer.json files from the built-in template,
// an extend-with file and the updates of the invoked add-ons.
package devjson

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xeipuuv/gojsonschema"

	"devc/pkg/document"
	"devc/pkg/templates"
)

// Predefined holds the template values an extend-with file may set.
type Predefined struct {
	Name                        string `mapstructure:"name"`
	BuildDockerContainer        bool   `mapstructure:"build_docker_container"`
	Dockerfile                  string `mapstructure:"dockerfile"`
	Image                       string `mapstructure:"image"`
	RemoteAutoForwardPorts      bool   `mapstructure:"remote_auto_forward_ports"`
	RemoteRestoreForwardedPorts bool   `mapstructure:"remote_restore_forwarded_ports"`
	EnableX11                   bool   `mapstructure:"enable_x11"`
	NetworkMode                 string `mapstructure:"network_mode"`
}

// DefaultPredefined returns the values used for keys an extend-with file omits.
func DefaultPredefined() Predefined {
	return Predefined{
		BuildDockerContainer: true,
		EnableX11:            true,
		NetworkMode:          "host",
	}
}

// ExtendFile is a parsed extend-with file.
type ExtendFile struct {
	Source     string
	Predefined Predefined
	// Updates is merged into the rendered document like an add-on update.
	Updates document.Document
}

// ParseExtendFile reads, validates and decodes the extend-with file at path.
// An empty path selects the built-in file.
func ParseExtendFile(loader *templates.Loader, path string) (*ExtendFile, error) {
	source := path
	var data []byte
	var err error
	if path == "" {
		source = templates.DevcontainerExtensions
		data, err = loader.ReadFile(source)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- extend-with file is chosen by the user
	}
	if err != nil {
		return nil, fmt.Errorf("read extend file %s: %w", source, err)
	}
	return parse(loader, source, data)
}

func parse(loader *templates.Loader, source string, data []byte) (*ExtendFile, error) {
	schema, err := loader.ReadFile(templates.DevcontainerSchema)
	if err != nil {
		return nil, err
	}
	if err := validateSchema(schema, data); err != nil {
		return nil, fmt.Errorf("extend file %s: %w", source, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("extend file %s: %w", source, err)
	}

	ext := &ExtendFile{Source: source, Predefined: DefaultPredefined()}
	if err := mapstructure.Decode(raw["pre-defined-extensions"], &ext.Predefined); err != nil {
		return nil, fmt.Errorf("extend file %s: %w", source, err)
	}
	if updates, ok := document.Normalize(raw["updates"]).(document.Document); ok {
		ext.Updates = updates
	}
	return ext, nil
}

func validateSchema(schema, data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
}

// ApplyOverrides replaces predefined values with the non-empty arguments.
func (e *ExtendFile) ApplyOverrides(name, image, dockerfile string) {
	if name != "" {
		e.Predefined.Name = name
	}
	if image != "" {
		e.Predefined.Image = image
	}
	if dockerfile != "" {
		e.Predefined.Dockerfile = dockerfile
	}
}

// TemplateData returns the predefined values keyed as the template expects.
func (e *ExtendFile) TemplateData() (map[string]any, error) {
	out := map[string]any{}
	if err := mapstructure.Decode(e.Predefined, &out); err != nil {
		return nil, err
	}
	return out, nil
}
