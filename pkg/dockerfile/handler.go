// Package dockerfile renders Dockerfiles from the built-in template and an
// extend-with file of package lists, commands and anchored insertions.
package dockerfile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xeipuuv/gojsonschema"

	"devc/pkg/templates"
)

// Predefined holds the template values of an extend-with file.
type Predefined struct {
	Image                  string   `mapstructure:"image"`
	PrePackageInstall      []string `mapstructure:"pre_package_install"`
	AdditionalAptPackages  []string `mapstructure:"additional_apt_packages"`
	PostPackageInstall     []string `mapstructure:"post_package_install"`
	AdditionalSudoCommands []string `mapstructure:"additional_sudo_commands"`
	AdditionalUserCommands []string `mapstructure:"additional_user_commands"`
}

// Insertion adds lines before or after the first line matching Anchor.
type Insertion struct {
	Anchor   string   `mapstructure:"anchor"`
	Position string   `mapstructure:"position"`
	IsRegex  bool     `mapstructure:"is_regex"`
	Lines    []string `mapstructure:"lines"`
}

// ExtendFile is a parsed extend-with file.
type ExtendFile struct {
	Source     string
	Predefined Predefined   `mapstructure:"pre-defined-extensions"`
	Insertions []Insertion `mapstructure:"insertions"`
}

// ParseExtendFile reads, validates and decodes the extend-with file at path.
// An empty path selects the built-in file named builtin.
func ParseExtendFile(loader *templates.Loader, path, builtin string) (*ExtendFile, error) {
	source := path
	var data []byte
	var err error
	if path == "" {
		source = builtin
		data, err = loader.ReadFile(builtin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- extend-with file is chosen by the user
	}
	if err != nil {
		return nil, fmt.Errorf("read extend file %s: %w", source, err)
	}

	schema, err := loader.ReadFile(templates.DockerfileSchema)
	if err != nil {
		return nil, err
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("extend file %s: invalid JSON: %w", source, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("extend file %s: schema violation: %s", source, strings.Join(msgs, "; "))
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("extend file %s: %w", source, err)
	}
	ext := &ExtendFile{}
	if err := mapstructure.Decode(raw, ext); err != nil {
		return nil, fmt.Errorf("extend file %s: %w", source, err)
	}
	ext.Source = source
	ext.filterEmpty()
	return ext, nil
}

// filterEmpty drops blank entries from every list.
func (e *ExtendFile) filterEmpty() {
	p := &e.Predefined
	for _, list := range []*[]string{
		&p.PrePackageInstall,
		&p.AdditionalAptPackages,
		&p.PostPackageInstall,
		&p.AdditionalSudoCommands,
		&p.AdditionalUserCommands,
	} {
		out := make([]string, 0, len(*list))
		for _, s := range *list {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		*list = out
	}
}

// OverrideImage replaces the base image when image is not empty.
func (e *ExtendFile) OverrideImage(image string) {
	if image != "" {
		e.Predefined.Image = image
	}
}

// Substitute replaces placeholders in every value of the file.
func (e *ExtendFile) Substitute(env map[string]string) {
	p := &e.Predefined
	p.Image = Substitute(p.Image, env)
	p.PrePackageInstall = substituteAll(p.PrePackageInstall, env)
	p.AdditionalAptPackages = substituteAll(p.AdditionalAptPackages, env)
	p.PostPackageInstall = substituteAll(p.PostPackageInstall, env)
	p.AdditionalSudoCommands = substituteAll(p.AdditionalSudoCommands, env)
	p.AdditionalUserCommands = substituteAll(p.AdditionalUserCommands, env)
	for i := range e.Insertions {
		e.Insertions[i].Anchor = Substitute(e.Insertions[i].Anchor, env)
		e.Insertions[i].Lines = substituteAll(e.Insertions[i].Lines, env)
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
