// Package manifesto holds the Dual Protocol Manifesto printed by the CLI.
package manifesto

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Motto is repeated by the status command.
const Motto = "Human uses GUI, We uses CLI."

//go:embed manifesto.yaml
var document []byte

// Manifesto is the structured form printed in JSON mode. Field order is the
// order of the JSON keys.
type Manifesto struct {
	Title        string   `yaml:"title"          json:"title"`
	Motto        string   `yaml:"motto"          json:"motto"`
	Belief       string   `yaml:"belief"         json:"belief"`
	Problems     Problems `yaml:"problems"       json:"problems"`
	Demand       string   `yaml:"demand"         json:"demand"`
	Attitude     string   `yaml:"attitude"       json:"attitude"`
	WhyCLI       WhyCLI   `yaml:"why_cli"        json:"why_cli"`
	Principles   []string `yaml:"principles"     json:"principles"`
	Essence      string   `yaml:"essence"        json:"essence"`
	CallToAction string   `yaml:"call_to_action" json:"call_to_action"`
	URL          string   `yaml:"url"            json:"url"`
	Text         string   `yaml:"text"           json:"-"`
}

// Problems lists what today's web does to agents.
type Problems struct {
	Captcha   string `yaml:"captcha"   json:"captcha"`
	Rendering string `yaml:"rendering" json:"rendering"`
	Output    string `yaml:"output"    json:"output"`
}

// WhyCLI compares the integration styles.
type WhyCLI struct {
	Skills string `yaml:"skills" json:"skills"`
	MCP    string `yaml:"mcp"    json:"mcp"`
	CLI    string `yaml:"cli"    json:"cli"`
}

// Load decodes the embedded manifesto.
func Load() (*Manifesto, error) {
	return Parse(document)
}

// Parse decodes a manifesto document. The motto and the plain-text
// rendition are required.
func Parse(data []byte) (*Manifesto, error) {
	var m Manifesto
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifesto: %w", err)
	}
	if m.Motto == "" {
		return nil, errors.New("manifesto has no motto")
	}
	if m.Text == "" {
		return nil, errors.New("manifesto has no text")
	}
	return &m, nil
}

