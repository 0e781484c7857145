package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Load the declarative UGen catalog (src/ugens.yaml) at
 *		startup and expose per-kind port metadata to the
 *		multi-channel expander. Mirrors the shape of a startup
 *		YAML table loaded into an in-memory lookup structure, the
 *		same pattern used elsewhere in this codebase for
 *		configuration.
 *
 *------------------------------------------------------------------*/

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed ugens.yaml
var ugenCatalogYAML []byte

type portSpec struct {
	Name       string  `yaml:"name"`
	Unexpanded bool    `yaml:"unexpanded"`
	Derived    bool    `yaml:"derived"`
	Default    float32 `yaml:"default"`
}

type ugenSpec struct {
	Kind         string     `yaml:"kind"`
	Rates        []string   `yaml:"rates"`
	Ports        []portSpec `yaml:"ports"`
	NumOutputs   int        `yaml:"outputs"`
	Pure         bool       `yaml:"pure"`
	WidthFirst   bool       `yaml:"widthFirst"`
	DoneFlag     bool       `yaml:"doneFlag"`
	OutputSink   bool       `yaml:"outputSink"`
	InputFeedbackAllowed bool `yaml:"inputFeedbackAllowed"`
	NeedsScratch bool       `yaml:"needsScratch"`
	SpecialIndex int        `yaml:"specialIndex"`
}

func (s *ugenSpec) port(name string) *portSpec {
	for i := range s.Ports {
		if s.Ports[i].Name == name {
			return &s.Ports[i]
		}
	}
	return nil
}

func (s *ugenSpec) supportsRate(token string) bool {
	for _, r := range s.Rates {
		if r == token {
			return true
		}
	}
	return false
}

var ugenCatalog map[string]*ugenSpec

func init() {
	var entries []*ugenSpec
	if err := yaml.Unmarshal(ugenCatalogYAML, &entries); err != nil {
		logger.Error("failed to parse embedded UGen catalog", "error", err)
		return
	}
	ugenCatalog = make(map[string]*ugenSpec, len(entries))
	for _, e := range entries {
		ugenCatalog[e.Kind] = e
	}
}

func lookupUGen(kind string) (*ugenSpec, bool) {
	s, ok := ugenCatalog[kind]
	return s, ok
}
