package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for cellconsole.yml. Extensions
// are not reflected; unknown top-level keys stay allowed so sections such as
// "logging" can be owned by other packages.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous:                  true,
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		ExpandedStruct:             true,
		FieldNameTag:               "yaml",
	}

	type BaseConfig struct {
		Backend       BackendConfig      `yaml:"backend,omitempty"`
		Polling       PollingConfig      `yaml:"polling,omitempty"`
		Notifications NotificationConfig `yaml:"notifications,omitempty"`
		Analyze       AnalyzeConfig      `yaml:"analyze,omitempty"`
		Motion        MotionConfig       `yaml:"motion,omitempty"`
		Overlay       OverlayConfig      `yaml:"overlay,omitempty"`
		Server        ServerConfig       `yaml:"server,omitempty"`
		UI            UIConfig           `yaml:"ui,omitempty"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "cellconsole configuration"
	schema.Description = "Schema for cellconsole.yml."
	schema.AdditionalProperties = jsonschema.TrueSchema

	return json.MarshalIndent(schema, "", "  ")
}
