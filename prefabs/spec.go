package prefabs

import (
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, eris.Wrapf(err, "prefabs: load %s", filename)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, eris.Wrapf(err, "prefabs: unmarshal %s", filename)
	}

	return spec, nil
}

// EntityBuildSpec is a prefab: a name plus raw component specs keyed by
// builder name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec re-decodes one raw component value into T.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type HealthComponentSpec struct {
	Max     int  `yaml:"max"`
	Current *int `yaml:"current"`
}

type ResistanceComponentSpec struct {
	Flat  float64 `yaml:"flat"`
	Ratio float64 `yaml:"ratio"`
}

type InvulnerableComponentSpec struct {
	Frames int `yaml:"frames"`
}

type PhysicsBodyComponentSpec struct {
	Mass   float64 `yaml:"mass"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Static bool    `yaml:"static"`
}

type KnockbackComponentSpec struct {
	MaxDeltaV float64 `yaml:"max_delta_v"`
}
