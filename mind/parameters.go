package mind

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parameters configures a model. The zero value is not useful; start from
// DefaultParameters.
type Parameters struct {
	// Initial values of the stocks.
	DefeatHumiliation      float64 `yaml:"Defeat_Humiliation"`
	Entrapment             float64 `yaml:"Entrapment"`
	SuicidalIdeation       float64 `yaml:"Suicidal_Ideation"`
	SuicidalBehavior       float64 `yaml:"Suicidal_Behavior"`
	LifeEventsEffect       float64 `yaml:"Life_Events_Effect"`
	CapabilityFromPlanning float64 `yaml:"Capability_From_Planning"`
	TimeAtHighRisk         float64 `yaml:"Time_At_High_Risk"`

	// Constants.
	AttemptThreshold            float64 `yaml:"attempt_threshold"`
	CopingInit                  float64 `yaml:"coping_init"`
	DiathesisInit               float64 `yaml:"diathesis_init"`
	DiathesisWeight             float64 `yaml:"diathesis_weight"`
	EnvironmentInit             float64 `yaml:"environment_init"`
	EnvironmentWeight           float64 `yaml:"environment_weight"`
	EventDecayRate              float64 `yaml:"event_decay_rate"`
	EventMaxEffect              float64 `yaml:"event_max_effect"`
	HighRiskDayWindow           float64 `yaml:"high_risk_day_window"`
	HighRiskVolitionalWeight    float64 `yaml:"high_risk_volitional_weight"`
	NormalEventTolerance        float64 `yaml:"normal_event_tolerance"`
	ThreatToSelfCharacteristics float64 `yaml:"threat_to_self_characteristics"`
	MotivationalCharacteristics float64 `yaml:"motivational_characteristics"`
	VolitionalCharacteristics   float64 `yaml:"volitional_characteristics"`
	SuicideDeathRate            float64 `yaml:"suicide_death_rate"`
	TimeReduction               float64 `yaml:"time_reduction"`
}

// DefaultParameters returns the parameters of the reference model. All
// stocks start empty.
func DefaultParameters() Parameters {
	return Parameters{
		AttemptThreshold:            100.0,
		CopingInit:                  0.1,
		DiathesisInit:               0.5,
		DiathesisWeight:             20.0,
		EnvironmentInit:             0.5,
		EnvironmentWeight:           20.0,
		EventDecayRate:              0.5,
		EventMaxEffect:              50.0,
		HighRiskDayWindow:           50.0,
		HighRiskVolitionalWeight:    0.2,
		NormalEventTolerance:        0.5,
		ThreatToSelfCharacteristics: 0.1,
		MotivationalCharacteristics: 0.1,
		VolitionalCharacteristics:   0.1,
		SuicideDeathRate:            0.03,
		TimeReduction:               0.2,
	}
}

// ParseParameters reads YAML parameters on top of the defaults. Keys that
// are not parameters are rejected.
func ParseParameters(data []byte) (Parameters, error) {
	params := DefaultParameters()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&params)
	if err != nil && !errors.Is(err, io.EOF) {
		return Parameters{}, fmt.Errorf("mind: invalid parameters: %w", err)
	}

	return params, nil
}

// LoadParameters reads a YAML parameter file on top of the defaults.
func LoadParameters(path string) (Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Parameters{}, err
	}

	return ParseParameters(data)
}

// YAML encodes the parameters with the same keys ParseParameters reads.
func (p Parameters) YAML() ([]byte, error) {
	return yaml.Marshal(p)
}
