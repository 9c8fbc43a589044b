package mind

import (
	"github.com/sarchlab/stockflow/sim"
	"github.com/sarchlab/stockflow/stockflow"
)

// HighRiskFlag names the flag that marks a person as currently at high risk.
const HighRiskFlag = "isHighRisk"

// Stock names.
const (
	DefeatHumiliation      = "Defeat_Humiliation"
	Entrapment             = "Entrapment"
	SuicidalIdeation       = "Suicidal_Ideation"
	SuicidalBehavior       = "Suicidal_Behavior"
	LifeEventsEffect       = "Life_Events_Effect"
	CapabilityFromPlanning = "Capability_From_Planning"
	TimeAtHighRisk         = "Time_At_High_Risk"
)

// Converter names that are commonly read by events.
const (
	Capability        = "CAPABILITY"
	Desire            = "DESIRE"
	Risk              = "RISK"
	NormalEventEffect = "normal_event_effect"
	SevereEventEffect = "severe_event_effect"
)

type vals = stockflow.Values

func get(name string) stockflow.Equation {
	return func(v *vals) float64 { return v.Get(name) }
}

func diff(in, out string) stockflow.Equation {
	return func(v *vals) float64 { return v.Get(in) - v.Get(out) }
}

func scaled(name, factor string) stockflow.Equation {
	return func(v *vals) float64 { return v.Get(name) * v.Get(factor) }
}

func zero(*vals) float64 { return 0 }

// New builds the model with the given parameters and step size.
func New(p Parameters, dt sim.VTime) *stockflow.Model {
	m := stockflow.New(dt)

	m.DeclareFlag(HighRiskFlag, false)

	declareStocks(m, p)
	declareFlows(m)
	declareConverters(m)
	declareConstants(m, p)

	return m
}

func declareStocks(m *stockflow.Model, p Parameters) {
	m.Stock(DefeatHumiliation, p.DefeatHumiliation,
		diff("Negative_Cognition", "Defeat_Time_Reduction"))
	m.Stock(Entrapment, p.Entrapment,
		diff("Defeat_to_Entrapment", "Entrapment_Time_Reduction"))
	m.Stock(SuicidalIdeation, p.SuicidalIdeation,
		diff("Entrapment_to_Ideation", "Ideation_Time_Reduction"))
	m.Stock(SuicidalBehavior, p.SuicidalBehavior,
		diff("Ideation_to_Behavior", "Behavior_Time_Reduction"))
	m.Stock(LifeEventsEffect, p.LifeEventsEffect,
		diff("Life_Events_Triggers", "Life_Events_Time_Reduction"))
	m.Stock(CapabilityFromPlanning, p.CapabilityFromPlanning,
		get("Planning"))
	m.Stock(TimeAtHighRisk, p.TimeAtHighRisk,
		diff("Increasing_Time_At_High_Risk", "Decreasing_Time_At_High_Risk"))
}

func declareFlows(m *stockflow.Model) {
	m.Flow("Negative_Cognition", func(v *vals) float64 {
		events := v.Get(LifeEventsEffect) * v.Get("diathesis") *
			v.Get("environment")
		load := (v.Get(Entrapment) + v.Get(SuicidalIdeation) +
			v.Get(SuicidalBehavior)) / 3.0

		return 0.4*events +
			0.4*events*load +
			v.Get("diathesis")*v.Get("diathesis_weight") +
			v.Get("environment")*v.Get("environment_weight")
	})
	m.Flow("Defeat_Time_Reduction", scaled(DefeatHumiliation, "time_reduction"))
	m.Flow("Defeat_to_Entrapment", scaled(DefeatHumiliation, "threat_to_self_mod"))
	m.Flow("Entrapment_Time_Reduction", scaled(Entrapment, "time_reduction"))
	m.Flow("Entrapment_to_Ideation", scaled(Entrapment, "motivational_mod"))
	m.Flow("Ideation_Time_Reduction", scaled(SuicidalIdeation, "time_reduction"))
	m.Flow("Ideation_to_Behavior", scaled(SuicidalIdeation, "volitional_mod"))
	m.Flow("Behavior_Time_Reduction", scaled(SuicidalBehavior, "time_reduction"))

	// Life events and planning only change through events for now.
	m.Flow("Life_Events_Triggers", zero)
	m.Flow("Life_Events_Time_Reduction", scaled(LifeEventsEffect, "event_max_effect"))
	m.Flow("Planning", zero)

	m.Flow("Increasing_Time_At_High_Risk", func(v *vals) float64 {
		return stockflow.If(
			v.Flag(HighRiskFlag) &&
				v.Get(TimeAtHighRisk) < v.Get("high_risk_day_window"),
			1, 0)
	})
	m.Flow("Decreasing_Time_At_High_Risk", func(v *vals) float64 {
		return stockflow.If(
			v.Get(TimeAtHighRisk) > 0 && !v.Flag(HighRiskFlag),
			1, 0)
	})
}

func declareConverters(m *stockflow.Model) {
	m.Converter(Capability, func(v *vals) float64 {
		return v.Get("volitional_mod") * 100
	})
	m.Converter(Desire, get(SuicidalIdeation))
	m.Converter(Risk, func(v *vals) float64 {
		return 0.4*v.Get(SuicidalBehavior) +
			stockflow.If(v.Flag(HighRiskFlag), 0.5*v.Get("attempt_threshold"), 0)
	})
	m.Converter("diathesis", get("diathesis_init"))
	m.Converter("environment", get("environment_init"))
	m.Converter("coping", get("coping_init"))
	m.Converter(NormalEventEffect, func(v *vals) float64 {
		return v.Get("event_max_effect") *
			(1 - v.Get("normal_event_tolerance")) *
			(1 - v.Get("coping"))
	})
	m.Converter(SevereEventEffect, func(v *vals) float64 {
		return v.Get("event_max_effect") * (1 - v.Get("coping"))
	})
	m.Converter("threat_to_self_mod", func(v *vals) float64 {
		return (v.Get("threat_to_self_characteristics") +
			(1 - v.Get("coping"))) / 2.0
	})
	m.Converter("motivational_mod", get("motivational_characteristics"))
	m.Converter("volitional_mod", func(v *vals) float64 {
		window := v.Get("high_risk_day_window")
		highRisk := stockflow.If(window != 0, v.Get(TimeAtHighRisk)/window, 0)

		return (v.Get("high_risk_volitional_weight")*highRisk +
			v.Get(CapabilityFromPlanning)/10.0 +
			v.Get("volitional_characteristics")) / 4.0
	})
}

func declareConstants(m *stockflow.Model, p Parameters) {
	m.Constant("attempt_threshold", p.AttemptThreshold)
	m.Constant("coping_init", p.CopingInit)
	m.Constant("diathesis_init", p.DiathesisInit)
	m.Constant("diathesis_weight", p.DiathesisWeight)
	m.Constant("environment_init", p.EnvironmentInit)
	m.Constant("environment_weight", p.EnvironmentWeight)
	m.Constant("event_decay_rate", p.EventDecayRate)
	m.Constant("event_max_effect", p.EventMaxEffect)
	m.Constant("high_risk_day_window", p.HighRiskDayWindow)
	m.Constant("high_risk_volitional_weight", p.HighRiskVolitionalWeight)
	m.Constant("normal_event_tolerance", p.NormalEventTolerance)
	m.Constant("threat_to_self_characteristics", p.ThreatToSelfCharacteristics)
	m.Constant("motivational_characteristics", p.MotivationalCharacteristics)
	m.Constant("volitional_characteristics", p.VolitionalCharacteristics)
	m.Constant("suicide_death_rate", p.SuicideDeathRate)
	m.Constant("time_reduction", p.TimeReduction)
}
