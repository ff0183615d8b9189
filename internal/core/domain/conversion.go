package domain

import "github.com/berfenger/heatnet/pkg/component"

// ConversionOutcome is the result tag of a single conversion attempt.
type ConversionOutcome int

const (
	OUTCOME_CONVERTED ConversionOutcome = iota
	// OUTCOME_SKIP excludes the asset from the network permanently.
	OUTCOME_SKIP
	// OUTCOME_RETRY_LATER defers the asset to the next round because it
	// depends on an asset that is not converted yet.
	OUTCOME_RETRY_LATER
)

func (o ConversionOutcome) String() string {
	switch o {
	case OUTCOME_CONVERTED:
		return "converted"
	case OUTCOME_SKIP:
		return "skip"
	case OUTCOME_RETRY_LATER:
		return "retry_later"
	}
	return "unknown"
}

type Conversion struct {
	Outcome   ConversionOutcome
	Kind      component.Kind
	Modifiers Modifiers
	Reason    string
}

func Converted(kind component.Kind, modifiers Modifiers) Conversion {
	return Conversion{Outcome: OUTCOME_CONVERTED, Kind: kind, Modifiers: modifiers}
}

func Skip(reason string) Conversion {
	return Conversion{Outcome: OUTCOME_SKIP, Reason: reason}
}

func RetryLater(reason string) Conversion {
	return Conversion{Outcome: OUTCOME_RETRY_LATER, Reason: reason}
}

// MODIFIER_NODE_CONNECTIONS is the number of connection slots of a node.
const MODIFIER_NODE_CONNECTIONS = "n"

// Modifiers are the parameters of a component instance. Four-port
// components nest per-circuit modifiers under "Primary" and "Secondary".
type Modifiers map[string]any

func (m Modifiers) Float(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func (m Modifiers) Sub(key string) Modifiers {
	if sub, ok := m[key].(Modifiers); ok {
		return sub
	}
	return nil
}

// MergeModifiers returns a deep merge of base and overrides; overrides win.
func MergeModifiers(base, overrides Modifiers) Modifiers {
	merged := make(Modifiers, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		if sub, ok := v.(Modifiers); ok {
			if baseSub, ok := merged[k].(Modifiers); ok {
				merged[k] = MergeModifiers(baseSub, sub)
				continue
			}
		}
		merged[k] = v
	}
	return merged
}

// flatten writes every numeric modifier into out as prefix.key.
func (m Modifiers) flatten(prefix string, out map[string]float64) {
	for k, v := range m {
		name := prefix + "." + k
		switch val := v.(type) {
		case Modifiers:
			val.flatten(name, out)
		case float64:
			out[name] = val
		case int:
			out[name] = float64(val)
		}
	}
}
