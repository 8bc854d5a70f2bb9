package hazard

// Modifier is one effect a hazard exerts on a channel.
type Modifier struct {
	Channel   Channel   `yaml:"channel" json:"channel"`
	Value     float64   `yaml:"value" json:"value"`
	Operation Operation `yaml:"operation" json:"operation"`
}

// Scale weakens the modifier toward its neutral value by factor f.
// Additive values scale linearly; multiplicative values scale their deviation
// from 1, so f=0 is always "no effect" and f=1 the full configured effect.
func (m Modifier) Scale(f float64) Modifier {
	switch m.Operation {
	case OpMultiply:
		m.Value = 1 + (m.Value-1)*f
	default:
		m.Value *= f
	}
	return m
}

// Apply applies the modifier to base.
func (m Modifier) Apply(base float64) float64 {
	if m.Operation == OpMultiply {
		return base * m.Value
	}
	return base + m.Value
}

func scaleAll(mods []Modifier, f float64) []Modifier {
	out := make([]Modifier, len(mods))
	for i, m := range mods {
		out[i] = m.Scale(f)
	}
	return out
}

// Resolved is the per-channel fold of a list of modifiers.
type Resolved map[Channel]Modifier

// Combine folds effects into one modifier per channel.
//
// The first modifier for a channel is taken as is. A later one with the same
// operation merges: additive values sum, multiplicative deviations from 1 sum
// (1 + d1 + d2, not the exact product). A later one with a different
// operation replaces the entry outright.
func Combine(effects []Modifier) Resolved {
	out := make(Resolved, len(effects))
	for _, m := range effects {
		cur, ok := out[m.Channel]
		if !ok || cur.Operation != m.Operation {
			out[m.Channel] = m
			continue
		}
		switch m.Operation {
		case OpMultiply:
			cur.Value = 1 + (cur.Value - 1) + (m.Value - 1)
		default:
			cur.Value += m.Value
		}
		out[m.Channel] = cur
	}
	return out
}

// Get returns the combined modifier for ch.
func (r Resolved) Get(ch Channel) (Modifier, bool) {
	m, ok := r[ch]
	return m, ok
}

// Apply returns base modified by the channel's combined modifier, or base
// unchanged when nothing acts on ch.
func (r Resolved) Apply(ch Channel, base float64) float64 {
	m, ok := r[ch]
	if !ok {
		return base
	}
	return m.Apply(base)
}
