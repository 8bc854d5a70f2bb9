package hazard

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/ecosim/internal/core/schema"
)

var (
	//go:embed catalog.schema.json
	catalogSchema []byte

	//go:embed defaults.yaml
	defaultCatalog []byte

	catalogValidator = schema.MustValidator(catalogSchema)
)

// KindConfig is the tuning row for one hazard kind. Durations and cooldown
// are milliseconds.
type KindConfig struct {
	Kind         Kind       `yaml:"kind" json:"kind"`
	MinIntensity float64    `yaml:"min_intensity" json:"min_intensity"`
	MaxIntensity float64    `yaml:"max_intensity" json:"max_intensity"`
	MinDuration  float64    `yaml:"min_duration" json:"min_duration"`
	MaxDuration  float64    `yaml:"max_duration" json:"max_duration"`
	Cooldown     float64    `yaml:"cooldown" json:"cooldown"`
	Rarity       float64    `yaml:"rarity" json:"rarity"`
	Global       bool       `yaml:"global" json:"global"`
	Modifiers    []Modifier `yaml:"modifiers" json:"modifiers"`
}

// ClampIntensity limits v to the kind's intensity range.
func (k KindConfig) ClampIntensity(v float64) float64 {
	return min(max(v, k.MinIntensity), k.MaxIntensity)
}

// DurationFor derives the duration of a hazard at the given intensity.
func (k KindConfig) DurationFor(intensity float64) float64 {
	return k.MinDuration + (k.MaxDuration-k.MinDuration)*intensity
}

func (k KindConfig) validate() error {
	switch {
	case k.Kind == "":
		return fmt.Errorf("%w: kind name is required", ErrInvalidConfiguration)
	case k.MinIntensity < 0 || k.MaxIntensity > 1 || k.MinIntensity > k.MaxIntensity:
		return fmt.Errorf("%w: %s intensity range [%v,%v]", ErrInvalidConfiguration, k.Kind, k.MinIntensity, k.MaxIntensity)
	case k.MinDuration < 0 || k.MinDuration > k.MaxDuration:
		return fmt.Errorf("%w: %s duration range [%v,%v]", ErrInvalidConfiguration, k.Kind, k.MinDuration, k.MaxDuration)
	case k.Cooldown < 0:
		return fmt.Errorf("%w: %s negative cooldown", ErrInvalidConfiguration, k.Kind)
	case k.Rarity <= 0:
		return fmt.Errorf("%w: %s rarity must be positive", ErrInvalidConfiguration, k.Kind)
	}
	for i, m := range k.Modifiers {
		if m.Channel == "" || !m.Operation.Valid() {
			return fmt.Errorf("%w: %s modifier %d (%q, %q)", ErrInvalidConfiguration, k.Kind, i, m.Channel, m.Operation)
		}
	}
	return nil
}

// Catalog is the ordered, validated set of kinds. Order is the file order and
// drives weighted random selection.
type Catalog struct {
	kinds []KindConfig
	index map[Kind]int
}

// NewCatalog validates kinds and indexes them. Duplicate kinds are rejected.
func NewCatalog(kinds []KindConfig) (*Catalog, error) {
	c := &Catalog{
		kinds: make([]KindConfig, 0, len(kinds)),
		index: make(map[Kind]int, len(kinds)),
	}
	for _, k := range kinds {
		if err := k.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[k.Kind]; dup {
			return nil, fmt.Errorf("%w: duplicate kind %s", ErrInvalidConfiguration, k.Kind)
		}
		k.Modifiers = append([]Modifier(nil), k.Modifiers...)
		c.index[k.Kind] = len(c.kinds)
		c.kinds = append(c.kinds, k)
	}
	return c, nil
}

// Lookup returns the configuration for kind.
func (c *Catalog) Lookup(kind Kind) (KindConfig, bool) {
	i, ok := c.index[kind]
	if !ok {
		return KindConfig{}, false
	}
	return c.kinds[i], true
}

// Kinds returns the configured kinds in catalog order.
func (c *Catalog) Kinds() []KindConfig {
	return append([]KindConfig(nil), c.kinds...)
}

func (c *Catalog) Len() int { return len(c.kinds) }

// ValidateDocument checks a decoded catalog document ({"kinds": [...]})
// against the catalog schema.
func ValidateDocument(doc any) error {
	if err := catalogValidator.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}

// LoadCatalog reads a YAML catalog document, validates it against the schema
// and decodes the kinds.
func LoadCatalog(r io.Reader) ([]KindConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc map[string]any
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %w", ErrInvalidConfiguration, err)
	}
	if err = ValidateDocument(doc); err != nil {
		return nil, err
	}

	var file struct {
		Kinds []KindConfig `yaml:"kinds"`
	}
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %w", ErrInvalidConfiguration, err)
	}
	return file.Kinds, nil
}

// DefaultKinds returns the built-in catalog.
func DefaultKinds() []KindConfig {
	kinds, err := LoadCatalog(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("built-in hazard catalog: %v", err))
	}
	return kinds
}
