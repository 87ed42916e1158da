package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/osse101/tombola/internal/domain"
)

// PrizeTier is one named prize with the number of physical units on offer
type PrizeTier struct {
	Name  string `yaml:"name" json:"name" validate:"required"`
	Count int    `yaml:"count" json:"count" validate:"min=1"`
}

// NumberRange is the contiguous ticket range [Start, Start+Count)
type NumberRange struct {
	Start int `yaml:"start" json:"start"`
	Count int `yaml:"count" json:"count" validate:"min=1"`
}

// Raffle is the prize table file
type Raffle struct {
	Prizes  []PrizeTier `yaml:"prizes" json:"prizes" validate:"required,min=1,dive"`
	Numbers NumberRange `yaml:"numbers" json:"numbers"`
}

// DefaultRaffle returns the built-in prize table
func DefaultRaffle() Raffle {
	return Raffle{
		Prizes: []PrizeTier{
			{Name: "Billetes de Avión", Count: 1},
			{Name: "Maleta de Viaje", Count: 1},
			{Name: "Maletín Grande de Herramientas", Count: 6},
			{Name: "Maletín Pequeño de Herramientas", Count: 4},
			{Name: "Mochila", Count: 9},
			{Name: "Smartwatch Amazfit GTR 3 Pro", Count: 1},
			{Name: "Smartphone Xiaomi POCO X7", Count: 1},
			{Name: "Smartwatch Amazfit Bip 6 (Gris)", Count: 1},
			{Name: "Smartwatch Amazfit Bip 6 (Negro)", Count: 1},
			{Name: "Tablet Xiaomi Redmi Pad Pro 12.1\"", Count: 1},
			{Name: "Tablet Xiaomi Redmi Pad 2 11\"", Count: 1},
			{Name: "Smartphone Xiaomi Redmi 15", Count: 1},
		},
		Numbers: NumberRange{Start: 901, Count: 97},
	}
}

// LoadRaffle reads a YAML or JSON prize table. An empty path returns the built-in table.
func LoadRaffle(path string) (Raffle, error) {
	if path == "" {
		return DefaultRaffle(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Raffle{}, fmt.Errorf("%s %s: %w", ErrContextReadRaffle, path, err)
	}

	var r Raffle
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtYAML, ExtYML:
		err = yaml.Unmarshal(data, &r)
	case ExtJSON:
		err = json.Unmarshal(data, &r)
	default:
		return Raffle{}, fmt.Errorf("%w: unsupported raffle file extension %q", domain.ErrInvalidConfig, filepath.Ext(path))
	}
	if err != nil {
		return Raffle{}, fmt.Errorf("%s %s: %w", ErrContextDecodeRaffle, path, err)
	}

	r.normalize()
	if err := r.Validate(); err != nil {
		return Raffle{}, err
	}
	return r, nil
}

// Validate checks the table is drawable
func (r Raffle) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return nil
}

// normalize trims names and folds them to NFC so equal-looking names compare equal.
func (r *Raffle) normalize() {
	for i := range r.Prizes {
		r.Prizes[i].Name = norm.NFC.String(strings.TrimSpace(r.Prizes[i].Name))
	}
}

// TotalPrizes returns the number of physical prizes across all tiers
func (r Raffle) TotalPrizes() int {
	total := 0
	for _, p := range r.Prizes {
		total += p.Count
	}
	return total
}

// PoolConfig flattens the table into the draw pools. Each tier contributes
// Count consecutive entries, in file order.
func (r Raffle) PoolConfig() domain.PoolConfig {
	prizes := make([]string, 0, r.TotalPrizes())
	for _, p := range r.Prizes {
		for i := 0; i < p.Count; i++ {
			prizes = append(prizes, p.Name)
		}
	}
	return domain.PoolConfig{
		Prizes:      prizes,
		NumberStart: r.Numbers.Start,
		NumberCount: r.Numbers.Count,
	}
}
