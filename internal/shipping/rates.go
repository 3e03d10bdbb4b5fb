package shipping

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/beehouse-checkout/internal/pricing"
)

// RateEntry holds the two delivery prices for a region, in whole DZD.
type RateEntry struct {
	HomePrice     pricing.Money `json:"homePrice" yaml:"home"`
	StopDeskPrice pricing.Money `json:"stopDeskPrice" yaml:"stop_desk"`
}

// DefaultEntry is returned for regions missing from the table.
var DefaultEntry = RateEntry{HomePrice: 800, StopDeskPrice: 800}

var (
	// ErrNegativePrice is returned when a rate entry carries a negative price.
	ErrNegativePrice = errors.New("shipping: negative price in rate table")
	// ErrEmptyRegion is returned when a rate entry has no region name.
	ErrEmptyRegion = errors.New("shipping: empty region name in rate table")
)

// publishedRates is the tariff shown on the storefront checkout page. Some regions
// list the same price for both delivery methods; they are kept as published.
var publishedRates = map[string]RateEntry{
	"Mostaganem":         {600, 400},
	"Mascara":            {750, 450},
	"Saida":              {750, 450},
	"Oran":               {750, 450},
	"Alger":              {700, 450},
	"Boumerdès":          {800, 500},
	"Blida":              {800, 500},
	"Tipaza":             {800, 500},
	"Tizi Ouzou":         {800, 500},
	"Bouira":             {800, 500},
	"Béjaïa":             {800, 500},
	"Médéa":              {800, 500},
	"Aïn Defla":          {800, 500},
	"Aïn Témouchent":     {800, 500},
	"Chlef":              {800, 500},
	"Constantine":        {800, 500},
	"Sétif":              {800, 500},
	"Tiaret":             {800, 500},
	"Tlemcen":            {800, 500},
	"Relizane":           {800, 500},
	"Sidi Bel Abbès":     {800, 500},
	"Jijel":              {900, 600},
	"Bordj Bou Arréridj": {900, 600},
	"Annaba":             {900, 600},
	"Batna":              {900, 600},
	"Tissemsilt":         {900, 600},
	"Skikda":             {900, 600},
	"Mila":               {900, 600},
	"M'Sila":             {900, 600},
	"El Tarf":            {950, 600},
	"Guelma":             {950, 600},
	"Khenchela":          {950, 600},
	"Oum El Bouaghi":     {950, 600},
	"Souk Ahras":         {950, 600},
	"Tébessa":            {1000, 600},
	"Laghouat":           {1000, 600},
	"Djelfa":             {1000, 600},
	"Biskra":             {1000, 600},
	"Ouled Djellal":      {1000, 1000},
	"Ghardaïa":           {1100, 700},
	"El Meniaa":          {1100, 700},
	"El Oued":            {1100, 700},
	"El M'Ghair":         {1100, 1100},
	"Ouargla":            {1100, 700},
	"Touggourt":          {1100, 700},
	"El Bayadh":          {1200, 800},
	"Naâma":              {1200, 800},
	"Béchar":             {1200, 800},
	"Béni Abbès":         {1200, 1200},
	"Adrar":              {1500, 1000},
	"Timimoun":           {1500, 1000},
	"Tindouf":            {1700, 1000},
	"In Salah":           {1800, 1200},
	"Illizi":             {1900, 1500},
	"Tamanrasset":        {2000, 1500},
	"Djanet":             {2200, 2200},
}

// RateTable maps region names to rate entries. It is immutable once built.
type RateTable struct {
	entries map[string]RateEntry
	regions []string
}

// NewRateTable copies entries into a new table after validating them.
func NewRateTable(entries map[string]RateEntry) (*RateTable, error) {
	copied := make(map[string]RateEntry, len(entries))
	regions := make([]string, 0, len(entries))
	for region, entry := range entries {
		if strings.TrimSpace(region) == "" {
			return nil, ErrEmptyRegion
		}
		if entry.HomePrice < 0 || entry.StopDeskPrice < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativePrice, region)
		}
		if entry.HomePrice > pricing.MaxAmount || entry.StopDeskPrice > pricing.MaxAmount {
			return nil, fmt.Errorf("%s: %w", region, pricing.ErrAmountOutOfRange)
		}
		copied[region] = entry
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return &RateTable{entries: copied, regions: regions}, nil
}

// DefaultRates returns the published storefront tariff.
func DefaultRates() *RateTable {
	table, err := NewRateTable(publishedRates)
	if err != nil {
		panic(err)
	}
	return table
}

// Lookup returns the entry for region using exact, diacritics-sensitive matching,
// or DefaultEntry when the region is unknown.
func (t *RateTable) Lookup(region string) RateEntry {
	if entry, ok := t.Entry(region); ok {
		return entry
	}
	return DefaultEntry
}

// Entry returns the entry for region and whether it exists.
func (t *RateTable) Entry(region string) (RateEntry, bool) {
	if t == nil {
		return RateEntry{}, false
	}
	entry, ok := t.entries[region]
	return entry, ok
}

// Known reports whether region has its own entry.
func (t *RateTable) Known(region string) bool {
	_, ok := t.Entry(region)
	return ok
}

// Regions lists the region names in lexical order.
func (t *RateTable) Regions() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.regions))
	copy(out, t.regions)
	return out
}

// Len returns the number of regions in the table.
func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

type rateFile struct {
	Rates []struct {
		Region   string        `yaml:"region"`
		Home     pricing.Money `yaml:"home"`
		StopDesk pricing.Money `yaml:"stop_desk"`
	} `yaml:"rates"`
}

// LoadRates reads a YAML rate file. An empty path yields the published tariff.
//
//	rates:
//	  - region: Mostaganem
//	    home: 600
//	    stop_desk: 400
func LoadRates(path string) (*RateTable, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRates(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate file: %w", err)
	}
	return ParseRates(data)
}

// ParseRates decodes YAML rate data into a table. Duplicate regions are rejected.
func ParseRates(data []byte) (*RateTable, error) {
	var raw rateFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode rate file: %w", err)
	}
	entries := make(map[string]RateEntry, len(raw.Rates))
	for _, r := range raw.Rates {
		if _, dup := entries[r.Region]; dup {
			return nil, fmt.Errorf("decode rate file: duplicate region %q", r.Region)
		}
		entries[r.Region] = RateEntry{HomePrice: r.Home, StopDeskPrice: r.StopDesk}
	}
	return NewRateTable(entries)
}
