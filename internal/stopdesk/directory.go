package stopdesk

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seed []byte

var (
	// ErrNotFound is returned when no pickup point has the requested id.
	ErrNotFound = errors.New("stopdesk: pickup point not found")
	// ErrDuplicateID is returned when two points in a data file share an id.
	ErrDuplicateID = errors.New("stopdesk: duplicate pickup point id")
	// ErrInvalidPoint is returned for points with no name, no region or out-of-range coordinates.
	ErrInvalidPoint = errors.New("stopdesk: invalid pickup point")
)

// PickupPoint is a carrier location where parcels can be collected.
type PickupPoint struct {
	ID        int64   `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Address   string  `json:"address" yaml:"address"`
	City      string  `json:"city" yaml:"city"`
	Phone     string  `json:"phone,omitempty" yaml:"phone"`
	Hours     string  `json:"hours,omitempty" yaml:"hours"`
	Days      string  `json:"days,omitempty" yaml:"days"`
	Region    string  `json:"regionName" yaml:"region"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Active    *bool   `json:"-" yaml:"active,omitempty"`
}

// IsActive reports whether the point accepts parcels. Points default to active.
func (p PickupPoint) IsActive() bool {
	return p.Active == nil || *p.Active
}

// Directory is an immutable set of pickup points indexed by id and region.
type Directory struct {
	byID     map[int64]PickupPoint
	byRegion map[string][]PickupPoint
	all      []PickupPoint
}

// NewDirectory validates points and indexes them.
func NewDirectory(points []PickupPoint) (*Directory, error) {
	d := &Directory{
		byID:     make(map[int64]PickupPoint, len(points)),
		byRegion: make(map[string][]PickupPoint),
		all:      make([]PickupPoint, 0, len(points)),
	}
	for _, p := range points {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Region) == "" {
			return nil, fmt.Errorf("%w: id %d", ErrInvalidPoint, p.ID)
		}
		if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
			return nil, fmt.Errorf("%w: id %d coordinates", ErrInvalidPoint, p.ID)
		}
		if _, dup := d.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		d.byID[p.ID] = p
		d.all = append(d.all, p)
		if p.IsActive() {
			d.byRegion[p.Region] = append(d.byRegion[p.Region], p)
		}
	}
	for _, list := range d.byRegion {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].City != list[j].City {
				return list[i].City < list[j].City
			}
			return list[i].Name < list[j].Name
		})
	}
	sort.SliceStable(d.all, func(i, j int) bool { return d.all[i].ID < d.all[j].ID })
	return d, nil
}

// ByRegion returns the active points of region, matched exactly, ordered by city then name.
func (d *Directory) ByRegion(region string) []PickupPoint {
	if d == nil {
		return nil
	}
	list := d.byRegion[region]
	out := make([]PickupPoint, len(list))
	copy(out, list)
	return out
}

// Get returns the point with id.
func (d *Directory) Get(id int64) (PickupPoint, error) {
	if d != nil {
		if p, ok := d.byID[id]; ok {
			return p, nil
		}
	}
	return PickupPoint{}, ErrNotFound
}

// InRegion reports whether id is an active point of region.
func (d *Directory) InRegion(id int64, region string) bool {
	p, err := d.Get(id)
	return err == nil && p.IsActive() && p.Region == region
}

// All returns every point ordered by id.
func (d *Directory) All() []PickupPoint {
	if d == nil {
		return nil
	}
	out := make([]PickupPoint, len(d.all))
	copy(out, d.all)
	return out
}

type directoryFile struct {
	Points []PickupPoint `yaml:"points"`
}

// LoadDirectory reads pickup points from a YAML file, or the bundled seed when path is empty.
func LoadDirectory(path string) (*Directory, error) {
	data := seed
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read pickup points: %w", err)
		}
		data = raw
	}
	return ParseDirectory(data)
}

// ParseDirectory decodes YAML pickup-point data.
func ParseDirectory(data []byte) (*Directory, error) {
	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode pickup points: %w", err)
	}
	return NewDirectory(file.Points)
}
