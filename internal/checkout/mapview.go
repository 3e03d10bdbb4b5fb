package checkout

import "github.com/noah-isme/beehouse-checkout/internal/stopdesk"

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Marker is a pickup point drawn on the map.
type Marker struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Position LatLng `json:"position"`
	Selected bool   `json:"selected"`
}

// Bounds is a south-west/north-east rectangle.
type Bounds struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

// Viewport tells the map widget where to look.
type Viewport struct {
	Center LatLng  `json:"center"`
	Zoom   int     `json:"zoom,omitempty"`
	Fit    *Bounds `json:"fit,omitempty"`
}

const (
	defaultZoom = 6
	pinZoom     = 13
	boundsPad   = 0.1
)

// DefaultCenter is Algiers, the initial map position.
var DefaultCenter = LatLng{Lat: 36.7538, Lng: 3.0588}

// MapViewState is the map content owned by one session.
type MapViewState struct {
	Home     *LatLng  `json:"home,omitempty"`
	Markers  []Marker `json:"markers"`
	Selected *int64   `json:"selected,omitempty"`
}

// ShowPickupPoints replaces the markers with points and drops a selection that is no longer shown.
func (m *MapViewState) ShowPickupPoints(points []stopdesk.PickupPoint) {
	m.Markers = make([]Marker, 0, len(points))
	found := false
	for _, p := range points {
		selected := m.Selected != nil && *m.Selected == p.ID
		found = found || selected
		m.Markers = append(m.Markers, Marker{
			ID:       p.ID,
			Name:     p.Name,
			Address:  p.Address,
			Position: LatLng{Lat: p.Latitude, Lng: p.Longitude},
			Selected: selected,
		})
	}
	if !found {
		m.Selected = nil
	}
}

// ClearPickupPoints removes every marker and the selection.
func (m *MapViewState) ClearPickupPoints() {
	m.Markers = []Marker{}
	m.Selected = nil
}

// Select highlights the marker with id. It reports false when no such marker is shown.
func (m *MapViewState) Select(id int64) bool {
	idx := -1
	for i := range m.Markers {
		if m.Markers[i].ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return false
	}
	for i := range m.Markers {
		m.Markers[i].Selected = i == idx
	}
	m.Selected = &id
	return true
}

// PinHome places the home marker.
func (m *MapViewState) PinHome(at LatLng) {
	m.Home = &at
}

// Viewport fits the pickup markers padded by 10% on each side when any are shown,
// otherwise centres on the home pin, otherwise on Algiers.
func (m MapViewState) Viewport() Viewport {
	if len(m.Markers) > 0 {
		b := Bounds{SouthWest: m.Markers[0].Position, NorthEast: m.Markers[0].Position}
		for _, mk := range m.Markers[1:] {
			b.SouthWest.Lat = min(b.SouthWest.Lat, mk.Position.Lat)
			b.SouthWest.Lng = min(b.SouthWest.Lng, mk.Position.Lng)
			b.NorthEast.Lat = max(b.NorthEast.Lat, mk.Position.Lat)
			b.NorthEast.Lng = max(b.NorthEast.Lng, mk.Position.Lng)
		}
		dLat := (b.NorthEast.Lat - b.SouthWest.Lat) * boundsPad
		dLng := (b.NorthEast.Lng - b.SouthWest.Lng) * boundsPad
		b.SouthWest.Lat -= dLat
		b.SouthWest.Lng -= dLng
		b.NorthEast.Lat += dLat
		b.NorthEast.Lng += dLng
		center := LatLng{
			Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
			Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
		}
		return Viewport{Center: center, Fit: &b}
	}
	if m.Home != nil {
		return Viewport{Center: *m.Home, Zoom: pinZoom}
	}
	return Viewport{Center: DefaultCenter, Zoom: defaultZoom}
}
