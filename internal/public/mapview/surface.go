// Package mapview keeps the map surface in step with a browse controller: one marker
// per visible shop, a highlighted marker for the selection, and a viewport that
// follows the selected shop.
package mapview

import (
	"github.com/sngm3741/coffee-hunter/api/internal/public/application"
	"github.com/sngm3741/coffee-hunter/api/internal/public/domain"
)

const (
	// DefaultZoom is the initial zoom level of the map.
	DefaultZoom = 14

	markerSize         = 40
	selectedMarkerSize = 48
	selectedZIndex     = 1000
)

// DefaultCenter is the initial map center (Tel Aviv).
var DefaultCenter = domain.Location{Lat: 32.0853, Lng: 34.7818}

// Source is the part of the controller the map surface depends on.
type Source interface {
	State() application.State
	Subscribe(fn func(application.State)) (unsubscribe func())
	SelectShop(id string)
}

// Marker is one rendered pin.
type Marker struct {
	ShopID       string
	Position     domain.Location
	Selected     bool
	Size         int
	ZIndexOffset int
	Popup        Popup
}

// Popup is the summary shown when a marker is opened.
type Popup struct {
	Name         string
	Neighborhood string
	OverallScore float64
}

// Viewport is the visible map region.
type Viewport struct {
	Center domain.Location
	Zoom   int
}

// Surface is a map widget bound to a Source between Mount and Unmount.
type Surface struct {
	source      Source
	mounted     bool
	unsubscribe func()

	markers  []Marker
	byID     map[string]int
	viewport Viewport
	renders  int
}

// New returns an unmounted surface showing the default viewport.
func New(source Source) *Surface {
	return &Surface{
		source:   source,
		byID:     make(map[string]int),
		viewport: Viewport{Center: DefaultCenter, Zoom: DefaultZoom},
	}
}

// Mount subscribes to the source and renders the current state.
// Calling Mount on a mounted surface does nothing.
func (s *Surface) Mount() {
	if s.mounted {
		return
	}
	s.mounted = true
	s.unsubscribe = s.source.Subscribe(s.render)
	s.render(s.source.State())
}

// Unmount releases the subscription and removes every marker.
// The viewport is kept so a later Mount resumes where the user left off.
func (s *Surface) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.markers = nil
	s.byID = make(map[string]int)
}

// Mounted reports whether the surface is currently bound to its source.
func (s *Surface) Mounted() bool {
	return s.mounted
}

// Markers returns the markers in visible-list order.
func (s *Surface) Markers() []Marker {
	return append([]Marker{}, s.markers...)
}

// Marker looks up the marker for a shop id.
func (s *Surface) Marker(shopID string) (Marker, bool) {
	i, ok := s.byID[shopID]
	if !ok {
		return Marker{}, false
	}
	return s.markers[i], true
}

// Viewport returns the current map center and zoom.
func (s *Surface) Viewport() Viewport {
	return s.viewport
}

// Renders counts how many times the marker set has been rebuilt.
func (s *Surface) Renders() int {
	return s.renders
}

// Click forwards a marker interaction to the source as a selection.
// It reports false when the surface is unmounted or no marker exists for shopID.
func (s *Surface) Click(shopID string) bool {
	if !s.mounted {
		return false
	}
	if _, ok := s.byID[shopID]; !ok {
		return false
	}
	s.source.SelectShop(shopID)
	return true
}

// render rebuilds the marker set from scratch so markers for shops that left the
// visible set never linger.
func (s *Surface) render(state application.State) {
	if !s.mounted {
		return
	}
	markers := make([]Marker, 0, len(state.VisibleShops))
	byID := make(map[string]int, len(state.VisibleShops))
	for _, shop := range state.VisibleShops {
		selected := shop.ID == state.SelectedShopID
		marker := Marker{
			ShopID:   shop.ID,
			Position: shop.Location,
			Selected: selected,
			Size:     markerSize,
			Popup: Popup{
				Name:         shop.Name,
				Neighborhood: shop.Neighborhood,
				OverallScore: shop.OverallScore,
			},
		}
		if selected {
			marker.Size = selectedMarkerSize
			marker.ZIndexOffset = selectedZIndex
			s.viewport.Center = shop.Location
		}
		byID[shop.ID] = len(markers)
		markers = append(markers, marker)
	}
	s.markers = markers
	s.byID = byID
	s.renders++
}
