package dashboard

import (
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
)

// Marker is a handle to one rendered centre marker
type Marker interface {
	Remove()
}

// MarkerLayer renders centre markers on a map
type MarkerLayer interface {
	AddMarker(centre entities.Centre) Marker
}

// MarkerSet tracks the active markers of a layer. Replace removes every active
// marker before adding the new ones.
type MarkerSet struct {
	layer  MarkerLayer
	active []Marker
}

// NewMarkerSet creates a marker set over layer; a nil layer renders nothing
func NewMarkerSet(layer MarkerLayer) *MarkerSet {
	return &MarkerSet{layer: layer}
}

// Replace swaps the active markers for one marker per centre
func (s *MarkerSet) Replace(centres []entities.Centre) {
	s.Clear()
	if s.layer == nil {
		return
	}
	for _, centre := range centres {
		if m := s.layer.AddMarker(centre); m != nil {
			s.active = append(s.active, m)
		}
	}
}

// Clear removes all active markers
func (s *MarkerSet) Clear() {
	for _, m := range s.active {
		m.Remove()
	}
	s.active = nil
}

// Len returns the number of active markers
func (s *MarkerSet) Len() int {
	return len(s.active)
}
