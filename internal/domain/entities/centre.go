package entities

import (
	"fmt"
	"math"
	"strconv"
)

// LatLng represents a geographic coordinate
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// URLValue renders the coordinate as "lat,lng" with six decimals.
func (l LatLng) URLValue() string {
	return fmt.Sprintf("%s,%s", trimFloat(l.Lat), trimFloat(l.Lng))
}

func trimFloat(v float64) string {
	rounded := math.Round(v*1e6) / 1e6
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Bounds is a rectangular viewport used to bias keyword searches
type Bounds struct {
	SouthWest LatLng `json:"sw"`
	NorthEast LatLng `json:"ne"`
}

// Center returns the midpoint of the viewport
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// Centre represents a wellness/therapy location returned by a places provider
type Centre struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Location         LatLng   `json:"location"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Website          string   `json:"website,omitempty"`
}

// IsZero reports whether no field of the centre is set
func (c *Centre) IsZero() bool {
	return c == nil || (c.ID == "" && c.Name == "" && c.Address == "" &&
		c.Location == LatLng{} && c.Rating == nil && c.UserRatingsTotal == nil &&
		c.Phone == "" && c.Website == "")
}

// Snapshot returns a deep copy so later changes to c never reach the copy
func (c Centre) Snapshot() Centre {
	out := c
	if c.Rating != nil {
		rating := *c.Rating
		out.Rating = &rating
	}
	if c.UserRatingsTotal != nil {
		total := *c.UserRatingsTotal
		out.UserRatingsTotal = &total
	}
	return out
}
