package entities

import (
	"encoding/json"
)

// PlaceStatus is the operational state of a place
type PlaceStatus string

const (
	PlaceStatusActive      PlaceStatus = "active"
	PlaceStatusMaintenance PlaceStatus = "maintenance"
	PlaceStatusBlocked     PlaceStatus = "blocked"
)

// PropertyType is the kind of building a place is
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeVilla     PropertyType = "villa"
)

// Place represents a rentable haunted property as served by the REST API
type Place struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	PriceByNight    float64      `json:"price_by_night"`
	City            string       `json:"city"`
	Country         string       `json:"country"`
	Latitude        *float64     `json:"latitude,omitempty"`
	Longitude       *float64     `json:"longitude,omitempty"`
	NumberRooms     int          `json:"number_rooms"`
	NumberBathrooms int          `json:"number_bathrooms"`
	MaxGuest        int          `json:"max_guest"`
	MinimumStay     int          `json:"minimum_stay"`
	OwnerID         string       `json:"owner_id"`
	Status          PlaceStatus  `json:"status"`
	PropertyType    PropertyType `json:"property_type"`
	IsAvailable     bool         `json:"is_available"`
	AmenityIDs      []string     `json:"amenity_ids,omitempty"`
	ReviewIDs       []string     `json:"review_ids,omitempty"`
	Amenities       []Amenity    `json:"amenities,omitempty"`
	CreatedAt       Timestamp    `json:"created_at"`
}

// Amenity is a named feature of a place
type Amenity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts both a bare amenity name and an amenity object.
func (a *Amenity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*a = Amenity{Name: name}
		return nil
	}

	type plain Amenity
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = Amenity(obj)
	return nil
}
