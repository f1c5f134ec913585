// Package views turns API entities into page view models and renders them
// with the embedded HTML templates. Nothing in here talks to the network.
package views

import (
	"math"
	"strconv"
	"strings"

	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

const (
	HostLoading       = "Loading..."
	HostAnonymous     = "You must be logged in to see this name..."
	ReviewerAnonymous = "You must be logged in to see this name"
	CreatedMissing    = "not implemented yet, come back in a few years if it really upsets you 👻"
	NoAmenities       = "None"
	RatingGlyph       = "❤️"

	PriceFilterAll = "all"

	NoticeReviewAdded = "review-added"
)

// PriceFilterOptions are the choices offered by the price filter control.
var PriceFilterOptions = []string{PriceFilterAll, "10", "50", "100", "200"}

// Nav is the header state, derived from token presence for this request only.
type Nav struct {
	Authenticated bool
}

// RatingGlyphs repeats the rating glyph once per rating point.
func RatingGlyphs(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat(RatingGlyph, rating)
}

// FormatPrice renders a nightly price without a trailing ".0".
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// PlaceCard is one entry of the places list.
type PlaceCard struct {
	ID          string
	Name        string
	Description string
	Price       float64
	PriceLabel  string
	MaxGuest    int
	Status      string
	Hidden      bool
}

// NewPlaceCard builds a visible card for place
func NewPlaceCard(place entities.Place) PlaceCard {
	return PlaceCard{
		ID:          place.ID,
		Name:        place.Name,
		Description: place.Description,
		Price:       place.PriceByNight,
		PriceLabel:  FormatPrice(place.PriceByNight),
		MaxGuest:    place.MaxGuest,
		Status:      string(place.Status),
	}
}

// PlacesPage is the view state of the places list.
type PlacesPage struct {
	Nav
	Cards        []PlaceCard
	PriceFilter  string
	PriceOptions []string
	Error        string
}

// NewPlacesPage builds the list page with every card visible
func NewPlacesPage(places []entities.Place, nav Nav) *PlacesPage {
	cards := make([]PlaceCard, 0, len(places))
	for _, p := range places {
		cards = append(cards, NewPlaceCard(p))
	}
	return &PlacesPage{
		Nav:          nav,
		Cards:        cards,
		PriceFilter:  PriceFilterAll,
		PriceOptions: PriceFilterOptions,
	}
}

// ApplyPriceFilter hides cards priced above value, or shows them all when
// value is "all" or empty. Cards are never removed and nothing is refetched.
// An unparseable bound leaves visibility untouched.
func (p *PlacesPage) ApplyPriceFilter(value string) error {
	value = strings.TrimSpace(value)
	if value == "" || value == PriceFilterAll {
		for i := range p.Cards {
			p.Cards[i].Hidden = false
		}
		p.PriceFilter = PriceFilterAll
		return nil
	}

	bound, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(bound) {
		return apperrors.NewValidationError("Price filter must be a number or \"all\"")
	}

	for i := range p.Cards {
		p.Cards[i].Hidden = p.Cards[i].Price > bound
	}
	p.PriceFilter = value
	return nil
}

// VisibleCount returns the number of cards not hidden by the filter
func (p *PlacesPage) VisibleCount() int {
	n := 0
	for _, c := range p.Cards {
		if !c.Hidden {
			n++
		}
	}
	return n
}

// ReviewView is one rendered review.
type ReviewView struct {
	Author  string
	Text    string
	Created string
	Rating  int
	Glyphs  string
}

// NewReviewView renders review with the given author label
func NewReviewView(review entities.Review, author string) ReviewView {
	created := CreatedMissing
	if !review.CreatedAt.IsZero() {
		created = review.CreatedAt.Format("2006-01-02")
	}
	return ReviewView{
		Author:  author,
		Text:    review.Text,
		Created: created,
		Rating:  review.Rating,
		Glyphs:  RatingGlyphs(review.Rating),
	}
}

// PlaceDetail is the view state of one place page.
type PlaceDetail struct {
	Nav
	ID           string
	Name         string
	Description  string
	PriceLabel   string
	Host         string
	Location     string
	Capacity     string
	Status       string
	PropertyType string
	Amenities    string
	Reviews      []ReviewView
	CanReview    bool
	RatingValues []int

	Notice      string
	Error       string
	DraftText   string
	DraftRating string
}

// NewPlaceDetail renders the place's own fields with the host placeholder.
func NewPlaceDetail(place entities.Place, nav Nav) *PlaceDetail {
	host := HostAnonymous
	if nav.Authenticated {
		host = HostLoading
	}

	amenities := NoAmenities
	if len(place.Amenities) > 0 {
		names := make([]string, 0, len(place.Amenities))
		for _, a := range place.Amenities {
			names = append(names, a.Name)
		}
		amenities = strings.Join(names, ", ")
	}

	return &PlaceDetail{
		Nav:          nav,
		ID:           place.ID,
		Name:         place.Name,
		Description:  place.Description,
		PriceLabel:   FormatPrice(place.PriceByNight),
		Host:         host,
		Location:     location(place),
		Capacity:     capacity(place),
		Status:       string(place.Status),
		PropertyType: string(place.PropertyType),
		Amenities:    amenities,
		CanReview:    nav.Authenticated,
		RatingValues: []int{1, 2, 3, 4, 5},
	}
}

// SetHost replaces the host placeholder with the owner's name.
func (d *PlaceDetail) SetHost(owner *entities.User) {
	if owner == nil {
		return
	}
	if name := owner.DisplayName(); name != "" {
		d.Host = name
	}
}

// SetReviews renders reviews. Authors are named from names when
// authenticated, falling back to the raw author id; anonymous visitors
// always get the fixed placeholder.
func (d *PlaceDetail) SetReviews(reviews []entities.Review, names map[string]string) {
	d.Reviews = make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		author := ReviewerAnonymous
		if d.Authenticated {
			author = r.UserID
			if name, ok := names[r.UserID]; ok && name != "" {
				author = name
			}
		}
		d.Reviews = append(d.Reviews, NewReviewView(r, author))
	}
}

func location(place entities.Place) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{place.City, place.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	loc := strings.Join(parts, ", ")
	if place.Latitude != nil && place.Longitude != nil {
		coords := FormatPrice(*place.Latitude) + ", " + FormatPrice(*place.Longitude)
		if loc == "" {
			return coords
		}
		loc += " (" + coords + ")"
	}
	return loc
}

func capacity(place entities.Place) string {
	if place.NumberRooms == 0 && place.NumberBathrooms == 0 && place.MaxGuest == 0 {
		return ""
	}
	return strconv.Itoa(place.NumberRooms) + " rooms, " +
		strconv.Itoa(place.NumberBathrooms) + " bathrooms, up to " +
		strconv.Itoa(place.MaxGuest) + " ghosts"
}

// LoginPage is the view state of the login form.
type LoginPage struct {
	Nav
	Email string
	Error string
}

// AdminResult is the raw JSON answer shown under one admin form.
type AdminResult struct {
	Resource string
	Body     string
	Failed   bool
}

// AdminPage is the view state of the admin forms page.
type AdminPage struct {
	Nav
	Resources []string
	Results   map[string]*AdminResult
}

// MessagePage is a page carrying a single message, used for errors.
type MessagePage struct {
	Nav
	Title   string
	Message string
}
