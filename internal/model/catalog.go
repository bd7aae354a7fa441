package model

import "time"

// Tour is a packaged trip offered by the agency.
type Tour struct {
	ID           string    `json:"id,omitempty"`
	Slug         string    `json:"slug,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Destination  string    `json:"destination,omitempty"`
	DurationDays int       `json:"durationDays,omitempty"`
	Price        float64   `json:"price,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	Images       []string  `json:"images,omitempty"`
	Featured     bool      `json:"featured,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Service is a standalone bookable service: transfer, guide, hotel night, visa support.
type Service struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Itinerary is the day-by-day plan of a tour.
type Itinerary struct {
	ID        string         `json:"id,omitempty"`
	TourID    string         `json:"tourId,omitempty"`
	Title     string         `json:"title"`
	Days      []ItineraryDay `json:"days,omitempty"`
	Images    []string       `json:"images,omitempty"`
	CreatedAt time.Time      `json:"createdAt,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty"`
}

// ItineraryDay is one day of an itinerary.
type ItineraryDay struct {
	Day         int      `json:"day"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Activities  []string `json:"activities,omitempty"`
}

// UploadedImage is returned by image upload endpoints.
type UploadedImage struct {
	URL string `json:"url"`
}
