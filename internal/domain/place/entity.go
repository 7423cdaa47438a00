package place

// DefaultWalkIn is the flag assigned to a place the first time it is seen.
const DefaultWalkIn = true

// Place represents the places table: one walk-in flag per external place id.
type Place struct {
	ID       int64
	PlacesID string
	WalkIn   bool
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Bounds is an inclusive latitude/longitude rectangle.
type Bounds struct {
	South float64
	North float64
	West  float64
	East  float64
}

// ServiceArea covers Selangor and Kuala Lumpur.
var ServiceArea = Bounds{
	South: 2.60,
	North: 3.45,
	West:  101.00,
	East:  102.00,
}

func (b Bounds) Contains(lat, lng float64) bool {
	return b.South <= lat && lat <= b.North && b.West <= lng && lng <= b.East
}

// ProviderPlace is a search result as reported by the places provider.
type ProviderPlace struct {
	ID                  string       `json:"id"`
	DisplayName         string       `json:"display_name,omitempty"`
	FormattedAddress    string       `json:"formatted_address,omitempty"`
	Location            *Coordinates `json:"location,omitempty"`
	Rating              *float64     `json:"rating,omitempty"`
	UserRatingCount     *int         `json:"user_rating_count,omitempty"`
	GoogleMapsURI       string       `json:"google_maps_uri,omitempty"`
	WebsiteURI          string       `json:"website_uri,omitempty"`
	NationalPhoneNumber string       `json:"national_phone_number,omitempty"`
	PhotoNames          []string     `json:"photo_names,omitempty"`
}

// Gym is a provider place merged with its cached walk-in flag.
type Gym struct {
	ProviderPlace
	PhotoURLs []string
	WalkIn    bool
}
