package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fitfinder-backend/internal/domain/place"
	fitfinder_errors "fitfinder-backend/pkg/errors"
)

const (
	DefaultBaseURL     = "https://places.googleapis.com/v1"
	defaultHTTPTimeout = 10 * time.Second
	includedType       = "gym"
	maxResultCount     = 20
	photoMaxWidthPx    = 400
	// maxErrorBody bounds how much of a provider error body is kept.
	maxErrorBody = 4 << 10
)

var fieldMask = strings.Join([]string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.location",
	"places.rating",
	"places.userRatingCount",
	"places.googleMapsUri",
	"places.websiteUri",
	"places.photos",
	"places.nationalPhoneNumber",
}, ",")

// Provider searches for gyms around a point.
type Provider interface {
	SearchNearby(ctx context.Context, center place.Coordinates, radius int) ([]place.ProviderPlace, error)
	PhotoURL(name string) string
}

// GoogleClient talks to the Google Places API (New), v1.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleClient allows overriding base URL and HTTP client (used for tests).
func NewGoogleClient(apiKey, baseURL string, httpClient *http.Client) *GoogleClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type searchNearbyRequest struct {
	IncludedTypes       []string            `json:"includedTypes"`
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center place.Coordinates `json:"center"`
	Radius float64           `json:"radius"`
}

type searchNearbyResponse struct {
	Places []googlePlace `json:"places"`
}

type googlePlace struct {
	ID          string `json:"id"`
	DisplayName *struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string             `json:"formattedAddress"`
	Location         *place.Coordinates `json:"location"`
	Rating           *float64           `json:"rating"`
	UserRatingCount  *int               `json:"userRatingCount"`
	GoogleMapsURI    string             `json:"googleMapsUri"`
	WebsiteURI       string             `json:"websiteUri"`
	NationalPhone    string             `json:"nationalPhoneNumber"`
	Photos           []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

func (g *GoogleClient) SearchNearby(ctx context.Context, center place.Coordinates, radius int) ([]place.ProviderPlace, error) {
	payload, err := json.Marshal(searchNearbyRequest{
		IncludedTypes:  []string{includedType},
		MaxResultCount: maxResultCount,
		LocationRestriction: locationRestriction{
			Circle: circle{Center: center, Radius: float64(radius)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/places:searchNearby", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", g.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &fitfinder_errors.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &fitfinder_errors.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var decoded searchNearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &fitfinder_errors.UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode search response: %w", err),
		}
	}

	results := make([]place.ProviderPlace, 0, len(decoded.Places))
	for _, gp := range decoded.Places {
		results = append(results, gp.toProviderPlace())
	}
	return results, nil
}

// PhotoURL turns a photo resource name such as
// "places/ChIJ.../photos/AXC..." into a fetchable media URL.
func (g *GoogleClient) PhotoURL(name string) string {
	return fmt.Sprintf("%s/%s/media?maxWidthPx=%d&key=%s",
		g.baseURL, strings.TrimLeft(name, "/"), photoMaxWidthPx, url.QueryEscape(g.apiKey))
}

func (gp googlePlace) toProviderPlace() place.ProviderPlace {
	p := place.ProviderPlace{
		ID:                  gp.ID,
		FormattedAddress:    gp.FormattedAddress,
		Location:            gp.Location,
		Rating:              gp.Rating,
		UserRatingCount:     gp.UserRatingCount,
		GoogleMapsURI:       gp.GoogleMapsURI,
		WebsiteURI:          gp.WebsiteURI,
		NationalPhoneNumber: gp.NationalPhone,
	}
	if gp.DisplayName != nil {
		p.DisplayName = gp.DisplayName.Text
	}
	for _, photo := range gp.Photos {
		if photo.Name != "" {
			p.PhotoNames = append(p.PhotoNames, photo.Name)
		}
	}
	return p
}
