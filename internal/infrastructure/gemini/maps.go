package gemini

import (
	"context"
	"fmt"
	"strings"

	mapsai "google.golang.org/genai"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

// MapsClient runs prompts with the Google Maps grounding tool.
type MapsClient struct {
	client *mapsai.Client
}

func NewMapsClient(ctx context.Context, apiKey string) (*MapsClient, error) {
	client, err := mapsai.NewClient(ctx, &mapsai.ClientConfig{
		APIKey:  apiKey,
		Backend: mapsai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create maps grounding client: %w", err)
	}
	return &MapsClient{client: client}, nil
}

// SearchPlaces anchors the Maps retrieval at lat/lng and returns the answer
// text with the places the answer was grounded on. Link titles may be empty.
func (c *MapsClient) SearchPlaces(ctx context.Context, model, prompt string, lat, lng float64) (string, []domain.PlaceLink, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, mapsai.Text(prompt), &mapsai.GenerateContentConfig{
		Tools: []*mapsai.Tool{{GoogleMaps: &mapsai.GoogleMaps{}}},
		ToolConfig: &mapsai.ToolConfig{
			RetrievalConfig: &mapsai.RetrievalConfig{
				LatLng: &mapsai.LatLng{
					Latitude:  mapsai.Ptr(lat),
					Longitude: mapsai.Ptr(lng),
				},
			},
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("grounded generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", nil, ErrNoContent
	}

	return strings.TrimSpace(resp.Text()), groundingLinks(resp), nil
}

// groundingLinks collects the Maps chunks of the first candidate in order.
func groundingLinks(resp *mapsai.GenerateContentResponse) []domain.PlaceLink {
	links := []domain.PlaceLink{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return links
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return links
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Maps == nil {
			continue
		}
		links = append(links, domain.PlaceLink{Title: chunk.Maps.Title, URI: chunk.Maps.URI})
	}
	return links
}
