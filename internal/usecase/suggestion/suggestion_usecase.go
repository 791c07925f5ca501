package suggestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultPlacesModel = "gemini-2.5-flash"

	ReasonEmptyFallback  = "You both share a passion for fitness and are located nearby!"
	ReasonErrorFallback  = "Looks like a great match for your fitness goals!"
	IcebreakerFallback   = "Hey! Want to grab a workout together sometime?"
	PlacesFallback       = "I couldn't find any specific places right now. Try checking your local area on Google Maps."
	PlacesDefaultText    = "Here are some places I found nearby:"
	PlaceDefaultTitle    = "View on Maps"
	maxPlaceLinks        = 5
	defaultActivityLabel = "fitness"
)

var errNoGenerator = errors.New("generator not configured")

// TextGenerator is the generative backend. A nil generator makes every call
// return its fallback.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// PlaceSearcher answers a prompt grounded on map places near lat/lng. A nil
// searcher makes place searches return their fallback.
type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, model, prompt string, lat, lng float64) (string, []domain.PlaceLink, error)
}

type Config struct {
	Model       string
	PlacesModel string
}

type SuggestionUseCase struct {
	gen         TextGenerator
	places      PlaceSearcher
	model       string
	placesModel string
	log         logrus.FieldLogger
}

func NewSuggestionUseCase(gen TextGenerator, places PlaceSearcher, cfg Config, log logrus.FieldLogger) *SuggestionUseCase {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.PlacesModel == "" {
		cfg.PlacesModel = DefaultPlacesModel
	}
	return &SuggestionUseCase{gen: gen, places: places, model: cfg.Model, placesModel: cfg.PlacesModel, log: log}
}

func (uc *SuggestionUseCase) generate(ctx context.Context, model, prompt string) (string, error) {
	if uc.gen == nil {
		return "", errNoGenerator
	}
	return uc.gen.Generate(ctx, model, prompt)
}

// MatchingReason explains in two sentences why me and buddy should train together.
func (uc *SuggestionUseCase) MatchingReason(ctx context.Context, me, buddy *domain.User) string {
	meJSON, _ := json.Marshal(me.Public())
	buddyJSON, _ := json.Marshal(buddy.Public())

	prompt := fmt.Sprintf(`I have two users for a fitness app.
User 1 (Me): %s
User 2 (Buddy): %s

Give a 2-sentence highly encouraging reason why they should workout together.
Focus on common activities, skill levels, and distance.
Keep it friendly and conversational.`, meJSON, buddyJSON)

	text, err := uc.generate(ctx, uc.model, prompt)
	if err != nil {
		uc.log.WithError(err).Warn("matching reason unavailable, using fallback")
		return ReasonErrorFallback
	}
	if text == "" {
		return ReasonEmptyFallback
	}
	return text
}

// Icebreaker suggests a one-sentence opener for buddy.
func (uc *SuggestionUseCase) Icebreaker(ctx context.Context, buddy *domain.User) string {
	activities := make([]string, 0, len(buddy.Activities))
	for _, a := range buddy.Activities {
		activities = append(activities, string(a))
	}

	prompt := fmt.Sprintf(`Create a short, fun icebreaker message to send to %s who likes %s.
They are %s level. The message should be 1 sentence.`, buddy.Name, strings.Join(activities, ", "), buddy.SkillLevel)

	text, err := uc.generate(ctx, uc.model, prompt)
	if err != nil {
		uc.log.WithError(err).Warn("icebreaker unavailable, using fallback")
		return IcebreakerFallback
	}
	if text == "" {
		return IcebreakerEmptyFallback(buddy)
	}
	return text
}

func IcebreakerEmptyFallback(buddy *domain.User) string {
	activity := defaultActivityLabel
	if len(buddy.Activities) > 0 {
		activity = string(buddy.Activities[0])
	}
	return fmt.Sprintf("Hey %s, I see you're into %s too! Want to catch up?", buddy.Name, activity)
}

// SearchNearbyPlaces looks up query around the given coordinates. Links come
// from the Maps grounding of the answer, never from the answer text.
func (uc *SuggestionUseCase) SearchNearbyPlaces(ctx context.Context, query string, lat, lng float64) domain.PlaceSuggestions {
	if uc.places == nil {
		uc.log.WithError(errNoGenerator).Warn("places search unavailable, using fallback")
		return domain.PlaceSuggestions{Text: PlacesFallback, Links: []domain.PlaceLink{}}
	}

	prompt := fmt.Sprintf("Find %s near these coordinates: lat %g, lng %g.", query, lat, lng)
	text, grounded, err := uc.places.SearchPlaces(ctx, uc.placesModel, prompt, lat, lng)
	if err != nil {
		uc.log.WithError(err).Warn("places search unavailable, using fallback")
		return domain.PlaceSuggestions{Text: PlacesFallback, Links: []domain.PlaceLink{}}
	}

	result := domain.PlaceSuggestions{Text: strings.TrimSpace(text), Links: []domain.PlaceLink{}}
	if result.Text == "" {
		result.Text = PlacesDefaultText
	}
	for _, link := range grounded {
		if link.URI == "" {
			continue
		}
		if link.Title == "" {
			link.Title = PlaceDefaultTitle
		}
		result.Links = append(result.Links, link)
		if len(result.Links) == maxPlaceLinks {
			break
		}
	}
	return result
}
