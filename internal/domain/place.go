package domain

type PlaceLink struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type PlaceSuggestions struct {
	Text  string      `json:"text"`
	Links []PlaceLink `json:"links"`
}
