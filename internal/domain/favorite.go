package domain

import "time"

type Favorite struct {
	ClientID string    `json:"client_id"`
	Movie    Movie     `json:"movie"`
	AddedAt  time.Time `json:"added_at"`
}

type FavoriteStats struct {
	Count       int     `json:"count"`
	AverageVote float64 `json:"average_vote"`
	// GenreWeights is keyed by TMDB genre id.
	GenreWeights map[string]float64 `json:"genre_weights"`
	GenreNames   map[string]string  `json:"genre_names,omitempty"`
}

type RefreshResult struct {
	Updated int     `json:"updated"`
	Missing []int64 `json:"missing,omitempty"`
	Failed  []int64 `json:"failed,omitempty"`
}
