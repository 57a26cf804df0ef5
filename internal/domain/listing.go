package domain

type ListedMovie struct {
	Movie
	PosterURL string `json:"poster_url"`
	Favorite  bool   `json:"favorite"`
}

type Listing struct {
	Page         int           `json:"page"`
	Results      []ListedMovie `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Query        string        `json:"query,omitempty"`
}

type MovieView struct {
	Movie
	PosterURL   string `json:"poster_url"`
	BackdropURL string `json:"backdrop_url"`
	Favorite    bool   `json:"favorite"`
}
