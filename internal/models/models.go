package models

// Song is one catalog row: identity, raw artists string, the ten audio
// features and the cluster label assigned upstream.
type Song struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Artists string `json:"artists"`
	Year    int    `json:"year,omitempty"`

	Valence          float64 `json:"valence"`
	Acousticness     float64 `json:"acousticness"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Popularity       float64 `json:"popularity"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`

	Cluster int `json:"cluster"`
}

// SongDetails is the short view returned by a song lookup.
type SongDetails struct {
	Name         string  `json:"name"`
	Valence      float64 `json:"valence"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Tempo        float64 `json:"tempo"`
	Cluster      int     `json:"cluster"`
}

// Recommendation is a ranked neighbour of the reference vector.
type Recommendation struct {
	Name         string  `json:"name"`
	Artists      string  `json:"artists"`
	Valence      float64 `json:"valence"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Tempo        float64 `json:"tempo"`
	Distance     float64 `json:"distance"`
}

// Details projects a song onto its lookup view.
func (s Song) Details() SongDetails {
	return SongDetails{
		Name:         s.Name,
		Valence:      s.Valence,
		Danceability: s.Danceability,
		Energy:       s.Energy,
		Tempo:        s.Tempo,
		Cluster:      s.Cluster,
	}
}

// Recommend builds a recommendation row for s at the given distance.
func (s Song) Recommend(distance float64) Recommendation {
	return Recommendation{
		Name:         s.Name,
		Artists:      s.Artists,
		Valence:      s.Valence,
		Danceability: s.Danceability,
		Energy:       s.Energy,
		Tempo:        s.Tempo,
		Distance:     distance,
	}
}

// BatchEvent is one server-sent event of a batch recommendation stream.
type BatchEvent struct {
	Status          string           `json:"status"`
	Message         string           `json:"message,omitempty"`
	Index           int              `json:"index,omitempty"`
	Total           int              `json:"total,omitempty"`
	Query           string           `json:"query,omitempty"`
	Found           *bool            `json:"found,omitempty"`
	Song            *SongDetails     `json:"song,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}
