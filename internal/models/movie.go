package models

import "time"

// Movie is a catalog document. The shape follows the mflix sample dataset
// the catalog was seeded from.
type Movie struct {
	ID        string     `json:"id" bson:"_id"`
	Title     string     `json:"title" bson:"title"`
	Plot      string     `json:"plot" bson:"plot"`
	FullPlot  string     `json:"fullplot" bson:"fullplot"`
	Genres    []string   `json:"genres,omitempty" bson:"genres,omitempty"`
	Runtime   int        `json:"runtime,omitempty" bson:"runtime,omitempty"`
	Cast      []string   `json:"cast,omitempty" bson:"cast,omitempty"`
	Poster    string     `json:"poster" bson:"poster"`
	Languages []string   `json:"languages,omitempty" bson:"languages,omitempty"`
	Released  *time.Time `json:"released,omitempty" bson:"released,omitempty"`
	Directors []string   `json:"directors,omitempty" bson:"directors,omitempty"`
	Rated     string     `json:"rated,omitempty" bson:"rated,omitempty"`
	Awards    *Awards    `json:"awards,omitempty" bson:"awards,omitempty"`
	Year      int        `json:"year,omitempty" bson:"year,omitempty"`
	IMDb      *IMDb      `json:"imdb,omitempty" bson:"imdb,omitempty"`
	Countries []string   `json:"countries,omitempty" bson:"countries,omitempty"`
	Type      string     `json:"type,omitempty" bson:"type,omitempty"`
	Tomatoes  *Tomatoes  `json:"tomatoes,omitempty" bson:"tomatoes,omitempty"`

	NumMflixComments int `json:"num_mflix_comments,omitempty" bson:"num_mflix_comments,omitempty"`
}

type Awards struct {
	Wins        int    `json:"wins" bson:"wins"`
	Nominations int    `json:"nominations" bson:"nominations"`
	Text        string `json:"text" bson:"text"`
}

type IMDb struct {
	Rating float64 `json:"rating" bson:"rating"`
	Votes  int     `json:"votes" bson:"votes"`
	ID     int     `json:"id" bson:"id"`
}

// Tomatoes holds Rotten Tomatoes ratings.
type Tomatoes struct {
	Viewer      *TomatoesRating `json:"viewer,omitempty" bson:"viewer,omitempty"`
	Critic      *TomatoesRating `json:"critic,omitempty" bson:"critic,omitempty"`
	Fresh       int             `json:"fresh,omitempty" bson:"fresh,omitempty"`
	Rotten      int             `json:"rotten,omitempty" bson:"rotten,omitempty"`
	LastUpdated *time.Time      `json:"lastUpdated,omitempty" bson:"lastUpdated,omitempty"`
}

type TomatoesRating struct {
	Rating     float64 `json:"rating" bson:"rating"`
	NumReviews int     `json:"numReviews" bson:"numReviews"`
	Meter      int     `json:"meter" bson:"meter"`
}
