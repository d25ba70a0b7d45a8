package domain

import "fmt"

type ContentRating string

const (
	RatingUnspecified ContentRating = ""
	RatingGeneral     ContentRating = "L"
	Rating10          ContentRating = "10"
	Rating12          ContentRating = "12"
	Rating14          ContentRating = "14"
	Rating16          ContentRating = "16"
	Rating18          ContentRating = "18"
)

func ParseContentRating(s string) (ContentRating, error) {
	switch r := ContentRating(s); r {
	case RatingUnspecified, RatingGeneral, Rating10, Rating12, Rating14, Rating16, Rating18:
		return r, nil
	}
	return RatingUnspecified, fmt.Errorf("%w: content rating %q", ErrInvalidVariant, s)
}

// UnmarshalText keeps stored values as they are. Drafts go through
// ParseContentRating instead.
func (r *ContentRating) UnmarshalText(text []byte) error {
	*r = ContentRating(text)
	return nil
}

func (r ContentRating) Known() bool {
	_, err := ParseContentRating(string(r))
	return err == nil
}

type Movie struct {
	ID       string        `json:"id,omitempty"`
	Title    string        `json:"titulo"`
	Genre    string        `json:"genero"`
	Runtime  int           `json:"duracao"`
	Rating   ContentRating `json:"classificacao"`
	Synopsis string        `json:"sinopse"`
	Poster   string        `json:"imagem"`
	Director string        `json:"diretor"`
}

func (m Movie) Unrecognized() []string {
	if m.Rating.Known() {
		return nil
	}
	return []string{"classificacao=" + string(m.Rating)}
}
