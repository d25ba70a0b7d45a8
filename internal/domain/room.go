package domain

import "fmt"

type ProjectionType string

const (
	Projection2D ProjectionType = "2D"
	Projection3D ProjectionType = "3D"
)

func ParseProjectionType(s string) (ProjectionType, error) {
	switch p := ProjectionType(s); p {
	case Projection2D, Projection3D:
		return p, nil
	}
	return "", fmt.Errorf("%w: projection type %q", ErrInvalidVariant, s)
}

func (p *ProjectionType) UnmarshalText(text []byte) error {
	*p = ProjectionType(text)
	return nil
}

// Known reports whether p is one of the projection types. Empty counts as known.
func (p ProjectionType) Known() bool {
	return p == "" || p == Projection2D || p == Projection3D
}

// Room is a screening room. Capacity == Rows*SeatsPerRow only holds for rooms
// saved through the admin form. Stored projections decode as is, so an
// empty or unrecognized value does not fail the listing.
type Room struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"nome"`
	Capacity    int            `json:"capacidade"`
	Projection  ProjectionType `json:"tipo"`
	Rows        int            `json:"fileiras"`
	SeatsPerRow int            `json:"assentosPorFileira"`
	Description string         `json:"descricao"`
}

func (r Room) Unrecognized() []string {
	if r.Projection.Known() {
		return nil
	}
	return []string{"tipo=" + string(r.Projection)}
}
