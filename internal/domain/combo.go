package domain

import "fmt"

type ComboCategory string

const (
	CategoryPopcorn ComboCategory = "pipoca"
	CategoryDrink   ComboCategory = "bebida"
	CategoryCandy   ComboCategory = "doce"
	CategoryBundle  ComboCategory = "combo"
)

func ParseComboCategory(s string) (ComboCategory, error) {
	switch c := ComboCategory(s); c {
	case CategoryPopcorn, CategoryDrink, CategoryCandy, CategoryBundle:
		return c, nil
	}
	return "", fmt.Errorf("%w: combo category %q", ErrInvalidVariant, s)
}

func (c *ComboCategory) UnmarshalText(text []byte) error {
	*c = ComboCategory(text)
	return nil
}

func (c ComboCategory) Known() bool {
	if c == "" {
		return true
	}
	_, err := ParseComboCategory(string(c))
	return err == nil
}

type Combo struct {
	ID          string        `json:"id,omitempty"`
	Name        string        `json:"nome"`
	Description string        `json:"descricao"`
	Price       float64       `json:"preco"`
	Image       string        `json:"imagem"`
	Category    ComboCategory `json:"categoria"`
}

func (c Combo) Unrecognized() []string {
	if c.Category.Known() {
		return nil
	}
	return []string{"categoria=" + string(c.Category)}
}
