package userinterface

import (
	"strings"
	"unicode"
	"unicode/utf8"

	domain "users-ui/internal/domain/user"
)

// Card is the rendering of one user record.
type Card struct {
	ID    int64
	Name  string
	Email string
}

// NewCards maps users to cards, keeping their order.
func NewCards(users []domain.User) []Card {
	cards := make([]Card, len(users))
	for i, u := range users {
		cards[i] = Card{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return cards
}

// Theme holds the CSS classes used for one backend's panel.
type Theme struct {
	Background string
	Button     string
}

var (
	backgroundColors = map[string]string{
		"go": "bg-cyan-500",
	}
	buttonColors = map[string]string{
		"go": "bg-cyan-700 hover:bg-blue-600",
	}
)

// ThemeFor returns the theme of a backend, falling back to grey.
func ThemeFor(backend string) Theme {
	t := Theme{Background: "bg-gray-200", Button: "bg-gray-500 hover:bg-gray-600"}
	if bg, ok := backgroundColors[backend]; ok {
		t.Background = bg
	}
	if btn, ok := buttonColors[backend]; ok {
		t.Button = btn
	}
	return t
}

// Title returns the panel heading for a backend, e.g. "Go Backend".
func Title(backend string) string {
	r, size := utf8.DecodeRuneInString(backend)
	if r == utf8.RuneError {
		return "Backend"
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(backend[size:])
	b.WriteString(" Backend")
	return b.String()
}

// Page is everything the page template needs to render one UserInterface.
type Page struct {
	Backend    string
	Title      string
	LogoFile   string
	LogoURL    string
	Theme      Theme
	Cards      []Card
	NewUser    CreateForm
	UpdateUser UpdateForm
}

// NewPage builds the page model for a backend's view state.
func NewPage(backend string, s *State) Page {
	p := Page{
		Backend:  backend,
		Title:    Title(backend),
		LogoFile: backend + "logo.png",
		LogoURL:  "/static/" + backend + "logo.png",
		Theme:    ThemeFor(backend),
	}
	if s != nil {
		p.Cards = NewCards(s.Users)
		p.NewUser = s.NewUser
		p.UpdateUser = s.UpdateUser
	}
	return p
}
