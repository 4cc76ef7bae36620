package posts

import "time"

// Post es un aviso de meetup. Location/lat/lng/meetupAt son opcionales:
// un post sin coordenadas nunca se filtra por distancia.
type Post struct {
	ID       string
	AuthorID string

	Title    string
	Body     string
	Location *string
	Lat      *float64
	Lng      *float64

	MeetupAt *time.Time

	// Tamaño de perro preferido para el encuentro (small/medium/large), opcional.
	PreferredSize *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Coords implementa geo.Located.
func (p Post) Coords() (*float64, *float64) { return p.Lat, p.Lng }

// RSVP: a lo sumo una fila por (post, user).
type RSVP struct {
	PostID    string
	UserID    string
	CreatedAt time.Time
}

// AuthorSummary es la expansión mínima del autor en listados.
type AuthorSummary struct {
	ID              string
	Name            *string
	City            *string
	SafetyPledgedAt *time.Time
}

// UserSummary expande el asistente de un RSVP en el detalle.
type UserSummary struct {
	ID   string
	Name *string
	City *string
}

// ListItem es un post con las relaciones que el feed necesita.
type ListItem struct {
	Post
	Author      AuthorSummary
	RSVPUserIDs []string
}

// Detail es un post con autor y asistentes expandidos.
type Detail struct {
	Post
	Author AuthorSummary
	RSVPs  []AttendeeRSVP
}

type AttendeeRSVP struct {
	RSVP
	User UserSummary
}
