package accounts

import "time"

// Account es el perfil de un dueño registrado.
// Los campos opcionales van en puntero: nil = sin dato (no string vacío),
// igual que en la DB.
type Account struct {
	ID           string
	Email        string // siempre trim + lowercase
	PasswordHash string

	Name      *string
	AvatarURL *string
	City      *string
	Lat       *float64
	Lng       *float64

	Experience   *string // free text: Beginner / Intermediate / ...
	Availability *string

	// Marca de aceptación del safety pledge. Señal de confianza, una sola vez.
	SafetyPledgedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Coords implementa geo.Located.
func (a Account) Coords() (*float64, *float64) { return a.Lat, a.Lng }
