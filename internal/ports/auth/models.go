package auth

import "time"

// Claims es la proyección mínima de la cuenta autenticada que viaja en el
// contexto del request: lo que los handlers necesitan sin volver a la DB.
type Claims struct {
	UserID string
	Email  string

	Name *string
	City *string
	Lat  *float64
	Lng  *float64

	SafetyPledgedAt *time.Time
}
