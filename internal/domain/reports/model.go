package reports

import "time"

// TargetType define contra qué se reporta.
// @Enum user, post
type TargetType string

const (
	TargetUser TargetType = "user"
	TargetPost TargetType = "post"
)

// Report es write-only desde el API: se archiva y lo revisa moderación
// por fuera del sistema.
type Report struct {
	ID         string
	ReporterID string

	Type     TargetType
	TargetID string
	Reason   *string

	// Post relacionado cuando el reporte de un usuario nace en un meetup.
	PostID *string

	CreatedAt time.Time
}
