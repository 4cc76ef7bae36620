package geocode

import "context"

// Geocoder resuelve un nombre de lugar a coordenadas.
// Colaborador externo opcional: nil => la feature se salta.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (lat, lng float64, err error)
}
