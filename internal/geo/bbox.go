// Package geo implementa el filtro de proximidad por bounding-box.
//
// Es una aproximación equirectangular deliberadamente barata:
// 1 grado de latitud ≈ 111 km, y usamos el mismo delta para longitud
// (sin corregir la compresión de longitud en latitudes altas).
// No se anuncia como distancia geodésica precisa.
package geo

import "strconv"

// DegPerKm convierte km a grados usando 1° ≈ 111 km.
const DegPerKm = 1.0 / 111.0

// Defaults de radio según el tipo de listado.
const (
	DefaultPersonRadiusKm = 50
	DefaultMeetupRadiusKm = 100
)

// Point es una referencia lat/lng.
type Point struct {
	Lat float64
	Lng float64
}

// Located expone coordenadas opcionales de un candidato.
// Lat/Lng en nil => ubicación desconocida.
type Located interface {
	Coords() (lat, lng *float64)
}

// WithinBox decide si un candidato con coordenadas opcionales cae dentro
// del cuadrado de lado 2*radiusKm centrado en ref.
//
// Reglas:
//   - Candidato sin coordenadas => siempre incluido (desconocido ≠ excluido).
//   - Referencia NaN (query malformada) => las comparaciones dan false y los
//     candidatos con coordenadas quedan excluidos. Se preserva a propósito.
func WithinBox(ref Point, radiusKm float64, lat, lng *float64) bool {
	if lat == nil || lng == nil {
		return true
	}
	maxDelta := radiusKm * DegPerKm
	return abs(*lat-ref.Lat) <= maxDelta && abs(*lng-ref.Lng) <= maxDelta
}

// Filter devuelve el subconjunto de candidates dentro del box.
func Filter[T Located](ref Point, radiusKm float64, candidates []T) []T {
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		lat, lng := c.Coords()
		if WithinBox(ref, radiusKm, lat, lng) {
			out = append(out, c)
		}
	}
	return out
}

// ParseRadius interpreta un radiusKm de query string.
// Vacío o no numérico => def (50 personas / 100 meetups).
func ParseRadius(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// abs evita importar math solo para esto (y funciona igual con NaN:
// las comparaciones posteriores dan false).
func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
