package support

// Article es contenido de referencia global, no pertenece a ningún usuario.
// Order define la posición dentro de su categoría.
type Article struct {
	ID       string
	Slug     string // único, es la URL pública
	Title    string
	Category string
	Order    int
	Body     string
}

// Resource es un link externo curado (artículo o video).
type Resource struct {
	ID       string
	Category string
	Title    string
	URL      string
	Type     string // article | video
	Order    int
}
