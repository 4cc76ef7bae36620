// Package patch modela campos de un PATCH parcial donde importa
// distinguir "no enviado" de "enviado en null" (null = limpiar).
package patch

import "encoding/json"

// Field es un campo opcional de un body PATCH.
// Present=false => el cliente no mandó la key.
// Present=true y Value=nil => el cliente mandó null.
type Field[T any] struct {
	Present bool
	Value   *T
}

// Set construye un campo presente con valor.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: &v}
}

// Clear construye un campo presente en null.
func Clear[T any]() Field[T] {
	return Field[T]{Present: true}
}

// FieldFrom detecta presencia de key en el body crudo y decodifica su valor.
func FieldFrom[T any](raw map[string]json.RawMessage, key string) (Field[T], error) {
	v, ok := raw[key]
	if !ok {
		return Field[T]{}, nil
	}
	if string(v) == "null" {
		return Field[T]{Present: true}, nil
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		return Field[T]{}, err
	}
	return Field[T]{Present: true, Value: &out}, nil
}
