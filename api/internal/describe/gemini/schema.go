package gemini

import (
	"github.com/google/generative-ai-go/genai"

	"descrivi-bot/api/internal/describe"
)

// Schema builds the ResponseSchema for kind. Gemini has no anyOf, so the
// auto-detecting wrapper is a single object discriminated by "tipo" that
// carries the fields of both variants as nullable properties.
func Schema(kind describe.Kind) *genai.Schema {
	switch kind {
	case describe.KindGeneric:
		return object(describe.SchemaDoc(kind), describe.GenericFields, true)
	case describe.KindEvent:
		return object(describe.SchemaDoc(kind), describe.EventFields, true)
	default:
		fields := append(append([]describe.Field{}, describe.GenericFields...), describe.EventFields...)
		inner := object("Descrizione dell'immagine secondo il tipo identificato", fields, false)
		inner.Properties["tipo"] = &genai.Schema{
			Type:        genai.TypeString,
			Format:      "enum",
			Enum:        []string{describe.TipoImmagine, describe.TipoEvento},
			Description: describe.TipoDoc(),
		}
		inner.Required = []string{"tipo"}
		return &genai.Schema{
			Type:        genai.TypeObject,
			Description: describe.SchemaDoc(kind),
			Properties:  map[string]*genai.Schema{"descrizione": inner},
			Required:    []string{"descrizione"},
		}
	}
}

func object(doc string, fields []describe.Field, keepRequired bool) *genai.Schema {
	s := &genai.Schema{
		Type:        genai.TypeObject,
		Description: doc,
		Properties:  make(map[string]*genai.Schema, len(fields)),
	}
	for _, f := range fields {
		p := &genai.Schema{Type: genai.TypeString, Description: f.Doc}
		if f.List {
			p = &genai.Schema{Type: genai.TypeArray, Description: f.Doc, Items: &genai.Schema{Type: genai.TypeString}}
		}
		if keepRequired && f.Required {
			s.Required = append(s.Required, f.Name)
		} else {
			p.Nullable = true
		}
		s.Properties[f.Name] = p
	}
	return s
}
