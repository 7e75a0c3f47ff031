package describe

import "descrivi-bot/api/internal/util"

// Field describes one property of a structured-output contract.
type Field struct {
	Name     string
	Doc      string
	List     bool
	Required bool
}

const (
	genericDoc = "Modello ottimizzato per la descrizione accessibile di immagini generali individuando: " +
		"1) Oggetto: descrive l'elemento principale o il soggetto dell'immagine; " +
		"2) Azione: descrive cosa sta accadendo nell'immagine; " +
		"3) Contesto: descrive l'ambiente circostante, lo sfondo o il setting dell'immagine; " +
		"4) Testo: descrive eventualmente il testo se presente nell'immagine, riportato fedelmente; " +
		"5) Significato: descrive eventualmente significati o dettagli visivi importanti per la comprensione " +
		"che potrebbero non essere ovvi come ad esempio i) simboli politici o religiosi, " +
		"ii) espressioni e tradizioni culturali, e iii) meme."

	eventDoc = "Modello per la descrizione accessibile di eventi e locandine. " +
		"Usa questo modello se e solo se sono presenti tutti i campi mandatori. " +
		"Non inventare assolutamente valori per i campi se non sono chiaramente identificabili nell'immagine."

	finalDoc = "Modello principale che determina il tipo di risposta"

	tipoDoc = "Tipo di descrizione identificato: 'immagine' per una descrizione generica, 'evento' per una locandina di evento"
)

var GenericFields = []Field{
	{
		Name:     "descrizione",
		Doc:      "Una descrizione completa che integra Oggetto, Azione, Contesto, ed eventualmente anche Testo e/o Significato aggiuntivi presenti nell'immagine",
		Required: true,
	},
}

var EventFields = []Field{
	{
		Name:     "nome_evento",
		Doc:      "Descrive in modo conciso il nome dell'evento o il titolo della locandina solo se chiaramente identificabile nell'immagine",
		Required: true,
	},
	{
		Name: "data_evento",
		Doc: "Se presente, descrive la data dell'evento con la formattazione 'il %d %B %Y'. " +
			"Se solamente l'informazione puntuale dell'anno non è presente, usa in alternativa la formattazione 'il %d %B'.",
	},
	{
		Name: "ora_evento",
		Doc:  "Se presente, descrive l'ora dell'evento con la formattazione 'alle ore %H:%M' o 'a partire dalle ore %H:%M fino alle ore %H:%M'.",
	},
	{
		Name: "descrizione_evento",
		Doc:  "Descrive in modo conciso l'argomento dell'evento",
	},
	{
		Name: "organizzatori_evento",
		Doc:  "Descrive in modo conciso il nome o i nomi di chi organizza l'evento ed eventuali informazioni aggiuntive come titolo di studio, professione, o breve descrizione",
		List: true,
	},
	{
		Name: "contatti_organizzatori",
		Doc:  "Descrive in modo conciso i contatti degli organizzatori dell'evento, come ad esempio e-mails, numeri di telefono, socials",
		List: true,
	},
	{
		Name: "luogo_evento",
		Doc:  "Descrive il luogo fisico o virtuale dell'evento. Se fisico, possibilmente un indirizzo completo per la navigazione.",
	},
	{
		Name: "altro",
		Doc:  "Descrive eventuali altre informazioni presenti nell'immagine non descritte, come ad esempio la presenza di QR code o di altre informazioni testuali non menzionate",
	},
}

// SchemaName is the name of the contract as sent to the model provider.
func SchemaName(k Kind) string {
	switch k {
	case KindGeneric:
		return "DescrizioneAccessibile"
	case KindEvent:
		return "EventoAccessibile"
	default:
		return "RispostaAccessibileFinale"
	}
}

// SchemaDoc is the contract-level description sent along with the schema.
func SchemaDoc(k Kind) string {
	switch k {
	case KindGeneric:
		return genericDoc
	case KindEvent:
		return eventDoc
	default:
		return finalDoc
	}
}

// TipoDoc documents the discriminator of the auto-detecting wrapper.
func TipoDoc() string { return tipoDoc }

// JSONSchema builds a strict JSON schema (OpenAI structured outputs dialect).
// Optional fields are nullable; every property is listed as required.
func JSONSchema(k Kind) map[string]any {
	var s map[string]any
	switch k {
	case KindGeneric:
		s = objectSchema(GenericFields, "")
	case KindEvent:
		s = objectSchema(EventFields, "")
	default:
		generic := objectSchema(GenericFields, TipoImmagine)
		generic["description"] = genericDoc
		event := objectSchema(EventFields, TipoEvento)
		event["description"] = eventDoc
		s = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"descrizione": map[string]any{
					"description": "Descrizione dell'immagine secondo il tipo identificato",
					"anyOf":       []any{generic, event},
				},
			},
		}
	}
	util.FixJSONSchemaStrict(s)
	return s
}

func objectSchema(fields []Field, tipo string) map[string]any {
	props := make(map[string]any, len(fields)+1)
	if tipo != "" {
		props["tipo"] = map[string]any{
			"type":        "string",
			"enum":        []any{tipo},
			"description": tipoDoc,
		}
	}
	for _, f := range fields {
		props[f.Name] = fieldSchema(f)
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

func fieldSchema(f Field) map[string]any {
	p := map[string]any{"description": f.Doc}
	switch {
	case f.List && f.Required:
		p["type"] = "array"
		p["items"] = map[string]any{"type": "string"}
	case f.List:
		p["type"] = []any{"array", "null"}
		p["items"] = map[string]any{"type": "string"}
	case f.Required:
		p["type"] = "string"
	default:
		p["type"] = []any{"string", "null"}
	}
	return p
}
