package describe

import "strings"

// Request is one resolved image to describe. Empty strings mean "absent".
type Request struct {
	ImageURL string
	// ImageKey is a stable identifier of the image (Telegram file_unique_id).
	ImageKey string

	Caption      string
	ReplyContext string
	Command      Command

	ChatID           int64
	ReplyToMessageID int
}

// Kind identifies the structured-output contract requested from the model.
type Kind int

const (
	KindFinal Kind = iota
	KindGeneric
	KindEvent
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindEvent:
		return "event"
	case KindFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Variant is the concrete payload populated in a Result.
type Variant int

const (
	VariantNone Variant = iota
	VariantGeneric
	VariantEvent
)

// GenericDescription is the narrative description of an arbitrary image.
type GenericDescription struct {
	Descrizione string `json:"descrizione"`
}

// EventDescription is the structured description of an event poster.
// Only NomeEvento is mandatory; every other field stays empty unless visible in the image.
type EventDescription struct {
	NomeEvento            string   `json:"nome_evento"`
	DataEvento            string   `json:"data_evento,omitempty"`
	OraEvento             string   `json:"ora_evento,omitempty"`
	DescrizioneEvento     string   `json:"descrizione_evento,omitempty"`
	OrganizzatoriEvento   []string `json:"organizzatori_evento,omitempty"`
	ContattiOrganizzatori []string `json:"contatti_organizzatori,omitempty"`
	LuogoEvento           string   `json:"luogo_evento,omitempty"`
	Altro                 string   `json:"altro,omitempty"`
}

func (e *EventDescription) normalize() {
	e.NomeEvento = strings.TrimSpace(e.NomeEvento)
	e.DataEvento = strings.TrimSpace(e.DataEvento)
	e.OraEvento = strings.TrimSpace(e.OraEvento)
	e.DescrizioneEvento = strings.TrimSpace(e.DescrizioneEvento)
	e.LuogoEvento = strings.TrimSpace(e.LuogoEvento)
	e.Altro = strings.TrimSpace(e.Altro)
	e.OrganizzatoriEvento = trimList(e.OrganizzatoriEvento)
	e.ContattiOrganizzatori = trimList(e.ContattiOrganizzatori)
}

func trimList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Result is the parsed model answer: the requested Kind plus the variant the
// model actually populated. For KindGeneric and KindEvent the variant always
// matches the kind; for KindFinal it is whatever the model picked.
type Result struct {
	Kind    Kind
	Variant Variant
	Generic GenericDescription
	Event   EventDescription
}

func GenericResult(kind Kind, g GenericDescription) Result {
	return Result{Kind: kind, Variant: VariantGeneric, Generic: g}
}

func EventResult(kind Kind, e EventDescription) Result {
	return Result{Kind: kind, Variant: VariantEvent, Event: e}
}
