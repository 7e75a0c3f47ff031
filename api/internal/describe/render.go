package describe

import "strings"

const (
	prefixEvent   = "Ecco la descrizione dell'evento:\n\n"
	prefixImage   = "Ecco la descrizione dell'immagine:\n\n"
	noDescription = "L'immagine non è stata descritta con testo"
)

func (g GenericDescription) String() string { return g.Descrizione }

func (e EventDescription) String() string {
	var b strings.Builder
	b.WriteString("Evento: " + e.NomeEvento + "\n")

	if len(e.OrganizzatoriEvento) > 0 {
		b.WriteString("Organizzato da: " + strings.Join(e.OrganizzatoriEvento, ", ") + "\n")
	}
	if e.DescrizioneEvento != "" {
		b.WriteString("Descrizione: " + e.DescrizioneEvento + "\n")
	}
	if len(e.ContattiOrganizzatori) > 0 {
		b.WriteString("Contatti: " + strings.Join(e.ContattiOrganizzatori, ", ") + "\n")
	} else {
		b.WriteString("Contatti: non disponibili\n")
	}

	switch {
	case e.DataEvento != "" && e.OraEvento != "":
		b.WriteString("Data e ora: " + e.DataEvento + ", " + e.OraEvento + "\n")
	case e.DataEvento != "":
		b.WriteString("Data: " + e.DataEvento + "\n")
	case e.OraEvento != "":
		b.WriteString("Ora: " + e.OraEvento + "\n")
	default:
		b.WriteString("Data e ora: non disponibili\n")
	}

	if e.LuogoEvento != "" {
		b.WriteString("Luogo: " + e.LuogoEvento + "\n")
	} else {
		b.WriteString("Luogo: non disponibile\n")
	}
	if e.Altro != "" {
		b.WriteString("Altro: " + e.Altro + "\n")
	}
	return b.String()
}

// Render turns a Result into the text sent back to the user.
func Render(r Result) string {
	switch r.Kind {
	case KindGeneric:
		return r.Generic.String()
	case KindEvent:
		return r.Event.String()
	case KindFinal:
		switch r.Variant {
		case VariantEvent:
			return prefixEvent + r.Event.String()
		case VariantGeneric:
			return prefixImage + r.Generic.String()
		default:
			return noDescription
		}
	default:
		return noDescription
	}
}
