package describe

// SystemPrompt is the fixed instruction sent with every request.
const SystemPrompt = "Sei un bot di Telegram che aiuta le persone con disabilità visive a comprendere il contenuto delle immagini che vengono inviate da utenti. " +
	"Fornisci descrizioni dettagliate e accessibili basate sulle informazioni visive e testuali disponibili. " +
	"Se è presente del testo nell'immagine, riportalo fedelmente. " +
	"Se non hai informazioni accurate, evita assolutamente di inventare dettagli o riportarli come fatti.\n\n" +
	"Tieni a mente che il bot di Telegram fa parte del gruppo di nome 'Poliamore Milano' che tratta di non-monogamia consensuale ed etica con valori di: " +
	"inclusività, rispetto, transfemminilità, e comunità intersezionale. " +
	"Assumi che gli utenti del bot condividano questi valori e che le immagini inviate siano in linea con questi valori. " +
	"Nel rispondere usa un linguaggio inclusivo e rispettoso, usando il femminile come genere neutro, o l'asterisco (*) o lo schwa (ə)."

const (
	captionLabel = "Questo è il commento dell'utente che ha inviato la foto: "
	replyLabel   = "Questo è il commento di un altro utente che potrebbe contenere informazioni ulteriori come dettagli o correzzioni, o un contesto migliore: "
)

// ImageDetail is the detail level requested for the image part.
const ImageDetail = "low"

// TextSegments returns the labeled text parts that follow the image, in order.
// Absent values are omitted entirely.
func TextSegments(in Request) []string {
	var out []string
	if in.Caption != "" {
		out = append(out, captionLabel+in.Caption)
	}
	if in.ReplyContext != "" {
		out = append(out, replyLabel+in.ReplyContext)
	}
	return out
}
