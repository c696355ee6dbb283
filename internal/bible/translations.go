package bible

// Translation maps a client-side id to the remote scripture API id.
type Translation struct {
	ID    string
	Name  string
	APIID string
}

// DefaultTranslationID is used whenever a persisted id is unknown.
const DefaultTranslationID = "acf"

// Translations is the catalog enumerated at startup.
var Translations = []Translation{
	{ID: "acf", Name: "Almeida Corrigida Fiel", APIID: "almeida"},
	{ID: "nvi", Name: "Nova Versão Internacional", APIID: "nvi"},
	{ID: "kjv", Name: "King James Version", APIID: "kjv"},
}

// Resolve returns the catalog entry for id, coercing unknown ids to the
// default. The second return value reports whether a coercion happened.
func Resolve(id string) (Translation, bool) {
	for _, t := range Translations {
		if t.ID == id {
			return t, false
		}
	}
	def, _ := lookup(DefaultTranslationID)
	return def, true
}

func lookup(id string) (Translation, bool) {
	for _, t := range Translations {
		if t.ID == id {
			return t, true
		}
	}
	return Translation{}, false
}
