package models

// Ink is a decorative color tag for an entry
type Ink struct {
	Code        string
	Name        string
	Description string
	Color       string // hex RGB
	Shimmer     string // hex RGB, empty when the ink has no shimmer
}

// HasShimmer reports whether the ink renders with a shimmer accent.
func (i Ink) HasShimmer() bool {
	return i.Shimmer != ""
}

const (
	InkEmeraldOfChivor = "emerald_of_chivor"
	InkStormyGrey      = "stormy_grey"
	InkRougeHematite   = "rouge_hematite"
	InkBleuPervenche   = "bleu_pervenche"
	InkVertAtlantide   = "vert_atlantide"
	InkPoussiereDeLune = "poussiere_de_lune"

	DefaultInk = InkStormyGrey
)

var inks = []Ink{
	{Code: InkEmeraldOfChivor, Name: "Emerald of Chivor", Description: "Teal with gold shimmer", Color: "#26736B", Shimmer: "#D9BF73"},
	{Code: InkStormyGrey, Name: "Stormy Grey", Description: "Classic blue-grey", Color: "#596B85"},
	{Code: InkRougeHematite, Name: "Rouge Hematite", Description: "Rich burgundy with gold", Color: "#8C2633", Shimmer: "#D9BF73"},
	{Code: InkBleuPervenche, Name: "Bleu Pervenche", Description: "Soft periwinkle blue", Color: "#6673B8"},
	{Code: InkVertAtlantide, Name: "Vert Atlantide", Description: "Deep sea green", Color: "#2E6B61"},
	{Code: InkPoussiereDeLune, Name: "Poussiere de Lune", Description: "Violet with silver shimmer", Color: "#73598C", Shimmer: "#BFBFD9"},
}

// Inks returns the catalogue in display order.
func Inks() []Ink {
	out := make([]Ink, len(inks))
	copy(out, inks)
	return out
}

// IsKnownInk reports whether code names a catalogue ink.
func IsKnownInk(code string) bool {
	for _, ink := range inks {
		if ink.Code == code {
			return true
		}
	}
	return false
}

// LookupInk returns the ink for code, or the default ink when code is unknown.
func LookupInk(code string) Ink {
	for _, ink := range inks {
		if ink.Code == code {
			return ink
		}
	}
	return LookupInk(DefaultInk)
}
