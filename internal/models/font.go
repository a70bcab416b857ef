package models

// Font is a typographic style tag for an entry
type Font struct {
	Code        string
	Name        string
	Description string
	Design      string // serif, script, sans, monospace or rounded
	LineSpacing int
}

const (
	FontClassicSerif  = "classic_serif"
	FontElegantScript = "elegant_script"
	FontModernSans    = "modern_sans"
	FontTypewriter    = "typewriter"
	FontCasual        = "casual"

	DefaultFont = FontClassicSerif
)

var fonts = []Font{
	{Code: FontClassicSerif, Name: "Classic Serif", Description: "Traditional, timeless elegance", Design: "serif", LineSpacing: 8},
	{Code: FontElegantScript, Name: "Elegant Script", Description: "Flowing, handwritten style", Design: "script", LineSpacing: 10},
	{Code: FontModernSans, Name: "Modern Sans", Description: "Clean and minimal", Design: "sans", LineSpacing: 6},
	{Code: FontTypewriter, Name: "Typewriter", Description: "Vintage monospace feel", Design: "monospace", LineSpacing: 8},
	{Code: FontCasual, Name: "Casual", Description: "Friendly and approachable", Design: "rounded", LineSpacing: 7},
}

// Fonts returns the catalogue in display order.
func Fonts() []Font {
	out := make([]Font, len(fonts))
	copy(out, fonts)
	return out
}

// IsKnownFont reports whether code names a catalogue font.
func IsKnownFont(code string) bool {
	for _, f := range fonts {
		if f.Code == code {
			return true
		}
	}
	return false
}

// LookupFont returns the font for code, or the default font when code is unknown.
func LookupFont(code string) Font {
	for _, f := range fonts {
		if f.Code == code {
			return f
		}
	}
	return LookupFont(DefaultFont)
}
