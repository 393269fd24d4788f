package plugin

// Info contains plugin metadata
type Info struct {
	URI      string // Unique plugin address (e.g., "kick", "synthgraph:voice")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Drum", "Instrument", "Fx")
}

// Categories used by the bundled plugins.
const (
	CategoryInstrument = "Instrument"
	CategoryDrum       = "Drum"
	CategoryModulator  = "Modulator"
	CategoryFx         = "Fx"
)
