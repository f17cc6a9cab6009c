package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconMinor           = "·"
	IconModerate        = "!"
	IconMajor           = "‼"
	IconLifeThreatening = "✗"
	IconUnknown         = "?"
	IconPill            = "◆" // medication chip
	IconSelected        = "›"
	IconImageReady      = "▣"
	IconImagePending    = "◌"
	IconImageMissing    = "□"
	IconHistory         = "↺"
)
