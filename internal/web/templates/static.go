package templates

import "embed"

// Static holds the stylesheet and gesture script linked from Layout.
//
//go:embed static
var Static embed.FS
