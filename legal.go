package mhdb

import _ "embed"

//go:embed LICENSE
var License string

// LegalText returns legal text to be included in human-readable output using mhdb.
func LegalText() string {
	return `
================================================================================
mhdb - persistent uid index for MH mail folders
================================================================================
` + License + "\n"
}
