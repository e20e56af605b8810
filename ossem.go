// Package ossem holds build metadata for the ossemdoc tool.
package ossem

// Version is the current ossemdoc release.
const Version = "0.2.0"
