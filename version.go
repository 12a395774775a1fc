package muralis

import _ "embed"

// Version is the release of the library and the muralis CLI.
//
//go:embed VERSION
var Version string
