package rule

import "embed"

// builtinFS embeds the built-in rule groups shipped with the engine.
//
//go:embed rules/*.yaml
var builtinFS embed.FS
