// Package files embeds the reference datasets shipped with the repository.
package files

import "embed"

// Datasets holds countries.json, states.json and cities.json.
//
//go:embed *.json
var Datasets embed.FS
