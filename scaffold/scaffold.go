// Package scaffold provides the embedded files that flatpress init writes
// into a new site directory.
package scaffold

import "embed"

// Templates contains all scaffold files. Files with a .tmpl suffix use Go
// text/template syntax; "dotenv" is written as .env.example.
//
//go:embed all:templates
var Templates embed.FS
