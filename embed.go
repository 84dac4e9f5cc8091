package flatpress

import "embed"

// EmbeddedAssets contains the static assets served under /public/:
// style.css and chat.js.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
