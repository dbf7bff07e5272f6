package petsite

import "embed"

// EmbeddedAssets contains files served by the dev server itself:
// livereload.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
