package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet and dashboard script).
//
//go:embed static/*
var StaticFS embed.FS
