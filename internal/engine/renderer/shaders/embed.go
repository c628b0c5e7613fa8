// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// GlobeVertexShader transforms sphere and tile vertices.
//
//go:embed globe.vert
var GlobeVertexShader string

// GlobeFragmentShader shades sphere and tiles with one directional light.
//
//go:embed globe.frag
var GlobeFragmentShader string
