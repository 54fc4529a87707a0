// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms lit and unlit meshes and their shadow coordinates.
//
//go:embed mesh.vert
var MeshVertexShader string

// PhongFragmentShader shades lit surfaces with hemisphere, directional,
// point and spot lights and PCF shadows.
//
//go:embed phong.frag
var PhongFragmentShader string

// BasicFragmentShader outputs colour times map, unlit.
//
//go:embed basic.frag
var BasicFragmentShader string

// SkyboxVertexShader is the vertex shader for the background cube.
//
//go:embed skybox.vert
var SkyboxVertexShader string

// SkyboxFragmentShader samples the background cube map.
//
//go:embed skybox.frag
var SkyboxFragmentShader string

// DepthVertexShader renders shadow casters from a light.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader is the empty fragment stage of the depth pass.
//
//go:embed depth.frag
var DepthFragmentShader string
