package shader

import (
	_ "embed"
)

// InstancedColoredSource is the WGSL module for flat-color materials drawn with per-instance transforms.
//
//go:embed assets/instanced_colored.wgsl
var InstancedColoredSource string

// InstancedTexturedSource is the WGSL module for diffuse-texture materials drawn with per-instance transforms.
//
//go:embed assets/instanced_textured.wgsl
var InstancedTexturedSource string
