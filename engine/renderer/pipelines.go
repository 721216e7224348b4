package renderer

import (
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultPipelines builds the instanced pipelines used for model rendering: one for
// flat-colored materials and one for textured materials. Both share the camera layout at group 0
// and cull back faces of the counter-clockwise winding OBJ files use.
//
// Returns:
//   - []pipeline.Pipeline: the colored and textured pipelines, not yet registered
func DefaultPipelines() []pipeline.Pipeline {
	return []pipeline.Pipeline{
		pipeline.NewPipeline(material.PipelineKeyColored,
			pipeline.WithShader(shader.NewShader(material.PipelineKeyColored, shader.InstancedColoredSource)),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		),
		pipeline.NewPipeline(material.PipelineKeyTextured,
			pipeline.WithShader(shader.NewShader(material.PipelineKeyTextured, shader.InstancedTexturedSource)),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		),
	}
}
