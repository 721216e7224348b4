package renderer

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentMode(t *testing.T) {
	assert.Equal(t, "vsync", PresentModeVSync.String())
	assert.Equal(t, "uncapped", PresentModeUncapped.String())
	assert.Equal(t, wgpu.PresentModeFifo, PresentModeVSync.toWGPU())
	assert.Equal(t, wgpu.PresentModeImmediate, PresentModeUncapped.toWGPU())
}

func TestSurfaceLostIsMatchable(t *testing.T) {
	err := fmt.Errorf("%w: %v", ErrSurfaceLost, "outdated")
	assert.ErrorIs(t, err, ErrSurfaceLost)
	assert.NotErrorIs(t, err, ErrNoFrame)
}

func TestBuilderQueuesOptions(t *testing.T) {
	r := &renderer{}
	pipelines := DefaultPipelines()
	for _, opt := range []RendererBuilderOption{
		WithPipelines(pipelines...),
		WithPresentMode(PresentModeUncapped),
		WithMSAA(MSAAOff),
		WithForceSoftwareRenderer(true),
		WithClearColor(wgpu.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}),
	} {
		opt(r)
	}

	require.Len(t, r.pendingPipelines, 2)
	assert.Equal(t, material.PipelineKeyColored, r.pendingPipelines[0].PipelineKey())
	assert.Equal(t, material.PipelineKeyTextured, r.pendingPipelines[1].PipelineKey())
	assert.Equal(t, PresentModeUncapped, *r.pendingPresentMode)
	assert.Equal(t, MSAAOff, *r.pendingMSAA)
	assert.True(t, r.forceFallbackAdapter)
	assert.Equal(t, wgpu.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}, r.clearColor)
}

func TestDefaultPipelinesCullCCW(t *testing.T) {
	for _, p := range DefaultPipelines() {
		assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace(), p.PipelineKey())
	}
}
