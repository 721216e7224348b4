package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and material binding.
type shader struct {
	key                        string
	source                     string
	vertexEntryPoint           string
	fragmentEntryPoint         string
	vertexLayouts              []wgpu.VertexBufferLayout
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a parsed WGSL module holding both a vertex and a fragment stage.
// It exposes the entry points, the vertex buffer layouts (one per buffer slot) and the
// bind group layout descriptors needed for pipeline creation and resource wiring.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the @vertex function name.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	VertexEntryPoint() string

	// FragmentEntryPoint returns the @fragment function name.
	//
	// Returns:
	//   - string: the entry point name (e.g. "fs_main")
	FragmentEntryPoint() string

	// VertexLayouts retrieves the vertex buffer layouts in buffer slot order.
	// Slot 0 is per-vertex geometry; a struct named *Instance yields an instance-stepped slot.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name for a given group and binding index, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a new Shader from WGSL source and parses its layout metadata.
// It panics when the source lacks a @vertex or @fragment entry point, since no pipeline can be built from it.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - source: the WGSL source code
//
// Returns:
//   - Shader: a new Shader instance
func NewShader(key, source string) Shader {
	s := &shader{
		key:    key,
		source: source,
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
		},
	}
	s.vertexEntryPoint = parseEntryPoint(source, vertexEntryRegex)
	s.fragmentEntryPoint = parseEntryPoint(source, fragmentEntryRegex)
	if s.vertexEntryPoint == "" || s.fragmentEntryPoint == "" {
		panic(fmt.Sprintf("shader: %s must declare both a @vertex and a @fragment entry point", key))
	}
	s.vertexLayouts = parseVertexLayouts(source)
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(source, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
