package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

// typeLayout is the size and alignment of a WGSL type in the uniform address space.
type typeLayout struct {
	size  uint64
	align uint64
}

// wgslField is one member of a WGSL struct. location is -1 when the field has no @location.
type wgslField struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type wgslStruct struct {
	name   string
	fields []wgslField
}

// instanceStructSuffix marks vertex input structs that advance once per instance.
const instanceStructSuffix = "Instance"

// wgslVertexFormatMap maps WGSL type names to their corresponding wgpu vertex format and byte size
var wgslVertexFormatMap = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
}

// wgslUniformLayoutMap maps the WGSL types allowed in our uniform structs to size and alignment.
var wgslUniformLayoutMap = map[string]typeLayout{
	"f32":         {4, 4},
	"u32":         {4, 4},
	"i32":         {4, 4},
	"vec2<f32>":   {8, 8},
	"vec2f":       {8, 8},
	"vec3<f32>":   {12, 16},
	"vec3f":       {12, 16},
	"vec4<f32>":   {16, 16},
	"vec4f":       {16, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> camera: CameraUniform;
	// or handle types: @group(1) @binding(0) var diffuse_texture: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexLayouts extracts vertex buffer layouts from WGSL source code, one per vertex input struct,
// in declaration order. The position in the returned slice is the vertex buffer slot.
// A struct is a vertex input when it has @location fields and no @builtin fields. Structs whose
// name ends in "Instance" use the instance step mode.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - []wgpu.VertexBufferLayout: layouts ordered by buffer slot
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	var result []wgpu.VertexBufferLayout
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		layout, ok := buildVertexBufferLayout(ps)
		if !ok {
			continue
		}
		result = append(result, layout)
	}
	return result
}

// parseBindGroupLayouts extracts all @group(N) @binding(M) resource declarations from WGSL
// source and returns them as wgpu.BindGroupLayoutDescriptor values grouped by group index.
// Each descriptor's entries are sorted by binding index.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - visibility: the shader stage visibility flag to set on each entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layout descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding index
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)
	cleaned := stripComments(source)
	structSizes := computeStructSizes(parseStructBlocks(cleaned))

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		varName := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])

		entry := classifyResource(uint32(binding), visibility, addressSpace, typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if layout, ok := structSizes[typeName]; ok {
				entry.Buffer.MinBindingSize = layout.size
			} else if layout, ok := wgslUniformLayoutMap[typeName]; ok {
				entry.Buffer.MinBindingSize = layout.size
			}
		}
		groups[group] = append(groups[group], entry)

		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
		}
		varNames[group][binding] = varName
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, varNames
}

// parseEntryPoint extracts the first function name following the given stage attribute.
// Returns an empty string if no matching entry point annotation is found.
func parseEntryPoint(source string, re *regexp.Regexp) string {
	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
func parseStructBlocks(source string) []wgslStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]wgslStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, wgslStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}
	return structs
}

// parseStructFields parses the body of a struct block into individual fields.
func parseStructFields(body string) []wgslField {
	lines := strings.Split(body, ",")
	fields := make([]wgslField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := wgslField{location: -1}
		field.builtin = builtinRegex.MatchString(line)
		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}
	return fields
}

// computeStructSizes computes the uniform layout of every struct built only from known types.
// Struct size is rounded up to the largest member alignment.
func computeStructSizes(structs []wgslStruct) map[string]typeLayout {
	resolved := make(map[string]typeLayout, len(structs))
	for _, ps := range structs {
		offset, maxAlign := uint64(0), uint64(1)
		ok := true
		for _, f := range ps.fields {
			if f.builtin || f.location >= 0 {
				ok = false
				break
			}
			layout, known := wgslUniformLayoutMap[f.typeName]
			if !known {
				ok = false
				break
			}
			offset = roundUpAlign(layout.align, offset) + layout.size
			maxAlign = max(maxAlign, layout.align)
		}
		if ok && len(ps.fields) > 0 {
			resolved[ps.name] = typeLayout{roundUpAlign(maxAlign, offset), maxAlign}
		}
	}
	return resolved
}

// roundUpAlign rounds value up to the next multiple of alignment (a power of two).
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// classifyResource creates a wgpu.BindGroupLayoutEntry from a parsed WGSL resource declaration.
// Uniform buffers, 2D float textures and filtering samplers are recognized.
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(typeName, "texture_2d<"):
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	}
	return entry
}

// stripComments removes both single-line (//) and block (/* */) comments from WGSL source.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// isVertexInputStruct returns true if the struct has at least one @location field and zero @builtin fields.
func isVertexInputStruct(ps wgslStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.builtin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// buildVertexBufferLayout converts a parsed vertex input struct into a tightly packed wgpu.VertexBufferLayout.
// Returns false if any field has an unrecognized type.
func buildVertexBufferLayout(ps wgslStruct) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64

	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok || f.location < 0 {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += info.size
	}

	stepMode := wgpu.VertexStepModeVertex
	if strings.HasSuffix(ps.name, instanceStructSuffix) {
		stepMode = wgpu.VertexStepModeInstance
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    stepMode,
		Attributes:  attrs,
	}, true
}
