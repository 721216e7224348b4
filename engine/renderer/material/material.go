package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/bind_group_provider"
)

// Kind selects the render pipeline family of a material.
type Kind int

const (
	// KindColoredModel draws with a flat diffuse color uniform.
	KindColoredModel Kind = iota
	// KindTexturedModel samples a diffuse texture.
	KindTexturedModel
)

// Pipeline keys registered by the renderer for each material kind.
const (
	PipelineKeyColored  = "instanced_colored"
	PipelineKeyTextured = "instanced_textured"
)

func (k Kind) String() string {
	switch k {
	case KindColoredModel:
		return "ColoredModel"
	case KindTexturedModel:
		return "TexturedModel"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// PipelineKey returns the render pipeline key for this kind.
func (k Kind) PipelineKey() string {
	if k == KindTexturedModel {
		return PipelineKeyTextured
	}
	return PipelineKeyColored
}

// Properties mirrors a material block of a material library file.
type Properties struct {
	Shininess      float32    // Ns
	Ambient        [3]float32 // Ka
	Diffuse        [3]float32 // Kd
	Specular       [3]float32 // Ks
	Emissive       [3]float32 // Ke
	OpticalDensity float32    // Ni
	Dissolve       float32    // d
	Illum          int        // illum
}

// material is the implementation of the Material interface.
type material struct {
	name              string
	kind              Kind
	filename          string
	color             [4]float32
	properties        Properties
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material is a tagged variant over {TexturedModel, ColoredModel}.
// Exactly one of Filename and Color is meaningful, selected by Kind.
//
// Surface data is fixed at construction. The GPU descriptor (bind group provider) is resolved
// once after load by the Renderer and stored on the material.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind retrieves the variant tag of the material.
	//
	// Returns:
	//   - Kind: KindTexturedModel or KindColoredModel
	Kind() Kind

	// Filename retrieves the diffuse texture path. Empty unless Kind is KindTexturedModel.
	//
	// Returns:
	//   - string: the texture path
	Filename() string

	// Texture returns the diffuse texture reference for a textured material, or nil for a colored one.
	//
	// Returns:
	//   - *common.ImportedTexture: the texture, or nil
	Texture() *common.ImportedTexture

	// Color retrieves the flat RGBA color. Only meaningful when Kind is KindColoredModel.
	//
	// Returns:
	//   - [4]float32: the color as RGBA values
	Color() [4]float32

	// Properties retrieves the imported surface properties.
	//
	// Returns:
	//   - Properties: the material library values
	Properties() Properties

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider retrieves the resolved GPU descriptor for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider, or nil if not yet resolved
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider stores the resolved GPU descriptor for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)

	// Resolved reports whether the GPU descriptor has been created.
	//
	// Returns:
	//   - bool: true once SetBindGroupProvider received a non-nil provider
	Resolved() bool
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Without a variant option the material is colored white.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		kind:  KindColoredModel,
		color: [4]float32{1, 1, 1, 1},
		properties: Properties{
			Dissolve: 1,
		},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// DefaultMaterial returns the light-gray colored material used for faces without a material library entry.
func DefaultMaterial() Material {
	const gray = float32(0xA0) / 255
	return NewMaterial(
		WithName("default"),
		WithColor([4]float32{gray, gray, gray, 1}),
		WithProperties(Properties{Diffuse: [3]float32{gray, gray, gray}, Dissolve: 1, Illum: 1}),
	)
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) Filename() string {
	return m.filename
}

func (m *material) Texture() *common.ImportedTexture {
	if m.kind != KindTexturedModel {
		return nil
	}
	return &common.ImportedTexture{Path: m.filename}
}

func (m *material) Color() [4]float32 {
	return m.color
}

func (m *material) Properties() Properties {
	return m.properties
}

func (m *material) PipelineKey() string {
	return m.kind.PipelineKey()
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}

func (m *material) Resolved() bool {
	return m.bindGroupProvider != nil
}
