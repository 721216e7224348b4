package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that makes the material a ColoredModel with the given RGBA color.
// Any texture path set earlier is discarded.
//
// Parameters:
//   - color: the flat color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.kind = KindColoredModel
		m.color = color
		m.filename = ""
	}
}

// WithTexture is an option builder that makes the material a TexturedModel sampling the given file.
//
// Parameters:
//   - filename: path to a PNG or JPEG image
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(filename string) MaterialBuilderOption {
	return func(m *material) {
		m.kind = KindTexturedModel
		m.filename = filename
		m.color = [4]float32{1, 1, 1, 1}
	}
}

// WithProperties is an option builder that sets the imported surface properties.
//
// Parameters:
//   - props: the material library values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the properties option to a material
func WithProperties(props Properties) MaterialBuilderOption {
	return func(m *material) {
		m.properties = props
	}
}
