package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-instancer/engine/model"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
)

// objLoaderBackend imports Wavefront OBJ files and their MTL material libraries.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

func newOBJLoaderBackend() loaderBackend {
	return &objLoaderBackend{}
}

func (b *objLoaderBackend) Load(path string, cfg loadConfig) (model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to read %s: %w", path, err)
	}

	mtlPath := resolveMaterialLibrary(path, data)
	var mtlReader io.Reader = strings.NewReader("")
	lib := materialLibrary{dir: filepath.Dir(path)}
	if mtlPath != "" {
		mtlData, err := os.ReadFile(mtlPath)
		if err != nil {
			return nil, fmt.Errorf("loader: failed to read material library %s: %w", mtlPath, err)
		}
		mtlReader = bytes.NewReader(mtlData)
		lib.dir = filepath.Dir(mtlPath)
		lib.textures = make(map[string]string)
		for _, dm := range parseDiffuseMaps(mtlData) {
			lib.textures[dm.material] = dm.file
		}
	}

	dec, err := obj.DecodeReader(bytes.NewReader(data), mtlReader)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to decode %s: %w", path, err)
	}
	// the decoder swaps every material for its gray default when the library fails to parse
	for _, w := range dec.Warnings {
		if strings.Contains(w, mtlParseFailedWarning) {
			return nil, fmt.Errorf("%w: %s: %s", ErrMaterialLibrary, mtlPath, w)
		}
	}

	name := cfg.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	m, err := convertDecoded(name, dec, lib, cfg.preTransform)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return m, nil
}

func (b *objLoaderBackend) Dependencies(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	mtlPath := resolveMaterialLibrary(path, data)
	if mtlPath == "" {
		return nil
	}
	deps := []string{mtlPath}

	mtl, err := os.ReadFile(mtlPath)
	if err != nil {
		return deps
	}
	for _, dm := range parseDiffuseMaps(mtl) {
		tex := resolveTexture(filepath.Dir(mtlPath), dm.file)
		if !slices.Contains(deps, tex) {
			deps = append(deps, tex)
		}
	}
	return deps
}

// mtlParseFailedWarning is the decoder warning emitted when a material library does not parse.
const mtlParseFailedWarning = "unable to parse a material file"

// materialLibrary is what conversion needs from the MTL file: the directory texture names
// are relative to, and the diffuse map file of each material.
type materialLibrary struct {
	dir      string
	textures map[string]string
}

// diffuseMap is one map_Kd statement of a material library.
type diffuseMap struct {
	material string
	file     string
}

// parseDiffuseMaps lists the map_Kd statements of an MTL file in order. Options such as
// -s or -bm precede the file name, so the file is the last field.
func parseDiffuseMaps(mtl []byte) []diffuseMap {
	var (
		out     []diffuseMap
		current string
	)
	scanner := bufio.NewScanner(bytes.NewReader(mtl))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			current = fields[1]
		case "map_Kd":
			out = append(out, diffuseMap{material: current, file: fields[len(fields)-1]})
		}
	}
	return out
}

func resolveTexture(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

// resolveMaterialLibrary finds the MTL file for an OBJ: the first mtllib statement
// relative to the OBJ directory, falling back to <base>.mtl next to the OBJ.
// Returns an empty string when neither exists.
func resolveMaterialLibrary(objPath string, data []byte) string {
	dir := filepath.Dir(objPath)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "mtllib" {
			candidate := filepath.Join(dir, strings.Join(fields[1:], " "))
			if fileExists(candidate) {
				return candidate
			}
			break
		}
	}

	fallback := strings.TrimSuffix(objPath, filepath.Ext(objPath)) + ".mtl"
	if fileExists(fallback) {
		return fallback
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// convertDecoded turns decoded OBJ data into a model. Faces are fan-triangulated and
// de-indexed so each emitted corner gets its own vertex. A new submesh starts for every
// object and for every change of material inside an object.
func convertDecoded(name string, dec *obj.Decoder, lib materialLibrary, preTransform mgl32.Mat4) (model.Model, error) {
	materialIDs, materials := orderMaterials(dec, lib)

	var (
		vertices  []model.GPUVertex
		indices   []uint32
		submeshes []model.Submesh
	)

	for _, o := range dec.Objects {
		runStart := uint32(len(indices))
		runMaterial := ""
		inRun := false

		closeRun := func() {
			count := uint32(len(indices)) - runStart
			if !inRun || count == 0 {
				return
			}
			submeshes = append(submeshes, model.Submesh{
				Name:       o.Name,
				FirstIndex: runStart,
				IndexCount: count,
				MaterialID: materialIDs[runMaterial],
			})
		}

		for fi, face := range o.Faces {
			if len(face.Vertices) < 3 {
				continue
			}
			if !inRun || face.Material != runMaterial {
				closeRun()
				runStart = uint32(len(indices))
				runMaterial = face.Material
				inRun = true
			}

			for i := 2; i < len(face.Vertices); i++ {
				for _, corner := range [3]int{0, i - 1, i} {
					v, err := faceVertex(dec, face, corner, preTransform)
					if err != nil {
						return nil, fmt.Errorf("object %q face %d: %w", o.Name, fi, err)
					}
					vertices = append(vertices, v)
					indices = append(indices, uint32(len(vertices)-1))
				}
			}
		}
		closeRun()
	}

	return model.NewModel(
		model.WithName(name),
		model.WithGeometry(vertices, indices),
		model.WithSubmeshes(submeshes),
		model.WithMaterials(materials),
	)
}

// faceVertex builds the vertex for one corner of a face. Texture V is flipped to the
// top-left origin used by the GPU; a missing texture coordinate or normal is zero.
func faceVertex(dec *obj.Decoder, face obj.Face, corner int, preTransform mgl32.Mat4) (model.GPUVertex, error) {
	pi := face.Vertices[corner]
	if pi < 0 || 3*pi+2 >= len(dec.Vertices) {
		return model.GPUVertex{}, fmt.Errorf("position index %d out of range (%d positions)", pi, len(dec.Vertices)/3)
	}
	position := mgl32.Vec3{dec.Vertices[3*pi], dec.Vertices[3*pi+1], dec.Vertices[3*pi+2]}

	var uv [2]float32
	if corner < len(face.Uvs) {
		if ti := face.Uvs[corner]; ti >= 0 && 2*ti+1 < len(dec.Uvs) {
			uv = [2]float32{dec.Uvs[2*ti], 1 - dec.Uvs[2*ti+1]}
		}
	}

	var normal mgl32.Vec3
	if corner < len(face.Normals) {
		if ni := face.Normals[corner]; ni >= 0 && 3*ni+2 < len(dec.Normals) {
			normal = mgl32.Vec3{dec.Normals[3*ni], dec.Normals[3*ni+1], dec.Normals[3*ni+2]}
		}
	}

	position = preTransform.Mul4x1(position.Vec4(1)).Vec3()
	normal = preTransform.Mul4x1(normal.Vec4(0)).Vec3()
	if normal.Len() > 0 {
		normal = normal.Normalize()
	}

	return model.GPUVertex{
		Position: position,
		TexCoord: uv,
		Normal:   normal,
	}, nil
}

// orderMaterials assigns material ids: materials in order of first use by a face, then
// declared but unused materials in name order. Names that resolve to no material map to id 0.
// When the library declares nothing a single default material is returned.
func orderMaterials(dec *obj.Decoder, lib materialLibrary) (map[string]int, []material.Material) {
	ids := make(map[string]int)
	var materials []material.Material

	add := func(name string) {
		if _, seen := ids[name]; seen {
			return
		}
		src, ok := dec.Materials[name]
		if !ok || src == nil {
			return
		}
		ids[name] = len(materials)
		materials = append(materials, convertMaterial(name, src, lib))
	}

	for _, o := range dec.Objects {
		for _, face := range o.Faces {
			add(face.Material)
		}
	}

	unused := make([]string, 0, len(dec.Materials))
	for name := range dec.Materials {
		if _, seen := ids[name]; !seen {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	for _, name := range unused {
		add(name)
	}

	if len(materials) == 0 {
		materials = append(materials, material.DefaultMaterial())
	}
	return ids, materials
}

// convertMaterial maps an MTL block to a material. A diffuse map makes it textured,
// otherwise the diffuse color is used with full opacity.
func convertMaterial(name string, src *obj.Material, lib materialLibrary) material.Material {
	props := material.Properties{
		Shininess:      src.Shininess,
		Ambient:        [3]float32{src.Ambient.R, src.Ambient.G, src.Ambient.B},
		Diffuse:        [3]float32{src.Diffuse.R, src.Diffuse.G, src.Diffuse.B},
		Specular:       [3]float32{src.Specular.R, src.Specular.G, src.Specular.B},
		Emissive:       [3]float32{src.Emissive.R, src.Emissive.G, src.Emissive.B},
		OpticalDensity: src.Refraction,
		Dissolve:       src.Opacity,
		Illum:          src.Illum,
	}

	if file := lib.textures[name]; file != "" {
		return material.NewMaterial(
			material.WithName(name),
			material.WithTexture(resolveTexture(lib.dir, file)),
			material.WithProperties(props),
		)
	}

	return material.NewMaterial(
		material.WithName(name),
		material.WithColor([4]float32{src.Diffuse.R, src.Diffuse.G, src.Diffuse.B, 1}),
		material.WithProperties(props),
	)
}
