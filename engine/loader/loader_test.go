package loader

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-instancer/engine/model"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleOBJ = `mtllib tri.mtl
o tri
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
usemtl red
f 1/1/1 2/2/1 3/3/1
`

const triangleMTL = `newmtl red
Kd 1 0 0
`

type decodedVertex struct {
	position mgl32.Vec3
	uv       [2]float32
	normal   mgl32.Vec3
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func float32At(data []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
}

func vertexAt(m model.Model, i int) decodedVertex {
	data := m.Data()
	base := i * model.GPUVertexSize
	return decodedVertex{
		position: mgl32.Vec3{float32At(data, base), float32At(data, base+4), float32At(data, base+8)},
		uv:       [2]float32{float32At(data, base+12), float32At(data, base+16)},
		normal:   mgl32.Vec3{float32At(data, base+20), float32At(data, base+24), float32At(data, base+28)},
	}
}

func indicesOf(m model.Model) []uint32 {
	data := m.Data()[m.IndexOffset():]
	out := make([]uint32, m.IndexCount())
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}

func TestLoadSingleTriangle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tri.obj", triangleOBJ)
	writeFile(t, dir, "tri.mtl", triangleMTL)

	m, err := NewLoader(BackendTypeOBJ).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tri", m.Name())
	assert.Equal(t, uint32(3), m.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, indicesOf(m))
	assert.Equal(t, uint64(3*model.GPUVertexSize), m.IndexOffset())

	v1 := vertexAt(m, 1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, v1.position)
	assert.Equal(t, [2]float32{1, 1}, v1.uv)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, v1.normal)

	v2 := vertexAt(m, 2)
	assert.Equal(t, [2]float32{0, 0}, v2.uv)

	require.Len(t, m.Submeshes(), 1)
	assert.Equal(t, model.Submesh{Name: "tri", FirstIndex: 0, IndexCount: 3, MaterialID: 0}, m.Submeshes()[0])

	require.Len(t, m.Materials(), 1)
	red := m.Materials()[0]
	assert.Equal(t, "red", red.Name())
	assert.Equal(t, material.KindColoredModel, red.Kind())
	assert.Equal(t, [4]float32{1, 0, 0, 1}, red.Color())
}

func TestLoadFanTriangulatesPolygons(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quad.obj", `o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)

	m, err := NewLoader(BackendTypeOBJ).Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(6), m.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, indicesOf(m))

	expected := []mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0},
		{0, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}
	for i, want := range expected {
		v := vertexAt(m, i)
		assert.Equal(t, want, v.position, "vertex %d", i)
		assert.Equal(t, [2]float32{0, 0}, v.uv, "missing uv is zero")
		assert.Equal(t, mgl32.Vec3{}, v.normal, "missing normal is zero")
	}

	require.NotEmpty(t, m.Materials())
	for _, sm := range m.Submeshes() {
		assert.Equal(t, 0, sm.MaterialID)
	}
}

func TestLoadSplitsSubmeshesByMaterialRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "runs.obj", `mtllib runs.mtl
o first
v 0 0 0
v 1 0 0
v 0 1 0
usemtl b
f 1 2 3
f 1 2 3
usemtl a
f 1 2 3
usemtl b
f 1 2 3
o second
usemtl a
f 1 2 3
`)
	writeFile(t, dir, "runs.mtl", `newmtl a
Kd 0 1 0
newmtl b
Kd 0 0 1
newmtl c
Kd 1 1 1
`)

	m, err := NewLoader(BackendTypeOBJ).Load(path)
	require.NoError(t, err)

	names := make([]string, 0, len(m.Materials()))
	for _, mat := range m.Materials() {
		names = append(names, mat.Name())
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)

	assert.Equal(t, []model.Submesh{
		{Name: "first", FirstIndex: 0, IndexCount: 6, MaterialID: 0},
		{Name: "first", FirstIndex: 6, IndexCount: 3, MaterialID: 1},
		{Name: "first", FirstIndex: 9, IndexCount: 3, MaterialID: 0},
		{Name: "second", FirstIndex: 12, IndexCount: 3, MaterialID: 1},
	}, m.Submeshes())
}

func TestLoadPreTransform(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tri.obj", triangleOBJ)
	writeFile(t, dir, "tri.mtl", triangleMTL)

	xf := mgl32.Translate3D(10, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2))
	m, err := NewLoader(BackendTypeOBJ).Load(path, WithPreTransform(xf), WithName("moved"))
	require.NoError(t, err)

	assert.Equal(t, "moved", m.Name())
	v1 := vertexAt(m, 1)
	assert.Equal(t, mgl32.Vec3{12, 0, 0}, v1.position)
	assert.InDelta(t, 1, v1.normal.Len(), 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, v1.normal)
}

func TestLoadFallsBackToSiblingMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tri.obj", `o tri
v 0 0 0
v 1 0 0
v 0 1 0
usemtl red
f 1 2 3
`)
	writeFile(t, dir, "tri.mtl", triangleMTL)

	l := NewLoader(BackendTypeOBJ)
	assert.Equal(t, []string{filepath.Join(dir, "tri.mtl")}, l.Dependencies(path))

	m, err := l.Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, m.Materials())
	assert.Equal(t, "red", m.Materials()[0].Name())
}

func TestLoadTexturedMaterial(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "crate.obj", `mtllib crate.mtl
o crate
v 0 0 0
v 1 0 0
v 0 1 0
usemtl wood
f 1 2 3
`)
	writeFile(t, dir, "crate.mtl", `newmtl wood
Kd 1 1 1
map_Kd crate.png
`)

	m, err := NewLoader(BackendTypeOBJ).Load(path)
	require.NoError(t, err)
	require.Len(t, m.Materials(), 1)

	wood := m.Materials()[0]
	assert.Equal(t, material.KindTexturedModel, wood.Kind())
	assert.Equal(t, material.PipelineKeyTextured, wood.PipelineKey())
	require.NotNil(t, wood.Texture())
	assert.Equal(t, filepath.Join(dir, "crate.png"), wood.Texture().Path)

	assert.Equal(t, []string{
		filepath.Join(dir, "crate.mtl"),
		filepath.Join(dir, "crate.png"),
	}, NewLoader(BackendTypeOBJ).Dependencies(path))
}

func TestLoadTextureWithMapOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "crate.obj", `mtllib crate.mtl
o crate
v 0 0 0
v 1 0 0
v 0 1 0
usemtl wood
f 1 2 3
`)
	writeFile(t, dir, "crate.mtl", `newmtl wood
Kd 1 1 1
map_Kd -s 1 1 1 -bm 0.5 crate.png
`)

	l := NewLoader(BackendTypeOBJ)
	m, err := l.Load(path)
	require.NoError(t, err)
	require.Len(t, m.Materials(), 1)

	wood := m.Materials()[0]
	assert.Equal(t, material.KindTexturedModel, wood.Kind())
	require.NotNil(t, wood.Texture())
	assert.Equal(t, filepath.Join(dir, "crate.png"), wood.Texture().Path)
	assert.Equal(t, []string{
		filepath.Join(dir, "crate.mtl"),
		filepath.Join(dir, "crate.png"),
	}, l.Dependencies(path))
}

func TestLoadMalformedMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tri.obj", triangleOBJ)
	writeFile(t, dir, "tri.mtl", `newmtl red
Kd 1 0
`)

	_, err := NewLoader(BackendTypeOBJ).Load(path)
	assert.ErrorIs(t, err, ErrMaterialLibrary)
}

func TestParseDiffuseMaps(t *testing.T) {
	maps := parseDiffuseMaps([]byte(`newmtl a
map_Kd a.png
newmtl plain
Kd 1 1 1
newmtl b
map_Kd -o 0.5 0.5 textures/b.jpg
`))
	assert.Equal(t, []diffuseMap{
		{material: "a", file: "a.png"},
		{material: "b", file: "textures/b.jpg"},
	}, maps)
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(BackendTypeOBJ)

	_, err := l.Load("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, l.Supports("model.fbx"))
	assert.True(t, l.Supports("MODEL.OBJ"))

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.obj", `o bad
v 0 0 0
f 1 2 3
`)
	_, err = l.Load(bad)
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	tri := writeFile(t, dir, "tri.obj", triangleOBJ)
	writeFile(t, dir, "tri.mtl", triangleMTL)

	var calls atomic.Int32
	var lastDone, lastTotal int
	l := NewLoader(BackendTypeOBJ,
		WithWorkers(2),
		WithProgress(func(done, total int, _ string) {
			calls.Add(1)
			lastDone, lastTotal = done, total
		}),
	)

	results, err := l.LoadAll([]Request{
		{ID: "a", Path: tri},
		{ID: "missing", Path: filepath.Join(dir, "nope.obj")},
		{ID: "b", Path: tri, Options: []LoadOption{WithName("b")}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].ID)
	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Model)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Model)
	assert.Equal(t, "b", results[2].Model.Name())

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, lastDone)
	assert.Equal(t, 3, lastTotal)
}

func TestWatcherReportsChangedModel(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tri.obj", triangleOBJ)
	writeFile(t, dir, "other.obj", triangleOBJ)

	w, err := NewWatcher(WithDebounce(20 * time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch("tri", path))

	require.NoError(t, os.WriteFile(path, []byte(triangleOBJ+"\n"), 0o644))
	select {
	case id := <-w.Changes():
		assert.Equal(t, "tri", id)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.obj"), []byte(triangleOBJ), 0o644))
	deadline := time.After(300 * time.Millisecond)
	for {
		select {
		case id := <-w.Changes():
			assert.Equal(t, "tri", id, "unwatched file must not report")
		case <-deadline:
			return
		}
	}
}
