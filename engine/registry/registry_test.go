package registry

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-instancer/engine/camera"
	"github.com/Carmen-Shannon/oxy-instancer/engine/model"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	pipelineKey   string
	mesh          string
	firstIndex    uint32
	indexCount    uint32
	instanceCount uint32
	material      bind_group_provider.BindGroupProvider
}

// fakeGPU records what the registry asks of the renderer.
type fakeGPU struct {
	instanceAllocs map[string][]uint64
	writes         []bind_group_provider.BufferWrite
	draws          []drawCall
	materialInits  int
	bindGroupInits int
	failMaterial   bool
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{instanceAllocs: make(map[string][]uint64)}
}

func (f *fakeGPU) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, data []byte, indexOffset uint64, indexCount uint32) error {
	provider.SetVertexBuffer(nil, uint64(len(data)))
	provider.SetIndexRegion(indexOffset, indexCount)
	return nil
}

func (f *fakeGPU) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, size uint64) error {
	f.instanceAllocs[provider.Label()] = append(f.instanceAllocs[provider.Label()], size)
	provider.SetVertexBuffer(nil, size)
	return nil
}

func (f *fakeGPU) InitBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, group int) error {
	f.bindGroupInits++
	return nil
}

func (f *fakeGPU) InitMaterial(m material.Material) error {
	if f.failMaterial {
		return errors.New("boom")
	}
	f.materialInits++
	m.SetBindGroupProvider(bind_group_provider.NewBindGroupProvider(m.Name()))
	return nil
}

func (f *fakeGPU) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	f.writes = append(f.writes, writes...)
	return nil
}

func (f *fakeGPU) DrawCall(pipelineKey string, mesh, instances bind_group_provider.BindGroupProvider, firstIndex, indexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawCall{
		pipelineKey:   pipelineKey,
		mesh:          mesh.Label(),
		firstIndex:    firstIndex,
		indexCount:    indexCount,
		instanceCount: instanceCount,
		material:      bindGroups[1],
	})
	return nil
}

// twoPartModel builds a model of two triangles drawn with two different materials.
func twoPartModel(t *testing.T, name string, colors ...[4]float32) model.Model {
	t.Helper()
	vertices := make([]model.GPUVertex, 6)
	indices := []uint32{0, 1, 2, 3, 4, 5}
	materials := make([]material.Material, len(colors))
	for i, c := range colors {
		materials[i] = material.NewMaterial(material.WithName(name+"_mat"), material.WithColor(c))
	}
	m, err := model.NewModel(
		model.WithName(name),
		model.WithGeometry(vertices, indices),
		model.WithSubmeshes([]model.Submesh{
			{Name: "a", FirstIndex: 0, IndexCount: 3, MaterialID: 0},
			{Name: "b", FirstIndex: 3, IndexCount: 3, MaterialID: len(colors) - 1},
		}),
		model.WithMaterials(materials),
	)
	require.NoError(t, err)
	return m
}

func instances(n int) []model.InstanceData {
	out := make([]model.InstanceData, n)
	for i := range out {
		out[i] = model.NewInstance(mgl32.Vec3{float32(i), 0, 0}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	}
	return out
}

func TestLoadMeshCreatesPlaceholderBuffer(t *testing.T) {
	gpu := newFakeGPU()
	reg := NewRegistry(gpu)

	require.NoError(t, reg.LoadMesh("cube", twoPartModel(t, "cube", [4]float32{1, 0, 0, 1})))

	assert.True(t, reg.Has("cube"))
	assert.Equal(t, []string{"cube"}, reg.IDs())
	assert.Equal(t, uint64(1), reg.Capacity("cube"))
	assert.Equal(t, uint32(0), reg.Count("cube"))
	assert.Empty(t, reg.Instances("cube"))
	assert.Equal(t, []uint64{1}, gpu.instanceAllocs["cube Instances"])
	assert.Equal(t, 1, gpu.materialInits)
}

func TestSyncBuffersGrowsCapacityMonotonically(t *testing.T) {
	gpu := newFakeGPU()
	reg := NewRegistry(gpu)
	require.NoError(t, reg.LoadMesh("cube", twoPartModel(t, "cube", [4]float32{1, 1, 1, 1})))

	reg.SetInstances("cube", instances(10))
	require.NoError(t, reg.SyncBuffers())
	assert.Equal(t, uint64(640), reg.Capacity("cube"))
	assert.Equal(t, uint32(10), reg.Count("cube"))

	reg.SetInstances("cube", instances(3))
	require.NoError(t, reg.SyncBuffers())
	assert.Equal(t, uint64(640), reg.Capacity("cube"), "capacity never shrinks")
	assert.Equal(t, uint32(3), reg.Count("cube"))

	reg.SetInstances("cube", instances(10))
	require.NoError(t, reg.SyncBuffers())
	assert.Equal(t, uint64(640), reg.Capacity("cube"), "no reallocation at equal size")

	reg.SetInstances("cube", instances(11))
	require.NoError(t, reg.SyncBuffers())
	assert.Equal(t, uint64(704), reg.Capacity("cube"))

	assert.Equal(t, []uint64{1, 640, 704}, gpu.instanceAllocs["cube Instances"])

	last := gpu.writes[len(gpu.writes)-1]
	assert.Equal(t, bind_group_provider.VertexBindingSlot, last.Binding)
	assert.Len(t, last.Data, 11*model.GPUInstanceSize)
	assert.Equal(t, uint64(0), last.Offset)
}

func TestSyncBuffersEmptyListWritesNothing(t *testing.T) {
	gpu := newFakeGPU()
	reg := NewRegistry(gpu)
	require.NoError(t, reg.LoadMesh("cube", twoPartModel(t, "cube", [4]float32{1, 1, 1, 1})))

	require.NoError(t, reg.SyncBuffers())
	assert.Empty(t, gpu.writes)
	assert.Equal(t, uint64(1), reg.Capacity("cube"))
}

func TestRenderDrawsEverySubmeshWithAllInstances(t *testing.T) {
	gpu := newFakeGPU()
	reg := NewRegistry(gpu)
	cam := camera.NewCamera()

	require.NoError(t, reg.LoadMesh("b_model", twoPartModel(t, "b", [4]float32{1, 0, 0, 1}, [4]float32{0, 1, 0, 1})))
	require.NoError(t, reg.LoadMesh("a_model", twoPartModel(t, "a", [4]float32{0, 0, 1, 1})))
	require.NoError(t, reg.LoadMesh("empty", twoPartModel(t, "e", [4]float32{1, 1, 1, 1})))

	reg.SetInstances("a_model", instances(4))
	reg.SetInstances("b_model", instances(7))
	require.NoError(t, reg.SyncBuffers())

	require.NoError(t, reg.Render(cam))
	require.Len(t, gpu.draws, 4, "two submeshes per model with instances, none for the empty model")

	assert.Equal(t, "a_model Geometry", gpu.draws[0].mesh)
	assert.Equal(t, "a_model Geometry", gpu.draws[1].mesh)
	assert.Equal(t, "b_model Geometry", gpu.draws[2].mesh)
	assert.Equal(t, "b_model Geometry", gpu.draws[3].mesh)

	for _, d := range gpu.draws[:2] {
		assert.Equal(t, uint32(4), d.instanceCount)
	}
	for _, d := range gpu.draws[2:] {
		assert.Equal(t, uint32(7), d.instanceCount)
	}
	assert.Equal(t, uint32(3), gpu.draws[1].firstIndex)
	assert.Equal(t, uint32(3), gpu.draws[1].indexCount)
	assert.Equal(t, material.PipelineKeyColored, gpu.draws[0].pipelineKey)

	assert.Equal(t, 1, gpu.bindGroupInits, "camera bind group is created once")
	require.NoError(t, reg.Render(cam))
	assert.Equal(t, 1, gpu.bindGroupInits)
}

func TestRenderResolvesMaterialsPerModel(t *testing.T) {
	gpu := newFakeGPU()
	reg := NewRegistry(gpu)

	first := twoPartModel(t, "first", [4]float32{1, 0, 0, 1}, [4]float32{0, 1, 0, 1})
	second := twoPartModel(t, "second", [4]float32{0, 0, 1, 1}, [4]float32{1, 1, 0, 1})
	require.NoError(t, reg.LoadMesh("first", first))
	require.NoError(t, reg.LoadMesh("second", second))

	reg.SetInstances("first", instances(1))
	reg.SetInstances("second", instances(1))
	require.NoError(t, reg.SyncBuffers())
	require.NoError(t, reg.Render(camera.NewCamera()))
	require.Len(t, gpu.draws, 4)

	// Material id 0 of "second" must bind second's material, not first's.
	assert.Same(t, first.Materials()[0].BindGroupProvider(), gpu.draws[0].material)
	assert.Same(t, first.Materials()[1].BindGroupProvider(), gpu.draws[1].material)
	assert.Same(t, second.Materials()[0].BindGroupProvider(), gpu.draws[2].material)
	assert.Same(t, second.Materials()[1].BindGroupProvider(), gpu.draws[3].material)
	assert.Equal(t, 4, gpu.materialInits)
}

func TestReloadResetsInstances(t *testing.T) {
	gpu := newFakeGPU()
	reg := NewRegistry(gpu)
	require.NoError(t, reg.LoadMesh("cube", twoPartModel(t, "cube", [4]float32{1, 1, 1, 1})))

	reg.SetInstances("cube", instances(5))
	require.NoError(t, reg.SyncBuffers())
	require.Equal(t, uint32(5), reg.Count("cube"))

	replacement := twoPartModel(t, "cube2", [4]float32{0, 0, 0, 1})
	require.NoError(t, reg.LoadMesh("cube", replacement))

	assert.Same(t, replacement, reg.Mesh("cube"))
	assert.Empty(t, reg.Instances("cube"))
	assert.Equal(t, uint32(0), reg.Count("cube"))
	assert.Equal(t, uint64(1), reg.Capacity("cube"))

	gpu.draws = nil
	require.NoError(t, reg.Render(camera.NewCamera()))
	assert.Empty(t, gpu.draws)
}

func TestInstancesForUnknownIDAreSkipped(t *testing.T) {
	gpu := newFakeGPU()
	reg := NewRegistry(gpu)

	reg.SetInstances("ghost", instances(3))
	assert.False(t, reg.Has("ghost"))
	assert.Empty(t, reg.IDs())
	assert.Len(t, reg.Instances("ghost"), 3)

	require.NoError(t, reg.SyncBuffers())
	require.NoError(t, reg.Render(camera.NewCamera()))
	assert.Empty(t, gpu.draws)
	assert.Equal(t, uint32(0), reg.Count("ghost"))
}

func TestSetInstancesCopiesInput(t *testing.T) {
	reg := NewRegistry(newFakeGPU())
	require.NoError(t, reg.LoadMesh("cube", twoPartModel(t, "cube", [4]float32{1, 1, 1, 1})))

	in := instances(2)
	reg.SetInstances("cube", in)
	in[0] = model.InstanceData{}

	assert.NotEqual(t, model.InstanceData{}, reg.Instances("cube")[0])
}

func TestLoadMeshMaterialFailureLeavesRegistryUnchanged(t *testing.T) {
	gpu := newFakeGPU()
	reg := NewRegistry(gpu)
	require.NoError(t, reg.LoadMesh("cube", twoPartModel(t, "cube", [4]float32{1, 1, 1, 1})))

	gpu.failMaterial = true
	err := reg.LoadMesh("other", twoPartModel(t, "other", [4]float32{1, 0, 0, 1}))
	require.Error(t, err)
	assert.False(t, reg.Has("other"))
	assert.Equal(t, []string{"cube"}, reg.IDs())
}

func TestLoadWithoutLoader(t *testing.T) {
	reg := NewRegistry(newFakeGPU())
	assert.ErrorIs(t, reg.Load("cube", "cube.obj"), ErrNoLoader)
}

func TestUnload(t *testing.T) {
	reg := NewRegistry(newFakeGPU())
	require.NoError(t, reg.LoadMesh("cube", twoPartModel(t, "cube", [4]float32{1, 1, 1, 1})))

	require.NoError(t, reg.Unload("cube"))
	assert.False(t, reg.Has("cube"))
	assert.ErrorIs(t, reg.Unload("cube"), ErrNotLoaded)
}
