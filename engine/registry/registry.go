package registry

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/Carmen-Shannon/oxy-instancer/engine/camera"
	"github.com/Carmen-Shannon/oxy-instancer/engine/loader"
	"github.com/Carmen-Shannon/oxy-instancer/engine/model"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
)

var (
	// ErrNotLoaded is returned by operations that need a loaded model id.
	ErrNotLoaded = errors.New("registry: model not loaded")

	// ErrNoLoader is returned by Load when the registry was built without a Loader.
	ErrNoLoader = errors.New("registry: no loader configured")
)

// placeholderCapacity is the size of the instance buffer created at load, before any instances exist.
const placeholderCapacity = 1

// GPU is the subset of the renderer the registry drives. renderer.Renderer satisfies it.
type GPU interface {
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, data []byte, indexOffset uint64, indexCount uint32) error
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, size uint64) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, group int) error
	InitMaterial(m material.Material) error
	WriteBuffers(writes []bind_group_provider.BufferWrite) error
	DrawCall(pipelineKey string, mesh, instances bind_group_provider.BindGroupProvider, firstIndex, indexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error
}

// record is everything the registry knows about one model id.
type record struct {
	model        model.Model
	geometry     bind_group_provider.BindGroupProvider
	instances    []model.InstanceData
	instanceBuf  bind_group_provider.BindGroupProvider
	capacity     uint64
	count        uint32
	materialBase int
}

func (rec *record) loaded() bool {
	return rec.model != nil
}

func (rec *record) release() {
	if rec.geometry != nil {
		rec.geometry.Release()
	}
	if rec.instanceBuf != nil {
		rec.instanceBuf.Release()
	}
}

// registry is the implementation of the Registry interface.
type registry struct {
	mu *sync.Mutex

	gpu    GPU
	loader loader.Loader

	records map[string]*record

	// materials is shared by every model; a record's submesh material id is relative to its materialBase.
	materials []material.Material

	cameraProvider bind_group_provider.BindGroupProvider
}

// Registry owns the GPU resources of every loaded model, keyed by model id, and draws all
// instances of each model with one instanced draw per submesh.
//
// Instance data is CPU-side until SyncBuffers copies it into the model's instance buffer.
// The instance buffer only grows: it is reallocated to exactly the needed size when the
// instance data outgrows it and is never shrunk.
type Registry interface {
	// Load parses a model file with the configured Loader and registers it under id.
	//
	// Parameters:
	//   - id: the model id
	//   - path: the model file
	//   - options: load options forwarded to the Loader
	//
	// Returns:
	//   - error: ErrNoLoader, a load error or a GPU error
	Load(id, path string, options ...loader.LoadOption) error

	// LoadMesh uploads a model under id. An existing model at id is replaced and its GPU
	// buffers released. The model's materials join the shared material table and every
	// unresolved material is resolved. The instance list of id is reset to empty.
	//
	// Parameters:
	//   - id: the model id
	//   - m: the model to upload
	//
	// Returns:
	//   - error: a GPU error; the registry is unchanged on failure
	LoadMesh(id string, m model.Model) error

	// SetInstances replaces the instance list of id. Ids that are not loaded yet keep the
	// list but are skipped by SyncBuffers and Render; a later load clears it.
	//
	// Parameters:
	//   - id: the model id
	//   - instances: the new instance list, copied
	SetInstances(id string, instances []model.InstanceData)

	// Instances returns a copy of the CPU-side instance list of id.
	//
	// Parameters:
	//   - id: the model id
	//
	// Returns:
	//   - []model.InstanceData: the instances, nil for unknown ids
	Instances(id string) []model.InstanceData

	// Has reports whether a model is loaded under id.
	Has(id string) bool

	// IDs returns the loaded model ids in sorted order.
	IDs() []string

	// Capacity returns the allocated instance buffer size of id in bytes, 0 if not loaded.
	Capacity(id string) uint64

	// Count returns the number of instances synced to the GPU for id.
	Count(id string) uint32

	// Mesh returns the model loaded under id, or nil.
	Mesh(id string) model.Model

	// SyncBuffers copies every loaded model's instance list into its instance buffer,
	// growing the buffer first when needed.
	//
	// Returns:
	//   - error: the joined GPU errors
	SyncBuffers() error

	// Render uploads the camera uniform and records one instanced draw per submesh of every
	// model that has synced instances. Models are drawn in id order.
	//
	// Parameters:
	//   - cam: the camera to render from
	//
	// Returns:
	//   - error: the joined draw errors
	Render(cam camera.Camera) error

	// Unload releases the GPU buffers of id and forgets it. Its materials stay in the shared table.
	//
	// Parameters:
	//   - id: the model id
	//
	// Returns:
	//   - error: ErrNotLoaded if nothing is loaded under id
	Unload(id string) error

	// Release frees every GPU buffer owned by the registry.
	Release()
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry driving the given GPU.
//
// Parameters:
//   - gpu: the renderer, or any GPU implementation
//   - options: variadic list of RegistryBuilderOption functions
//
// Returns:
//   - Registry: the new registry
func NewRegistry(gpu GPU, options ...RegistryBuilderOption) Registry {
	r := &registry{
		mu:      &sync.Mutex{},
		gpu:     gpu,
		records: make(map[string]*record),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Load(id, path string, options ...loader.LoadOption) error {
	if r.loader == nil {
		return ErrNoLoader
	}
	m, err := r.loader.Load(path, options...)
	if err != nil {
		return fmt.Errorf("registry: load %q: %w", id, err)
	}
	return r.LoadMesh(id, m)
}

func (r *registry) LoadMesh(id string, m model.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	geometry := bind_group_provider.NewBindGroupProvider(id + " Geometry")
	if err := r.gpu.InitMeshBuffers(geometry, m.Data(), m.IndexOffset(), m.IndexCount()); err != nil {
		geometry.Release()
		return fmt.Errorf("registry: %q geometry: %w", id, err)
	}

	instanceBuf := bind_group_provider.NewBindGroupProvider(id + " Instances")
	if err := r.gpu.InitInstanceBuffer(instanceBuf, placeholderCapacity); err != nil {
		geometry.Release()
		instanceBuf.Release()
		return fmt.Errorf("registry: %q instance buffer: %w", id, err)
	}

	base := len(r.materials)
	r.materials = append(r.materials, m.Materials()...)
	if err := r.resolveMaterials(); err != nil {
		for _, mat := range r.materials[base:] {
			if p := mat.BindGroupProvider(); p != nil {
				p.Release()
				mat.SetBindGroupProvider(nil)
			}
		}
		r.materials = r.materials[:base]
		geometry.Release()
		instanceBuf.Release()
		return fmt.Errorf("registry: %q: %w", id, err)
	}

	if old, ok := r.records[id]; ok {
		old.release()
	}
	r.records[id] = &record{
		model:        m,
		geometry:     geometry,
		instanceBuf:  instanceBuf,
		capacity:     placeholderCapacity,
		materialBase: base,
	}

	log.Printf("[Registry] loaded %q: %d vertices, %d indices, %d submeshes, %d materials",
		id, m.VertexCount(), m.IndexCount(), len(m.Submeshes()), len(m.Materials()))
	return nil
}

// resolveMaterials creates GPU descriptors for every unresolved material. Caller must hold the mutex.
func (r *registry) resolveMaterials() error {
	for _, mat := range r.materials {
		if mat.Resolved() {
			continue
		}
		if err := r.gpu.InitMaterial(mat); err != nil {
			return err
		}
	}
	return nil
}

func (r *registry) SetInstances(id string, instances []model.InstanceData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		rec = &record{}
		r.records[id] = rec
	}
	rec.instances = slices.Clone(instances)
}

func (r *registry) Instances(id string) []model.InstanceData {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		return slices.Clone(rec.instances)
	}
	return nil
}

func (r *registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	return ok && rec.loaded()
}

func (r *registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadedIDs()
}

// loadedIDs returns the sorted ids of loaded models. Caller must hold the mutex.
func (r *registry) loadedIDs() []string {
	return common.SortedKeys(r.records, (*record).loaded)
}

func (r *registry) Capacity(id string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		return rec.capacity
	}
	return 0
}

func (r *registry) Count(id string) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		return rec.count
	}
	return 0
}

func (r *registry) Mesh(id string) model.Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		return rec.model
	}
	return nil
}

func (r *registry) SyncBuffers() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		errs   []error
		writes []bind_group_provider.BufferWrite
	)
	for _, id := range r.loadedIDs() {
		rec := r.records[id]

		size := uint64(len(rec.instances)) * model.GPUInstanceSize
		if size > rec.capacity {
			if err := r.gpu.InitInstanceBuffer(rec.instanceBuf, size); err != nil {
				errs = append(errs, fmt.Errorf("registry: %q grow instance buffer to %d bytes: %w", id, size, err))
				rec.count = 0
				continue
			}
			rec.capacity = size
		}

		if len(rec.instances) > 0 {
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: rec.instanceBuf,
				Binding:  bind_group_provider.VertexBindingSlot,
				Data:     model.MarshalInstances(rec.instances),
			})
		}
		rec.count = uint32(len(rec.instances))
	}

	if len(writes) > 0 {
		if err := r.gpu.WriteBuffers(writes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *registry) Render(cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cam.Update()
	camProvider := cam.BindGroupProvider()
	if camProvider != r.cameraProvider {
		if err := r.gpu.InitBindGroup(camProvider, material.PipelineKeyColored, 0); err != nil {
			return fmt.Errorf("registry: camera bind group: %w", err)
		}
		r.cameraProvider = camProvider
	}

	uniform := cam.Uniform()
	if err := r.gpu.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: camProvider, Binding: 0, Data: uniform.Marshal()},
	}); err != nil {
		return fmt.Errorf("registry: camera uniform: %w", err)
	}

	var errs []error
	for _, id := range r.loadedIDs() {
		rec := r.records[id]
		if rec.count == 0 {
			continue
		}
		for _, sm := range rec.model.Submeshes() {
			mat := r.materials[rec.materialBase+sm.MaterialID]
			err := r.gpu.DrawCall(
				mat.PipelineKey(),
				rec.geometry,
				rec.instanceBuf,
				sm.FirstIndex,
				sm.IndexCount,
				rec.count,
				[]bind_group_provider.BindGroupProvider{camProvider, mat.BindGroupProvider()},
			)
			if err != nil {
				errs = append(errs, fmt.Errorf("registry: draw %q submesh %q: %w", id, sm.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (r *registry) Unload(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok || !rec.loaded() {
		return fmt.Errorf("%w: %q", ErrNotLoaded, id)
	}
	rec.release()
	delete(r.records, id)
	return nil
}

func (r *registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rec := range r.records {
		rec.release()
		delete(r.records, id)
	}
	for _, mat := range r.materials {
		if p := mat.BindGroupProvider(); p != nil {
			p.Release()
			mat.SetBindGroupProvider(nil)
		}
	}
	r.materials = nil
	r.cameraProvider = nil
}
