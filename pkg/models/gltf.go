package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
)

// GLTFLoader loads GLTF/GLB files into scene meshes.
type GLTFLoader struct {
	// CalculateNormals fills in winding normals for primitives that ship
	// without a NORMAL attribute.
	CalculateNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*scene.Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a mesh.
func (l *GLTFLoader) Load(path string) (*scene.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.convert(doc, filepath.Base(path))
}

func (l *GLTFLoader) convert(doc *gltf.Document, name string) (*scene.Mesh, error) {
	mesh := scene.NewMesh(name)
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if l.CalculateNormals {
		mesh.ComputeNormals()
	}
	return mesh, nil
}

// processMesh appends the triangles of a GLTF mesh to dst.
//
// GLTF is right-handed with +Z toward the viewer; facet looks down +Z. Z is
// negated on import and the winding reversed so winding normals stay outward.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, dst *scene.Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip lines and points
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		vertex := func(i int) (scene.Vertex, error) {
			if i < 0 || i >= len(positions) {
				return scene.Vertex{}, fmt.Errorf("index %d out of range (%d positions)", i, len(positions))
			}
			p := positions[i]
			v := scene.Vertex{Position: math3d.V3(p.X, p.Y, -p.Z)}
			if i < len(normals) {
				n := normals[i]
				v = v.WithNormal(math3d.V3(n.X, n.Y, -n.Z))
			}
			if i < len(uvs) {
				// GLTF puts V=0 at the top of the image
				v = v.WithUV(uvs[i].X, 1.0-uvs[i].Y)
			}
			return v, nil
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		col := materialColor(doc, prim.Material)
		for i := 0; i+2 < len(indices); i += 3 {
			a, err := vertex(indices[i])
			if err != nil {
				return err
			}
			b, err := vertex(indices[i+2]) // swapped
			if err != nil {
				return err
			}
			c, err := vertex(indices[i+1]) // swapped
			if err != nil {
				return err
			}
			dst.Add(scene.Polygon{A: a, B: b, C: c, Color: col})
		}
	}

	return nil
}

// materialColor returns the base color factor of a primitive's material,
// or DefaultColor when none is set.
func materialColor(doc *gltf.Document, idx *int) color.RGBA {
	if idx == nil || *idx < 0 || *idx >= len(doc.Materials) {
		return DefaultColor
	}
	pbr := doc.Materials[*idx].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return DefaultColor
	}
	f := *pbr.BaseColorFactor
	c := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{c(f[0]), c(f[1]), c(f[2]), c(f[3])}
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	floats, err := readFloats(doc, accessor, 3)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	floats, err := readFloats(doc, accessor, 2)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}
	return result, nil
}

// accessorBytes returns the embedded buffer backing an accessor plus the
// offset of its first element.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.URI != "" {
		return nil, 0, 0, fmt.Errorf("external buffers not supported")
	}
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}
	return buffer.Data, bufferView.ByteOffset + accessor.ByteOffset, bufferView.ByteStride, nil
}

// readFloats reads count elements of n little-endian float32 components.
func readFloats(doc *gltf.Document, accessor *gltf.Accessor, n int) ([][3]float32, error) {
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", accessor.ComponentType)
	}
	data, start, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = n * 4
	}

	result := make([][3]float32, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		if offset+n*4 > len(data) {
			return nil, fmt.Errorf("accessor overruns buffer at element %d", i)
		}
		for j := range n {
			bits := binary.LittleEndian.Uint32(data[offset+j*4:])
			result[i][j] = math.Float32frombits(bits)
		}
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}
	data, start, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}
	if stride == 0 {
		stride = size
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		if offset+size > len(data) {
			return nil, fmt.Errorf("indices overrun buffer at element %d", i)
		}
		switch size {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus the first
// decodable embedded or referenced texture. The texture may be nil.
func LoadGLBWithTexture(path string) (*scene.Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := NewGLTFLoader().convert(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	for _, img := range doc.Images {
		var data []byte
		if img.BufferView != nil {
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data != nil && bv.ByteOffset+bv.ByteLength <= len(buf.Data) {
				data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
			}
		} else if img.URI != "" {
			data, _ = os.ReadFile(filepath.Join(filepath.Dir(path), img.URI))
		}
		if len(data) == 0 {
			continue
		}
		if tex, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return mesh, tex, nil
		}
	}

	return mesh, nil, nil
}
