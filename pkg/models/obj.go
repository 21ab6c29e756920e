// Package models loads triangle meshes from OBJ and GLB files into scene meshes.
package models

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
)

// ErrBadFace is returned for face statements that cannot be resolved.
var ErrBadFace = errors.New("bad face")

// DefaultColor is the flat color given to imported polygons.
var DefaultColor = color.RGBA{0x80, 0x80, 0x80, 0xff}

// LoadOBJ reads a Wavefront OBJ file from disk.
func LoadOBJ(path string) (*scene.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads vertex positions (v), texture coordinates (vt), normals
// (vn) and faces (f). Faces with more than three vertices are split into a
// triangle fan. Other statements are ignored.
func ParseOBJ(r io.Reader) (*scene.Mesh, error) {
	p := objParser{mesh: scene.NewMesh("obj")}

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	return p.mesh, nil
}

type objParser struct {
	positions []math3d.Vec3
	uvs       []math3d.Vec2
	normals   []math3d.Vec3
	mesh      *scene.Mesh
}

func (p *objParser) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		p.positions = append(p.positions, math3d.V3(v[0], v[1], v[2]))
	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return fmt.Errorf("texture coordinate: %w", err)
		}
		p.uvs = append(p.uvs, math3d.V2(v[0], v[1]))
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		p.normals = append(p.normals, math3d.V3(v[0], v[1], v[2]))
	case "f":
		return p.parseFace(fields[1:])
	}
	return nil
}

func (p *objParser) parseFace(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("%w: %d vertices", ErrBadFace, len(refs))
	}

	verts := make([]scene.Vertex, len(refs))
	for i, ref := range refs {
		v, err := p.resolve(ref)
		if err != nil {
			return err
		}
		verts[i] = v
	}

	for i := 1; i+1 < len(verts); i++ {
		p.mesh.Add(scene.Polygon{A: verts[0], B: verts[i], C: verts[i+1], Color: DefaultColor})
	}
	return nil
}

// resolve turns a face reference (p, p/t, p//n or p/t/n) into a vertex.
func (p *objParser) resolve(ref string) (scene.Vertex, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return scene.Vertex{}, fmt.Errorf("%w: %q", ErrBadFace, ref)
	}

	pi, err := index(parts[0], len(p.positions))
	if err != nil {
		return scene.Vertex{}, fmt.Errorf("%w: position %q: %w", ErrBadFace, ref, err)
	}
	v := scene.Vertex{Position: p.positions[pi]}

	if len(parts) > 1 && parts[1] != "" {
		ti, err := index(parts[1], len(p.uvs))
		if err != nil {
			return scene.Vertex{}, fmt.Errorf("%w: texture %q: %w", ErrBadFace, ref, err)
		}
		v = v.WithUV(p.uvs[ti].X, p.uvs[ti].Y)
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := index(parts[2], len(p.normals))
		if err != nil {
			return scene.Vertex{}, fmt.Errorf("%w: normal %q: %w", ErrBadFace, ref, err)
		}
		v = v.WithNormal(p.normals[ni])
	}
	return v, nil
}

// index converts a 1-based (or negative, relative) OBJ index into a slice index.
func index(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, errors.New("index 0")
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("non-finite value %q", fields[i])
		}
		out[i] = f
	}
	return out, nil
}
