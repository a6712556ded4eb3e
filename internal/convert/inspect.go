package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/objconv/pkg/formats"
	"github.com/Faultbox/objconv/pkg/math"
)

// Format identifies which reader handles a file.
type Format string

// Supported file formats.
const (
	FormatOBJ  Format = "OBJ"
	FormatBObj Format = "bObj"
)

// DetectFormat picks the format from the file extension. Anything that is
// not ".obj" is treated as bObj.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return FormatOBJ
	}
	return FormatBObj
}

// Info summarizes a mesh file.
type Info struct {
	Path         string
	Format       Format
	Size         int64
	Comments     int
	Vertices     int
	Faces        int
	Normals      int
	InvalidFaces int
	Min, Max     math.Vec3
	Centroid     math.Vec3
	HasBounds    bool
	Area         float64
}

// Inspect reads the mesh file at path and summarizes it.
func Inspect(path string, opts Options) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", formats.ErrOpen, err)
	}

	info := &Info{
		Path:   path,
		Format: DetectFormat(path),
		Size:   stat.Size(),
	}

	var mesh *formats.Mesh
	switch info.Format {
	case FormatOBJ:
		mesh, err = formats.ParseOBJFile(path, opts.Variant)
		logLineErrors(path, err)
	default:
		mesh, err = formats.ParseBObjFile(path, formats.BObjOptions{
			Variant: opts.Variant,
			Lenient: opts.Lenient,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	info.Comments = len(mesh.Comments)
	info.Vertices = len(mesh.Vertices)
	info.Faces = len(mesh.Faces)
	info.Normals = len(mesh.Normals)
	info.InvalidFaces = mesh.InvalidFaces()
	info.Min, info.Max, info.HasBounds = mesh.Bounds()
	info.Centroid, _ = mesh.Centroid()
	info.Area = mesh.SurfaceArea()

	return info, nil
}
