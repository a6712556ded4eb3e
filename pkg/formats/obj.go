// OBJ text format reader and writer.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/objconv/pkg/math"
)

// OBJ line markers.
const (
	objMarkerVertex  = "v"
	objMarkerNormal  = "vn"
	objMarkerFace    = "f"
	objMarkerComment = '#'
)

var errNormalsUnsupported = errors.New("vn requires the normals variant")

// LineError describes one OBJ line whose values could not be parsed.
type LineError struct {
	Line   int    // 1-based physical line number
	Marker string // Line marker ("v", "vn" or "f")
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: invalid %s value: %v", e.Line, markerName(e.Marker), e.Err)
}

// Unwrap exposes both ErrMalformedOBJ and the underlying cause.
func (e *LineError) Unwrap() []error {
	return []error{ErrMalformedOBJ, e.Err}
}

// LineErrors collects every malformed line found by ParseOBJ.
type LineErrors []*LineError

func (e LineErrors) Error() string {
	switch len(e) {
	case 0:
		return "no malformed OBJ lines"
	case 1:
		return e[0].Error()
	}
	return fmt.Sprintf("%d malformed OBJ lines, first: %v", len(e), e[0])
}

func (e LineErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, le := range e {
		errs[i] = le
	}
	return errs
}

func markerName(marker string) string {
	switch marker {
	case objMarkerVertex:
		return "vertex"
	case objMarkerNormal:
		return "normal"
	case objMarkerFace:
		return "face"
	default:
		return marker
	}
}

// ParseOBJ reads an OBJ mesh.
//
// A malformed v, vn or f line is skipped and parsing resumes on the next
// line. In that case the partial mesh is returned together with a
// LineErrors value, which matches ErrMalformedOBJ under errors.Is.
// Lines with any other marker are ignored. For VariantBasic a vn line is
// reported as a malformed vertex.
func ParseOBJ(r io.Reader, variant Variant) (*Mesh, error) {
	mesh := &Mesh{}
	br := bufio.NewReader(r)

	var lineErrs LineErrors
	lineNum := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNum++
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if lerr := parseOBJLine(mesh, line, variant); lerr != nil {
				lerr.Line = lineNum
				lineErrs = append(lineErrs, lerr)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return mesh, fmt.Errorf("reading OBJ line %d: %w", lineNum+1, err)
		}
	}

	if len(lineErrs) > 0 {
		return mesh, lineErrs
	}
	return mesh, nil
}

// parseOBJLine appends the record described by one line to mesh.
func parseOBJLine(mesh *Mesh, line string, variant Variant) *LineError {
	line = strings.TrimLeft(line, " \t\v\f")
	if line == "" {
		return nil
	}

	// Comment text starts right after the marker, leading space included
	if line[0] == objMarkerComment {
		mesh.Comments = append(mesh.Comments, line[1:])
		return nil
	}

	fields := strings.Fields(line)
	marker, values := fields[0], fields[1:]

	switch marker {
	case objMarkerFace:
		face, err := parseFace(values)
		if err != nil {
			return &LineError{Marker: marker, Err: err}
		}
		mesh.Faces = append(mesh.Faces, face)

	case objMarkerVertex:
		v, err := parseVec3(values)
		if err != nil {
			return &LineError{Marker: marker, Err: err}
		}
		mesh.Vertices = append(mesh.Vertices, v)

	case objMarkerNormal:
		// Without normal support "vn" reads as a vertex with a bad value
		if !variant.HasNormals() {
			return &LineError{Marker: objMarkerVertex, Err: errNormalsUnsupported}
		}
		n, err := parseVec3(values)
		if err != nil {
			return &LineError{Marker: marker, Err: err}
		}
		mesh.Normals = append(mesh.Normals, n)
	}

	return nil
}

func parseFace(values []string) (Face, error) {
	if len(values) < 3 {
		return Face{}, fmt.Errorf("expected 3 indices, got %d", len(values))
	}

	var face Face
	for i := 0; i < 3; i++ {
		idx, err := strconv.ParseInt(values[i], 10, 32)
		if err != nil {
			return Face{}, err
		}
		face[i] = int32(idx)
	}
	return face, nil
}

func parseVec3(values []string) (math.Vec3, error) {
	if len(values) < 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(values))
	}

	var c [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(values[i], 32)
		if err != nil {
			return math.Vec3{}, err
		}
		c[i] = float32(f)
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// ParseOBJFile parses an OBJ file from disk.
// If the file cannot be opened, an empty mesh and an ErrOpen error are returned.
func ParseOBJFile(path string, variant Variant) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Mesh{}, openError("opening", path, err)
	}
	defer f.Close()

	return ParseOBJ(f, variant)
}

// FloatFormat controls how OBJ float values are rendered.
// Verb and Precision have the meaning of strconv.FormatFloat.
type FloatFormat struct {
	Verb      byte
	Precision int
}

// DefaultFloatFormat is scientific notation with 7 digits after the point,
// enough to round-trip any float32.
var DefaultFloatFormat = FloatFormat{Verb: 'e', Precision: 7}

// ShortestFloatFormat renders the shortest string that round-trips exactly.
var ShortestFloatFormat = FloatFormat{Verb: 'g', Precision: -1}

// String returns the format in printf notation, e.g. "%.7e".
func (f FloatFormat) String() string {
	if f.Precision < 0 {
		return fmt.Sprintf("%%%c", f.Verb)
	}
	return fmt.Sprintf("%%.%d%c", f.Precision, f.Verb)
}

// Validate checks that the format is understood by strconv.
func (f FloatFormat) Validate() error {
	switch f.Verb {
	case 'e', 'E', 'f', 'g', 'G':
	default:
		return fmt.Errorf("unsupported float verb %q", f.Verb)
	}
	if f.Precision < -1 {
		return fmt.Errorf("invalid float precision %d", f.Precision)
	}
	return nil
}

func (f FloatFormat) appendFloat(buf []byte, v float32) []byte {
	if f.Verb == 0 {
		f = DefaultFloatFormat
	}
	return strconv.AppendFloat(buf, float64(v), f.Verb, f.Precision, 32)
}

// OBJOptions configures WriteOBJ.
type OBJOptions struct {
	Variant Variant
	Float   FloatFormat // zero value means DefaultFloatFormat
}

// WriteOBJ renders mesh as OBJ text: comments, vertices, faces and, for
// VariantNormals, normals, in that order.
func WriteOBJ(w io.Writer, mesh *Mesh, opts OBJOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)

	for _, c := range mesh.Comments {
		buf = append(buf[:0], objMarkerComment)
		buf = append(buf, c...)
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	for _, v := range mesh.Vertices {
		bw.Write(opts.Float.appendVec3(buf[:0], objMarkerVertex, v))
	}

	for _, f := range mesh.Faces {
		buf = append(buf[:0], objMarkerFace...)
		for _, idx := range f {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(idx), 10)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	if opts.Variant.HasNormals() {
		for _, n := range mesh.Normals {
			bw.Write(opts.Float.appendVec3(buf[:0], objMarkerNormal, n))
		}
	}

	// bufio.Writer keeps the first write error; Flush reports it.
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing OBJ: %w", err)
	}
	return nil
}

func (f FloatFormat) appendVec3(buf []byte, marker string, v math.Vec3) []byte {
	buf = append(buf, marker...)
	for _, c := range v.Array() {
		buf = append(buf, ' ')
		buf = f.appendFloat(buf, c)
	}
	return append(buf, '\n')
}

func (o OBJOptions) validate() error {
	if o.Float.Verb == 0 {
		return nil
	}
	return o.Float.Validate()
}

// WriteOBJFile writes mesh to an OBJ file on disk.
func WriteOBJFile(path string, mesh *Mesh, opts OBJOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return openError("creating", path, err)
	}

	if err := WriteOBJ(f, mesh, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
