// bObj compact binary format reader and writer.
package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/objconv/pkg/math"
)

// ErrInvalidBObjCount is returned when a section count is too large to be real.
var ErrInvalidBObjCount = errors.New("invalid bObj section count")

// bObj has no byte order marker; files are read and written in the byte
// order of the host.
var byteOrder = binary.NativeEndian

// maxSectionCount bounds every count field so a corrupt file cannot make the
// reader loop or allocate without end.
const maxSectionCount = 1 << 31

// Section names used in error messages.
const (
	sectionComment = "comment"
	sectionVertex  = "vertex"
	sectionFace    = "face"
	sectionNormal  = "normal"
)

// BObjOptions configures ParseBObj.
type BObjOptions struct {
	Variant Variant

	// Lenient disables detection of truncated vertex, face and normal
	// records. A short record is stored zero-filled and reading goes on
	// with the next record. Once no bytes are left the section still
	// fails with ErrTruncatedBObjData.
	Lenient bool
}

// WriteBObj writes mesh in bObj layout:
//
//	u64 commentCount, then per comment u64 length + raw bytes
//	u64 vertexCount, then vertexCount x (3 x f32)
//	u64 faceCount, then faceCount x (3 x i32)
//	u64 normalCount, then normalCount x (3 x f32)   (VariantNormals only)
//
// There is no padding, magic or version field.
func WriteBObj(w io.Writer, mesh *Mesh, variant Variant) error {
	bw := bufio.NewWriter(w)

	if err := writeCount(bw, len(mesh.Comments)); err != nil {
		return fmt.Errorf("writing comment count: %w", err)
	}
	for i, c := range mesh.Comments {
		if err := writeCount(bw, len(c)); err != nil {
			return fmt.Errorf("writing comment %d: %w", i, err)
		}
		if _, err := bw.WriteString(c); err != nil {
			return fmt.Errorf("writing comment %d: %w", i, err)
		}
	}

	if err := writeSection(bw, sectionVertex, mesh.Vertices); err != nil {
		return err
	}
	if err := writeSection(bw, sectionFace, mesh.Faces); err != nil {
		return err
	}
	if variant.HasNormals() {
		if err := writeSection(bw, sectionNormal, mesh.Normals); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing bObj: %w", err)
	}
	return nil
}

func writeCount(w io.Writer, n int) error {
	return binary.Write(w, byteOrder, uint64(n))
}

// writeSection writes a count followed by fixed-size records.
func writeSection[T math.Vec3 | Face](w io.Writer, name string, records []T) error {
	if err := writeCount(w, len(records)); err != nil {
		return fmt.Errorf("writing %s count: %w", name, err)
	}
	if len(records) == 0 {
		return nil
	}
	if err := binary.Write(w, byteOrder, records); err != nil {
		return fmt.Errorf("writing %s records: %w", name, err)
	}
	return nil
}

// WriteBObjFile writes mesh to a bObj file on disk. A failed write leaves
// whatever was written in place.
func WriteBObjFile(path string, mesh *Mesh, variant Variant) error {
	f, err := os.Create(path)
	if err != nil {
		return openError("creating", path, err)
	}

	if err := WriteBObj(f, mesh, variant); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ParseBObj reads a bObj mesh. Sections are read in the order WriteBObj
// writes them; the normal section is only read for VariantNormals.
//
// A missing count or comment length stops reading: the records decoded so
// far are returned with an ErrTruncatedBObjData error. A short comment
// payload keeps the bytes that were available.
func ParseBObj(r io.Reader, opts BObjOptions) (*Mesh, error) {
	br := bufio.NewReader(r)
	mesh := &Mesh{}

	if err := readComments(br, mesh, opts); err != nil {
		return mesh, err
	}
	if err := readSection(br, sectionVertex, opts, &mesh.Vertices); err != nil {
		return mesh, err
	}
	if err := readSection(br, sectionFace, opts, &mesh.Faces); err != nil {
		return mesh, err
	}
	if opts.Variant.HasNormals() {
		if err := readSection(br, sectionNormal, opts, &mesh.Normals); err != nil {
			return mesh, err
		}
	}

	return mesh, nil
}

func readCount(r io.Reader, name string) (uint64, error) {
	var count uint64
	if err := binary.Read(r, byteOrder, &count); err != nil {
		return 0, fmt.Errorf("%w: reading %s count: %w", ErrTruncatedBObjData, name, err)
	}
	if count > maxSectionCount {
		return 0, fmt.Errorf("%w: %s count %d", ErrInvalidBObjCount, name, count)
	}
	return count, nil
}

func readComments(r io.Reader, mesh *Mesh, opts BObjOptions) error {
	count, err := readCount(r, sectionComment)
	if err != nil {
		return err
	}

	for i := uint64(0); i < count; i++ {
		var length uint64
		if err := binary.Read(r, byteOrder, &length); err != nil {
			return fmt.Errorf("%w: reading length of comment %d: %w", ErrTruncatedBObjData, i, err)
		}

		// LimitReader avoids allocating a corrupt length up front
		data, err := io.ReadAll(io.LimitReader(r, int64(min(length, 1<<62))))
		mesh.Comments = append(mesh.Comments, string(data))
		if err != nil {
			return fmt.Errorf("reading comment %d: %w", i, err)
		}
		if uint64(len(data)) < length && !opts.Lenient {
			return fmt.Errorf("%w: comment %d has %d of %d bytes", ErrTruncatedBObjData, i, len(data), length)
		}
	}
	return nil
}

// readSection reads a count followed by that many fixed-size records.
func readSection[T math.Vec3 | Face](r io.Reader, name string, opts BObjOptions, dst *[]T) error {
	count, err := readCount(r, name)
	if err != nil {
		return err
	}

	var rec T
	buf := make([]byte, binary.Size(rec))
	for i := uint64(0); i < count; i++ {
		clear(buf)
		_, err := io.ReadFull(r, buf)
		// Lenient mode keeps a short record, but never fills records
		// from an exhausted stream.
		if err != nil && (!opts.Lenient || errors.Is(err, io.EOF)) {
			return fmt.Errorf("%w: reading %s %d of %d: %w", ErrTruncatedBObjData, name, i, count, err)
		}
		if err := binary.Read(bytes.NewReader(buf), byteOrder, &rec); err != nil {
			return fmt.Errorf("decoding %s %d: %w", name, i, err)
		}
		*dst = append(*dst, rec)
	}
	return nil
}

// ParseBObjFile parses a bObj file from disk.
// If the file cannot be opened, an empty mesh and an ErrOpen error are returned.
func ParseBObjFile(path string, opts BObjOptions) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Mesh{}, openError("opening", path, err)
	}
	defer f.Close()

	return ParseBObj(f, opts)
}
