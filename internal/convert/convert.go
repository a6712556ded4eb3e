// Package convert runs whole-file conversions between OBJ and bObj and
// reports their diagnostics through the logger.
package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/objconv/internal/config"
	"github.com/Faultbox/objconv/internal/logger"
	"github.com/Faultbox/objconv/pkg/formats"
)

// DefaultCompactExt is the extension of derived bObj paths.
const DefaultCompactExt = "bObj"

// Options configures both conversion directions.
type Options struct {
	Variant formats.Variant
	Lenient bool
	Float   formats.FloatFormat
}

// DefaultOptions returns the options used without a config file.
func DefaultOptions() Options {
	return Options{
		Variant: formats.VariantNormals,
		Float:   formats.DefaultFloatFormat,
	}
}

// OptionsFromConfig builds Options from a loaded config.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Variant: formats.VariantBasic,
		Lenient: cfg.Convert.Lenient,
		Float:   formats.DefaultFloatFormat,
	}
	if cfg.Convert.Normals {
		opts.Variant = formats.VariantNormals
	}
	if cfg.Output.FloatVerb != "" {
		opts.Float = formats.FloatFormat{
			Verb:      cfg.Output.FloatVerb[0],
			Precision: cfg.Output.Precision,
		}
	}
	return opts
}

// ToCompact converts the OBJ file at objPath into a bObj file at bobjPath.
// Nothing is written if any OBJ line is malformed.
func ToCompact(objPath, bobjPath string, opts Options) error {
	mesh, err := formats.ParseOBJFile(objPath, opts.Variant)
	if err != nil {
		logLineErrors(objPath, err)
		logger.Error("reading OBJ failed", zap.String("path", objPath), zap.Error(err))
		return fmt.Errorf("reading %s: %w", objPath, err)
	}

	if err := formats.WriteBObjFile(bobjPath, mesh, opts.Variant); err != nil {
		logger.Error("writing bObj failed", zap.String("path", bobjPath), zap.Error(err))
		return fmt.Errorf("writing %s: %w", bobjPath, err)
	}

	logger.Info("converted to bObj",
		zap.String("src", objPath),
		zap.String("dst", bobjPath),
		zap.Stringer("variant", opts.Variant),
		meshFields(mesh),
	)
	return nil
}

// ToText converts the bObj file at bobjPath into an OBJ file at objPath.
// Nothing is written if the bObj file cannot be read completely.
func ToText(bobjPath, objPath string, opts Options) error {
	mesh, err := formats.ParseBObjFile(bobjPath, formats.BObjOptions{
		Variant: opts.Variant,
		Lenient: opts.Lenient,
	})
	if err != nil {
		logger.Error("reading bObj failed",
			zap.String("path", bobjPath),
			zap.Error(err),
			meshFields(mesh),
		)
		return fmt.Errorf("reading %s: %w", bobjPath, err)
	}

	err = formats.WriteOBJFile(objPath, mesh, formats.OBJOptions{
		Variant: opts.Variant,
		Float:   opts.Float,
	})
	if err != nil {
		logger.Error("writing OBJ failed", zap.String("path", objPath), zap.Error(err))
		return fmt.Errorf("writing %s: %w", objPath, err)
	}

	logger.Info("converted to OBJ",
		zap.String("src", bobjPath),
		zap.String("dst", objPath),
		zap.Stringer("variant", opts.Variant),
		zap.Stringer("float", opts.Float),
		meshFields(mesh),
	)
	return nil
}

// logLineErrors logs one warning per malformed OBJ line.
func logLineErrors(path string, err error) {
	var lineErrs formats.LineErrors
	if !errors.As(err, &lineErrs) {
		return
	}
	for _, le := range lineErrs {
		logger.Warn("invalid OBJ value",
			zap.String("path", path),
			zap.Int("line", le.Line),
			zap.String("marker", le.Marker),
			zap.NamedError("cause", le.Err),
		)
	}
}

func meshFields(m *formats.Mesh) zap.Field {
	if m == nil {
		return zap.Skip()
	}
	return zap.Dict("mesh",
		zap.Int("comments", len(m.Comments)),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("faces", len(m.Faces)),
		zap.Int("normals", len(m.Normals)),
	)
}

// CompactPath derives the bObj path for an OBJ file: the file name is cut
// at its first '.' and ext is appended, so "bunny.low.obj" becomes
// "bunny.bObj". Leading dots belong to the name, so ".mesh.obj" becomes
// ".mesh.bObj". The directory is kept.
func CompactPath(objPath, ext string) string {
	if ext == "" {
		ext = DefaultCompactExt
	}
	dir, base := filepath.Split(objPath)
	lead := len(base) - len(strings.TrimLeft(base, "."))
	if i := strings.IndexByte(base[lead:], '.'); i >= 0 {
		base = base[:lead+i]
	}
	return dir + base + "." + ext
}

// TextPath derives the OBJ path for a bObj file by replacing its extension.
func TextPath(bobjPath string) string {
	return strings.TrimSuffix(bobjPath, filepath.Ext(bobjPath)) + ".obj"
}
