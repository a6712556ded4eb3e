// objconv converts meshes between OBJ text and the compact bObj format.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Faultbox/objconv/internal/config"
	"github.com/Faultbox/objconv/internal/convert"
	"github.com/Faultbox/objconv/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		return 1
	}

	command, args := args[0], args[1:]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if cfg.Source != "" {
		logger.Sugar.Debugf("Config file: %s", cfg.Source)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	opts := convert.OptionsFromConfig(cfg)

	switch command {
	case "compact", "c":
		return cmdCompact(args, opts, cfg.Output.CompactExt)
	case "text", "t":
		return cmdText(args, opts)
	case "info", "i":
		return cmdInfo(args, opts)
	case "init-config":
		return cmdInitConfig(args, cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println(`objconv - OBJ <-> bObj mesh converter

Usage:
  objconv [flags] <command> [args]

Commands:
  compact <file.obj> [output]     Convert OBJ to bObj (default: name cut at first '.' + .bObj)
  text <file.bObj> [output.obj]   Convert bObj to OBJ
  info <file>...                  Show mesh statistics for OBJ or bObj files
  init-config [path]              Write the current settings as a config file

Flags:
  -config <path>     Config file (default ./objconv.yaml or user config dir)
  -normals           Read and write vertex normals
  -no-normals        Basic format without normals
  -lenient           Accept truncated bObj records
  -float <verb>      OBJ float format: e, f or g
  -precision <n>     OBJ float precision (-1 = shortest)
  -ext <ext>         Extension for derived bObj names
  -debug             Enable debug logging
  -log-file <path>   Also log to a rotating file

Examples:
  objconv compact "low poly stanford bunny.obj"
  objconv text bunny.bObj test.obj
  objconv -no-normals -float g -precision -1 text bunny.bObj
  objconv info bunny.obj bunny.bObj`)
}

func cmdCompact(args []string, opts convert.Options, ext string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objconv compact <file.obj> [output]")
		return 1
	}

	src := args[0]
	dst := convert.CompactPath(src, ext)
	if len(args) > 1 {
		dst = args[1]
	}

	if err := convert.ToCompact(src, dst, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Reading .obj failed: %v\n", err)
		return 1
	}

	fmt.Printf("Conversion to bObj went fine: %s\n", dst)
	return 0
}

func cmdText(args []string, opts convert.Options) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objconv text <file.bObj> [output.obj]")
		return 1
	}

	src := args[0]
	dst := convert.TextPath(src)
	if len(args) > 1 {
		dst = args[1]
	}

	if err := convert.ToText(src, dst, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Reading .bObj failed: %v\n", err)
		return 1
	}

	fmt.Printf("Conversion to OBJ went fine: %s\n", dst)
	return 0
}

func cmdInfo(args []string, opts convert.Options) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objconv info <file>...")
		return 1
	}

	status := 0
	for i, path := range args {
		if i > 0 {
			fmt.Println()
		}

		info, err := convert.Inspect(path, opts)
		if err != nil {
			logger.Error("inspect failed", zap.String("path", path), zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = 1
			continue
		}
		printInfo(info)
	}
	return status
}

func printInfo(info *convert.Info) {
	fmt.Printf("File:      %s\n", info.Path)
	fmt.Printf("Format:    %s (%s)\n", info.Format, humanize.Bytes(uint64(info.Size)))
	fmt.Printf("Comments:  %s\n", humanize.Comma(int64(info.Comments)))
	fmt.Printf("Vertices:  %s\n", humanize.Comma(int64(info.Vertices)))
	fmt.Printf("Normals:   %s\n", humanize.Comma(int64(info.Normals)))
	fmt.Printf("Faces:     %s", humanize.Comma(int64(info.Faces)))
	if info.InvalidFaces > 0 {
		fmt.Printf(" (%d with out-of-range indices)", info.InvalidFaces)
	}
	fmt.Println()

	if info.HasBounds {
		fmt.Printf("Bounds:    (%g, %g, %g) - (%g, %g, %g)\n",
			info.Min.X, info.Min.Y, info.Min.Z, info.Max.X, info.Max.Y, info.Max.Z)
		fmt.Printf("Centroid:  (%g, %g, %g)\n", info.Centroid.X, info.Centroid.Y, info.Centroid.Z)
		fmt.Printf("Area:      %.6g\n", info.Area)
	}
}

func cmdInitConfig(args []string, cfg *config.Config) int {
	var (
		path string
		err  error
	)
	if len(args) > 0 {
		path = args[0]
		err = cfg.SaveTo(path)
	} else {
		path, err = cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		return 1
	}

	fmt.Printf("Config written: %s\n", path)
	return 0
}
