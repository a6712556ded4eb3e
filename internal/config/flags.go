package config

import "flag"

// precisionUnset marks the -precision flag as not given.
const precisionUnset = -2

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log-file", "", "Also write logs to this file")
	flagNormals   = flag.Bool("normals", false, "Read and write vertex normals")
	flagNoNormals = flag.Bool("no-normals", false, "Ignore vertex normals (basic format)")
	flagLenient   = flag.Bool("lenient", false, "Accept truncated bObj records")
	flagFloat     = flag.String("float", "", "Float format verb for OBJ output (e, f, g)")
	flagPrecision = flag.Int("precision", precisionUnset, "Float precision for OBJ output (-1 = shortest)")
	flagExt       = flag.String("ext", "", "Extension for derived bObj file names")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagNormals {
		cfg.Convert.Normals = true
	}
	if *flagNoNormals {
		cfg.Convert.Normals = false
	}
	if *flagLenient {
		cfg.Convert.Lenient = true
	}
	if *flagFloat != "" {
		cfg.Output.FloatVerb = *flagFloat
	}
	if *flagPrecision != precisionUnset {
		cfg.Output.Precision = *flagPrecision
	}
	if *flagExt != "" {
		cfg.Output.CompactExt = *flagExt
	}
}
