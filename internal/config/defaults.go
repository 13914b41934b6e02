package config

const (
	defaultConfigPath = "~/.config/rawsort/config.toml"
	defaultInputDir   = "."
	defaultTemplate   = "photos/[year]/[month]/[day]/[filename]"
	defaultDatePolicy = DatePolicyEpoch
	defaultWorkers    = 1
	defaultDebounceMS = 2000
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Date policies applied when a file's EXIF container is readable but its
// capture date is missing or malformed.
const (
	DatePolicyEpoch    = "epoch"
	DatePolicyExclude  = "exclude"
	DatePolicyFilename = "filename"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Sort: Sort{
			InputDir:   defaultInputDir,
			Template:   defaultTemplate,
			DatePolicy: defaultDatePolicy,
			Workers:    defaultWorkers,
		},
		Watch: Watch{
			DebounceMS: defaultDebounceMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Manifest: Manifest{
			Enabled: true,
			Path:    defaultManifestPath(),
		},
	}
}
