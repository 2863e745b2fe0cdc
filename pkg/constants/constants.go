// Package constants provides shared constants for the chip-economics application.
package constants

// Numerical constants
const (
	// DenominatorFloor is the smallest value a rate denominator may take.
	// Zero or negative rates saturate to this value instead of dividing by zero.
	DenominatorFloor = 1e-9

	// GridRoundingPlaces is the number of decimals kept for grid axis labels
	// in the price x moisture sweep.
	GridRoundingPlaces = 3

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Transport constants
const (
	// BackhaulOneWay charges transport for the loaded leg only.
	BackhaulOneWay = 1.0

	// BackhaulRoundTrip charges transport for the loaded and empty legs.
	BackhaulRoundTrip = 2.0
)

// Sweep defaults, matching the dashboard controls of the reference model.
const (
	DefaultDistanceMaxKm  = 200.0
	DefaultDistanceStepKm = 1.0

	DefaultPriceDelta  = 50.0
	DefaultPricePoints = 11

	DefaultMoistureMin    = 0.15
	DefaultMoistureMax    = 0.45
	DefaultMoisturePoints = 11
	DefaultProbeKm        = 50.0

	DefaultBreakdownKm = 50.0

	DefaultFarmMarginStepKm = 5.0

	DefaultPlantMarginMaxChipPrice = 300.0
	DefaultPlantMarginPoints       = 31
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "CHIPECON"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRequestsPerSecond is the default per-client request rate
	DefaultRequestsPerSecond = 10.0

	// DefaultRateBurst is the default per-client burst size
	DefaultRateBurst = 20

	// DefaultMaxVisitors bounds the number of tracked clients in the rate limiter
	DefaultMaxVisitors = 10000
)
