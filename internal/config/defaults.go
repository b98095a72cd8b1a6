package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultConfigFile is the optional TOML file read from the project path
	DefaultConfigFile = "iat.toml"
	// DefaultCasesDir is where extra *.case.yaml files are discovered
	DefaultCasesDir = "cases"
	// DefaultImproverBin is the CLI looked up on PATH when nothing else is configured
	DefaultImproverBin = "improver"
	// DefaultResultsFile is the default results JSON file name
	DefaultResultsFile = "iat-results.json"
	// DefaultResultsDir is the default results directory
	DefaultResultsDir = "storage"
	// DefaultProcessors is the default number of cases run concurrently
	DefaultProcessors = 1
	// DefaultComparator is the comparison tool used for known-good output checks
	DefaultComparator = ComparatorNCCmp
	// DefaultNCCmpPath is the nccmp executable looked up on PATH
	DefaultNCCmpPath = "nccmp"
)

// Comparator kinds.
const (
	ComparatorNCCmp  = "nccmp"
	ComparatorNative = "native"
)

// History drivers. An empty driver disables the history.
const (
	HistorySQLite = "sqlite"
	HistoryMySQL  = "mysql"
)

// DefaultNCCmpArgs compares data and metadata, ignores history, and summarises.
var DefaultNCCmpArgs = []string{"-dmNs"}

// DefaultPathsToIgnore are the directories skipped when scanning for case files
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"storage",
	"testdata",
}
