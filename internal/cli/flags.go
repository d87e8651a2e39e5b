package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config     string `long:"config" description:"Path to config file" default:""`
	EnvFile    string `long:"env-file" description:"Optional .env file with EDSHOT_* overrides" default:".env"`
	JournalDir string `long:"journal-dir" description:"Directory containing Journal*.log files"`
	Output     string `long:"output" short:"o" description:"Destination directory for renamed screenshots"`
	Index      string `long:"index" description:"Journal index backend: memory | sqlite"`
	DryRun     bool   `long:"dry-run" description:"Show what would be copied without writing"`
	JSON       bool   `long:"json" description:"Output in JSON format"`
	Verbose    bool   `long:"verbose" short:"v" description:"Enable verbose output"`
	Version    bool   `long:"version" description:"Show version and exit"`
}

// MapCommand resolves screenshots to locations and copies them renamed.
type MapCommand struct {
	Args struct {
		Paths []string `positional-arg-name:"PATH" description:"Screenshot files or directories" required:"1"`
	} `positional-args:"yes" required:"yes"`

	globals *GlobalFlags
	version string
}

// LocateCommand resolves timestamps against the journal.
type LocateCommand struct {
	Args struct {
		Timestamps []string `positional-arg-name:"TIMESTAMP" description:"Unix seconds or RFC 3339 time" required:"1"`
	} `positional-args:"yes" required:"yes"`

	globals *GlobalFlags
	version string
}

// JournalCommand summarises the ingested journal.
type JournalCommand struct {
	Locations bool `long:"locations" description:"List every distinct location"`

	globals *GlobalFlags
	version string
}
