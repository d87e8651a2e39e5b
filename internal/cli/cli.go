package cli

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Map     *MapCommand
	Locate  *LocateCommand
	Journal *JournalCommand
}

// commandNames lists the registered subcommands.
var commandNames = []string{"map", "locate", "journal"}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "edshot"
	parser.LongDescription = "Rename Elite Dangerous screenshots after the star system they were taken in."

	cmds := &commands{
		Map:     &MapCommand{globals: &globals, version: version},
		Locate:  &LocateCommand{globals: &globals, version: version},
		Journal: &JournalCommand{globals: &globals, version: version},
	}

	parser.AddCommand("map", "Copy screenshots renamed by location", "Resolve each screenshot to the star system recorded in the journal and copy it into the output directory as \"<UTC time>-<system>.<ext>\".", cmds.Map)
	parser.AddCommand("locate", "Resolve timestamps to locations", "Print the location recorded in the journal at or before each timestamp.", cmds.Locate)
	parser.AddCommand("journal", "Summarise the journal", "Show how many journal files, records and locations were ingested.", cmds.Journal)

	return parser, &globals, cmds
}

// Run is the main entry point for the edshot CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}

	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("edshot %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	_, err := parser.ParseArgs(withDefaultCommand(parser, checkArgs))
	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}

// withDefaultCommand makes "edshot PATH..." mean "edshot map PATH...". The
// first positional argument decides: a subcommand name is left alone, anything
// else gets "map" in front. Values of global flags are skipped using the
// parser's own option table so "--output journal" is not taken for a command.
func withDefaultCommand(parser *goflags.Parser, args []string) []string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return prependMap(args)
		case arg == "-h" || arg == "--help":
			return args
		case strings.HasPrefix(arg, "--"):
			name := arg[2:]
			if strings.Contains(name, "=") {
				continue
			}
			if takesValue(parser.FindOptionByLongName(name)) {
				i++
			}
		case len(arg) > 1 && arg[0] == '-':
			// Short flags may be clustered; the first one taking a value
			// consumes the rest of the cluster or, if last, the next arg.
			shorts := []rune(arg[1:])
			for j, r := range shorts {
				if r == 'h' {
					return args
				}
				if takesValue(parser.FindOptionByShortName(r)) {
					if j == len(shorts)-1 {
						i++
					}
					break
				}
			}
		default:
			if parser.Find(arg) != nil {
				return args
			}
			return prependMap(args)
		}
	}
	return prependMap(args)
}

func prependMap(args []string) []string {
	return append([]string{"map"}, args...)
}

// takesValue reports whether opt consumes an argument.
func takesValue(opt *goflags.Option) bool {
	return opt != nil && opt.Field().Type.Kind() != reflect.Bool
}
