package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rpi11/Databases-P3/internal/config"
	"github.com/rpi11/Databases-P3/internal/present"
	"github.com/rpi11/Databases-P3/pkg/logger"
	"github.com/rpi11/Databases-P3/pkg/monitor"
	"github.com/rpi11/Databases-P3/pkg/query"
)

const banner = `
in-memory relational database engine
commands: CREATE TABLE, DROP TABLE, CREATE INDEX, LOAD DATA, INSERT, SELECT, UPDATE, DELETE
`

func main() {
	var (
		scriptFile   = flag.String("query", "", "file containing `;`-delimited commands")
		commandText  = flag.String("sql", "", "a single command string")
		outputFormat = flag.String("output", "", "result format: json or table (overrides config)")
		verbose      = flag.Bool("verbose", false, "verbose logging and a closing statistics summary")
		configFile   = flag.String("config", "", "YAML configuration file")
		showHelp     = flag.Bool("help", false, "show help")
	)
	flag.Parse()

	if *showHelp {
		fmt.Print(banner)
		showUsage()
		return
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Printf("warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *outputFormat != "" {
		cfg.Output.Format = *outputFormat
	}

	log := logger.New(*verbose)
	engine := query.NewEngine(log)

	alertMgr := monitor.NewAlertManager()
	if cfg.Diagnostics.Enabled {
		alertMgr.AddRule(&monitor.CommandErrorRule{})
		alertMgr.AddRule(&monitor.UnsafeMutationRule{})
		alertMgr.AddRule(&monitor.NestedLoopCardinalityRule{})
		alertMgr.AddRule(&monitor.FullColumnScanRule{})
		alertMgr.AddHandler(monitor.ConsoleAlertHandler)
	}

	processor := monitor.NewCommandProcessor(engine)
	processor.SetCommandHandler(func(pc *monitor.ProcessedCommand) {
		alertMgr.Check(pc)
		printOutcome(cfg.Output.Format, pc)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	commands := make(chan string)
	switch {
	case *scriptFile != "":
		watcher := monitor.NewCommandWatcher(*scriptFile)
		if err := watcher.Start(ctx, commands); err != nil {
			fmt.Printf("error reading %q: %v\n", *scriptFile, err)
			os.Exit(1)
		}
	case *commandText != "":
		go monitor.StreamCommands(ctx, strings.NewReader(*commandText), commands)
	default:
		if *verbose {
			fmt.Print(banner)
		}
		go monitor.StreamCommands(ctx, os.Stdin, commands)
	}

	processor.Start(ctx, commands)

	if *verbose {
		snap := processor.GetStatistics().GetSnapshot()
		fmt.Fprintf(os.Stderr, "commands=%d failed=%d slow=%d uptime=%s\n",
			snap.TotalCommands, snap.FailedCommands, snap.SlowCommands, snap.Uptime)
	}
}

func showUsage() {
	fmt.Println("dbengine - an in-memory relational database engine")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dbengine -query commands.txt        Run every command in a `;`-delimited file")
	fmt.Println("  dbengine -sql \"SELECT * FROM t\"      Run a single command")
	fmt.Println("  dbengine                            Read `;`-delimited commands from stdin")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -output FORMAT   Result format: json or table (default from config, else json)")
	fmt.Println("  -config FILE     YAML configuration file")
	fmt.Println("  -verbose         Verbose logging plus a closing statistics summary")
	fmt.Println("  -help            Show this help")
}

// printOutcome prints one processed command's SELECT rows or its ERROR
// line (§6.3/§6.4); every other statement shape produces no output of its
// own. It runs as CommandProcessor's command handler, so it sees each
// command exactly once — the same Run call that fed Statistics/AlertManager
// produced this Result, nothing re-executes it.
func printOutcome(format string, pc *monitor.ProcessedCommand) {
	if pc.Err != nil {
		fmt.Println(query.FormatError(pc.Err))
		return
	}
	if pc.Result == nil {
		return
	}
	if strings.EqualFold(format, "table") {
		present.Table(os.Stdout, pc.Result)
		return
	}
	present.JSON(os.Stdout, true, pc.Result)
	fmt.Println()
}
