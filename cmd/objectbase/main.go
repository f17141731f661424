package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"

	"github.com/safing/objectbase/config"
	"github.com/safing/objectbase/database/storage"
	"github.com/safing/objectbase/info"
	"github.com/safing/objectbase/log"

	// Register storage backends.
	_ "github.com/safing/objectbase/database/storage/badger"
	_ "github.com/safing/objectbase/database/storage/bbolt"
	_ "github.com/safing/objectbase/database/storage/filetable"
)

var errUsage = errors.New("usage error")

const usage = `usage: objectbase [-config file] <command> [arguments]

commands:
  inspect [-where expr] [-limit n] [-offset n] <class>
      print the records of a class database as json
  config
      print the effective configuration
  storages
      list the available storage types
  version
      print version information
`

func main() {
	info.Set("objectbase", "", "AGPL")

	flags := flag.NewFlagSet("objectbase", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configFile := flags.String("config", "", "path to the configuration file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	os.Exit(run(*configFile, flags.Args(), os.Stdout))
}

func run(configFile string, args []string, out io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %s\n", err)
		return 1
	}

	log.SetOutput(os.Stderr, false)
	log.SetLogLevel(log.ParseLevel(cfg.LogLevel))
	if err := log.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start logging: %s\n", err)
		return 1
	}
	defer log.Shutdown()

	switch args[0] {
	case "inspect":
		err = inspect(cfg, args[1:], out)
	case "config":
		err = printConfig(cfg, out)
	case "storages":
		for _, storageType := range storage.Types() {
			fmt.Fprintln(out, storageType)
		}
	case "version":
		fmt.Fprintln(out, info.FullVersion())
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "%s\n\n%s", err, usage)
		return 2
	case err != nil:
		log.Errorf("objectbase: %s", err)
		return 1
	}
	return 0
}

func printConfig(cfg *config.Config, out io.Writer) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
