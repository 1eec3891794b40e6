package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/tessling/rostermap/internal/config"
	"github.com/tessling/rostermap/internal/errors"
	"github.com/tessling/rostermap/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "rostermap",
		Usage:   "Convert contact rosters into List,Email CSV mappings",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			convertCmd(cfg),
			inspectCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// valueFlags lists command flags that consume the following argument.
var valueFlags = map[string]bool{
	"--domain": true, "-d": true,
	"--format": true, "-f": true,
}

// orderArgs moves command flags ahead of positional arguments. Flag
// parsing stops at the first positional, so without this the documented
// `convert <input> <output> --domain example.com` would treat the
// trailing flags as extra arguments.
func orderArgs(args []string) []string {
	if len(args) < 3 || strings.HasPrefix(args[1], "-") {
		return args
	}

	flags := make([]string, 0, len(args))
	positional := make([]string, 0, len(args))
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			positional = append(positional, rest[i:]...)
			break
		}
		if strings.HasPrefix(arg, "-") {
			flags = append(flags, arg)
			if valueFlags[arg] && i+1 < len(rest) {
				i++
				flags = append(flags, rest[i])
			}
			continue
		}
		positional = append(positional, arg)
	}

	out := make([]string, 0, len(args))
	out = append(out, args[0], args[1])
	out = append(out, flags...)
	return append(out, positional...)
}

// convertCmd creates the convert command.
func convertCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a roster file to a List,Email CSV",
		ArgsUsage: "<input> <output>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "domain", Aliases: []string{"d"}, Usage: "Domain for synthesized emails (falls back to config / " + config.EnvDomain + ")"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Input format: text|markdown"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("expected arguments: <input> <output>"))
			}

			output, err := ops.Convert(cfg, ops.ConvertInput{
				InputPath:  c.Args().Get(0),
				OutputPath: c.Args().Get(1),
				Domain:     c.String("domain"),
				Format:     ops.Format(c.String("format")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// inspectCmd creates the inspect command.
func inspectCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Report roster structure and how each record would resolve",
		ArgsUsage: "<input>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "domain", Aliases: []string{"d"}, Usage: "Domain for synthesized emails"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Input format: text|markdown"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("expected argument: <input>"))
			}

			output, err := ops.Inspect(cfg, ops.InspectInput{
				InputPath: c.Args().First(),
				Domain:    c.String("domain"),
				Format:    ops.Format(c.String("format")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if rErr, ok := err.(*errors.RosterError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, rErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
