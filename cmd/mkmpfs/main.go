package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dargueta/mpfs"
	"github.com/dargueta/mpfs/builder"
	"github.com/dargueta/mpfs/driver"
	"github.com/dargueta/mpfs/literal"
	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"
)

func main() {
	cli := cli.App{
		Name:  "mkmpfs",
		Usage: "Embed files in a source-text registry and read them back",
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Encode files and print the registry literal to stdout",
				Action:    buildRegistry,
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "log the chosen format and sizes of each file to stderr",
					},
					&cli.BoolFlag{
						Name:  "rle8",
						Usage: "also consider RLE8 encoding for each file",
					},
					&cli.StringFlag{
						Name:  "variable",
						Value: literal.DefaultVariableName,
						Usage: "name the registry literal is assigned to",
					},
				},
			},
			{
				Name:      "ls",
				Usage:     "Print a CSV manifest of a generated registry",
				Action:    listRegistry,
				ArgsUsage: "MODULE_FILE",
			},
			{
				Name:      "cat",
				Usage:     "Decode one file from a generated registry to stdout",
				Action:    catFile,
				ArgsUsage: "MODULE_FILE  NAME",
			},
		},
	}

	err := cli.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func buildRegistry(context *cli.Context) error {
	paths := context.Args().Slice()
	if len(paths) == 0 {
		return mpfs.ErrInvalidArgument.WithMessage("no input files given")
	}

	options := builder.DefaultOptions()
	options.EnableRLE8 = context.Bool("rle8")
	if context.Bool("verbose") {
		options.Logger = log.New(os.Stderr, "", 0)
	}

	files := make([]builder.NamedFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("can't read %q: %w", path, err)
		}
		files = append(files, builder.NamedFile{Name: filepath.Base(path), Data: data})
	}

	variable := context.String("variable")
	if err := literal.ValidateVariable(variable); err != nil {
		return err
	}

	entries, err := builder.BuildRegistry(files, options)
	if err != nil {
		return err
	}

	// Render everything first so a failure never leaves partial output behind.
	var output bytes.Buffer
	err = literal.RenderRegistry(&output, variable, entries)
	if err != nil {
		return err
	}
	_, err = output.WriteTo(os.Stdout)
	return err
}

func mountModuleFile(path string) (*driver.Driver, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read %q: %w", path, err)
	}

	mpfsDriver := driver.New()
	err = mpfsDriver.MountLiteral(text)
	if err != nil {
		return nil, fmt.Errorf("can't load registry from %q: %w", path, err)
	}
	return mpfsDriver, nil
}

func listRegistry(context *cli.Context) error {
	if context.NArg() != 1 {
		return mpfs.ErrInvalidArgument.WithMessage("expected exactly one module file")
	}

	mpfsDriver, err := mountModuleFile(context.Args().First())
	if err != nil {
		return err
	}
	return gocsv.Marshal(mpfsDriver.Manifest(), os.Stdout)
}

func catFile(context *cli.Context) error {
	if context.NArg() != 2 {
		return mpfs.ErrInvalidArgument.WithMessage("expected a module file and a file name")
	}

	mpfsDriver, err := mountModuleFile(context.Args().Get(0))
	if err != nil {
		return err
	}

	return mpfsDriver.WithOpen(context.Args().Get(1), func(file *driver.File) error {
		_, err := io.Copy(os.Stdout, file)
		return err
	})
}
