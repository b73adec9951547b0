package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/biocompute-objects/bcoskema/cli/render"
	"github.com/biocompute-objects/bcoskema/codec"
	"github.com/biocompute-objects/bcoskema/model"
)

// BuildCommand returns the build command.
func BuildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Validate a document and print the typed result re-serialized",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "json", Usage: "Output encoding: json, yaml, cbor, msgpack"},
			FormatFlag,
		},
		Action: buildAction,
	}
}

func buildAction(c *cli.Context) error {
	out, err := codec.ParseFormat(c.String("output"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	doc, err := loadOne(c, e, true)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(doc, out)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	_, err = c.App.Writer.Write(data)
	return err
}

// loadOne loads, validates and builds the single FILE argument. Issues are
// rendered and turned into exit code 1; with domain set to false a document
// that only fails the domain checks is still returned.
func loadOne(c *cli.Context, e *env, domain bool) (*model.Document, error) {
	if c.NArg() != 1 {
		return nil, cli.Exit(c.Command.Name+": exactly one FILE is required", 2)
	}
	p, ld, err := e.processor(c)
	if err != nil {
		return nil, err
	}
	file := c.Args().First()
	v, err := ld.Load(c.Context, file)
	if err == nil {
		var doc *model.Document
		doc, err = p.Process(c.Context, v)
		if err == nil || (doc != nil && !domain) {
			return doc, nil
		}
	}
	r, rerr := render.New(c.String(FormatFlag.Name), c.App.ErrWriter)
	if rerr != nil {
		return nil, cli.Exit(rerr.Error(), 2)
	}
	if rerr := r.Render(Report{Files: []FileResult{{File: file, Issues: asIssues(err)}}, Invalid: 1}); rerr != nil {
		return nil, rerr
	}
	return nil, cli.Exit("", 1)
}
