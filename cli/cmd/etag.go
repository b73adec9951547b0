package cmd

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/biocompute-objects/bcoskema/codec"
)

// ETagResponse is the output of the etag command.
type ETagResponse struct {
	File      string `json:"file" yaml:"file"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	ETag      string `json:"etag" yaml:"etag"`
	Declared  string `json:"declared" yaml:"declared"`
	Matches   bool   `json:"matches" yaml:"matches"`
}

// Header implements render.Tabular.
func (r ETagResponse) Header() []string { return []string{"FILE", "ALGORITHM", "ETAG", "MATCHES"} }

// Rows implements render.Tabular.
func (r ETagResponse) Rows() [][]string {
	return [][]string{{r.File, r.Algorithm, r.ETag, strconv.FormatBool(r.Matches)}}
}

// ETagCommand returns the etag command.
func ETagCommand() *cli.Command {
	return &cli.Command{
		Name:      "etag",
		Usage:     "Compute the content digest of a document",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "algorithm", Aliases: []string{"a"}, Usage: "Digest: sha256, blake3 (default from config, else sha256)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Print only the digest"},
			FormatFlag,
		},
		Action: etagAction,
	}
}

func etagAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	doc, err := loadOne(c, e, false)
	if err != nil {
		return err
	}
	name := e.cfg.ETagAlgorithm
	if c.IsSet("algorithm") {
		name = c.String("algorithm")
	}
	algo, err := codec.ParseAlgorithm(name)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	sum, err := codec.ETag(doc, algo)
	if err != nil {
		return fmt.Errorf("etag: %w", err)
	}
	if c.Bool("quiet") {
		_, err = fmt.Fprintln(c.App.Writer, sum)
		return err
	}
	return renderTo(c, ETagResponse{File: c.Args().First(), Algorithm: string(algo), ETag: sum, Declared: doc.ETag, Matches: sum == doc.ETag})
}
