package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/cli/render"
	"github.com/biocompute-objects/bcoskema/formats"
	"github.com/biocompute-objects/bcoskema/loader"
	"github.com/biocompute-objects/bcoskema/processor"
)

// FileResult is the validation outcome of one input.
type FileResult struct {
	File   string          `json:"file" yaml:"file"`
	Valid  bool            `json:"valid" yaml:"valid"`
	Issues bcoskema.Issues `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Report is the output of the validate command.
type Report struct {
	Files   []FileResult `json:"files" yaml:"files"`
	Valid   int          `json:"valid" yaml:"valid"`
	Invalid int          `json:"invalid" yaml:"invalid"`
}

// Header implements render.Tabular.
func (r Report) Header() []string { return []string{"FILE", "STATUS", "PATH", "CODE", "MESSAGE"} }

// Rows implements render.Tabular: one row per issue, one for a valid file.
func (r Report) Rows() [][]string {
	var rows [][]string
	for _, f := range r.Files {
		if f.Valid {
			rows = append(rows, []string{f.File, "ok", "", "", ""})
			continue
		}
		for _, it := range f.Issues {
			rows = append(rows, []string{f.File, "invalid", it.Path, it.Code, it.Message})
		}
	}
	return rows
}

// ValidateCommand returns the validate command.
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate documents (structure, build and domain checks)",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			FormatFlag,
			&cli.BoolFlag{Name: "strict-formats", Usage: "Check date-time, email and uri formats"},
			&cli.BoolFlag{Name: "fail-fast", Usage: "Stop structural validation at the first issue"},
			&cli.IntFlag{Name: "workers", Usage: "Documents validated in parallel (default: GOMAXPROCS)"},
		},
		Action: validateAction,
	}
}

func validateAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("validate: at least one FILE is required", 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	r, err := render.New(c.String(FormatFlag.Name), c.App.Writer)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	p, ld, err := e.processor(c)
	if err != nil {
		return err
	}

	files := c.Args().Slice()
	report := Report{Files: make([]FileResult, len(files))}
	var docs []any
	var slots []int
	for i, f := range files {
		report.Files[i].File = f
		v, err := ld.Load(c.Context, f)
		if err != nil {
			report.Files[i].Issues = asIssues(err)
			continue
		}
		docs = append(docs, v)
		slots = append(slots, i)
	}
	results, err := p.ValidateAll(c.Context, docs)
	if err != nil {
		return cli.Exit(fmt.Sprintf("validate: %v", err), 2)
	}
	for j, res := range results {
		i := slots[j]
		report.Files[i].Valid = res.Valid()
		report.Files[i].Issues = res.Issues
	}
	for _, f := range report.Files {
		if f.Valid {
			report.Valid++
		} else {
			report.Invalid++
		}
	}
	e.logger.Info("validation finished", zap.Int("valid", report.Valid), zap.Int("invalid", report.Invalid))

	if err := r.Render(report); err != nil {
		return err
	}
	if report.Invalid > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// processor assembles the engine from config and command flags.
func (e *env) processor(c *cli.Context) (*processor.Processor, *loader.Loader, error) {
	dec, err := e.cfg.DecodeOpt()
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), 2)
	}
	pol, err := e.cfg.SemanticPolicy()
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), 2)
	}
	workers := e.cfg.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}
	opts := []processor.Option{
		processor.WithLogger(e.logger),
		processor.WithPolicy(pol),
		processor.WithDecodeOptions(dec),
		processor.WithFailFast(e.cfg.FailFast || c.Bool("fail-fast")),
		processor.WithWorkers(workers),
	}
	if e.cfg.StrictFormats || c.Bool("strict-formats") {
		opts = append(opts, processor.WithFormatChecker(formats.Strict()))
	}
	return processor.New(opts...), loader.New(loader.WithDecodeOptions(dec), loader.WithStdin(c.App.Reader)), nil
}

func asIssues(err error) bcoskema.Issues {
	if iss, ok := bcoskema.AsIssues(err); ok {
		return iss
	}
	it := bcoskema.IssueAt(bcoskema.Root(), bcoskema.CodeParseError, strings.TrimSpace(err.Error()), nil)
	it.Cause = err
	return bcoskema.Issues{it}
}
