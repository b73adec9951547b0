package cmd

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/biocompute-objects/bcoskema/cli/render"
	"github.com/biocompute-objects/bcoskema/rules"
	"github.com/biocompute-objects/bcoskema/schema"
)

// SchemaResponse summarizes the compiled contract.
type SchemaResponse struct {
	ID          string         `json:"id" yaml:"id"`
	Version     string         `json:"version" yaml:"version"`
	Nodes       int            `json:"nodes" yaml:"nodes"`
	Kinds       map[string]int `json:"kinds" yaml:"kinds"`
	Reused      int            `json:"reused" yaml:"reused"`
	Definitions []string       `json:"definitions" yaml:"definitions"`
	Warnings    []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Header implements render.Tabular.
func (s SchemaResponse) Header() []string { return []string{"FIELD", "VALUE"} }

// Rows implements render.Tabular.
func (s SchemaResponse) Rows() [][]string {
	rows := [][]string{
		{"id", s.ID},
		{"version", s.Version},
		{"nodes", strconv.Itoa(s.Nodes)},
		{"reused", strconv.Itoa(s.Reused)},
	}
	for _, k := range []rules.Kind{rules.KindObject, rules.KindArray, rules.KindString, rules.KindInteger, rules.KindAny} {
		rows = append(rows, []string{"kind." + k.String(), strconv.Itoa(s.Kinds[k.String()])})
	}
	for _, d := range s.Definitions {
		rows = append(rows, []string{"definition", d})
	}
	for _, w := range s.Warnings {
		rows = append(rows, []string{"warning", w})
	}
	return rows
}

// SchemaCommand returns the schema command.
func SchemaCommand() *cli.Command {
	return &cli.Command{
		Name:   "schema",
		Usage:  "Show statistics of the compiled contract",
		Flags:  []cli.Flag{FormatFlag},
		Action: schemaAction,
	}
}

func schemaAction(c *cli.Context) error {
	if _, err := newEnv(c); err != nil {
		return err
	}
	compiled := schema.DefaultCompiled()
	m := compiled.Model
	kinds := map[string]int{}
	for k, n := range m.Stats() {
		kinds[k.String()] = n
	}
	return renderTo(c, SchemaResponse{
		ID:          m.ID(),
		Version:     m.Version(),
		Nodes:       m.Len(),
		Kinds:       kinds,
		Reused:      compiled.Reused,
		Definitions: m.Definitions(),
		Warnings:    compiled.Warnings,
	})
}

func renderTo(c *cli.Context, v any) error {
	r, err := render.New(c.String(FormatFlag.Name), c.App.Writer)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	return r.Render(v)
}
