package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/grovetools/cellconsole/pkg/overlay"
	"github.com/spf13/cobra"
)

const (
	defaultPreviewWidth  = 600
	defaultPreviewHeight = 400
)

func newDXFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dxf",
		Short: "Preview DXF drawings and generate toolpaths",
	}
	cmd.AddCommand(newDXFPreviewCmd())
	cmd.AddCommand(newDXFDrawCmd())
	return cmd
}

type pathOutput struct {
	out           string
	width, height int
}

func (o *pathOutput) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Render the paths as PNG to this file")
	cmd.Flags().IntVar(&o.width, "width", defaultPreviewWidth, "PNG width in px")
	cmd.Flags().IntVar(&o.height, "height", defaultPreviewHeight, "PNG height in px")
}

func (o *pathOutput) write(set models.PathSet) error {
	if o.out == "" {
		return nil
	}
	f, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	defer f.Close()
	size := overlay.Size{W: float64(o.width), H: float64(o.height)}
	return overlay.RenderPaths(set.Paths, set.Origin, size).EncodePNG(f)
}

// runPaths awaits a DXF action, renders the paths and prints a summary.
func runPaths(cmd *cobra.Command, a action.Action, out *pathOutput) error {
	rt, err := newRuntime(cmd, "cli")
	if err != nil {
		return err
	}
	stop := rt.start(cmd.Context())
	defer stop()

	got, err := rt.await(cmd.Context(), a)
	if err != nil {
		return err
	}
	set, _ := got.Payload.(models.PathSet)
	if err := out.write(set); err != nil {
		return err
	}
	return printResult(cmd, pathSummary(set))
}

type pathSetSummary struct {
	Paths     int                    `json:"paths"`
	Points    int                    `json:"points"`
	PathCount int                    `json:"path_count,omitempty"`
	Origin    *models.Point          `json:"origin,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
}

func pathSummary(set models.PathSet) pathSetSummary {
	s := pathSetSummary{Paths: len(set.Paths), PathCount: set.PathCount, Origin: set.Origin, Params: set.Params}
	for _, p := range set.Paths {
		s.Points += len(p)
	}
	return s
}

func newDXFPreviewCmd() *cobra.Command {
	var out pathOutput
	cmd := &cobra.Command{
		Use:   "preview <file.dxf>",
		Short: "Upload a DXF file and preview its paths",
		Long: `Upload a DXF file and print a summary of the returned paths.

Examples:
  cellconsole dxf preview bracket.dxf --out preview.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read DXF file: %w", err)
			}
			a := action.New(action.DXFPreview, action.DXFFile{Name: filepath.Base(args[0]), Data: data})
			return runPaths(cmd, a, &out)
		},
	}
	out.bind(cmd)
	return cmd
}

func newDXFDrawCmd() *cobra.Command {
	var (
		out    pathOutput
		params map[string]string
	)
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Generate the drawing toolpath for the last uploaded DXF",
		Long: `Generate the drawing toolpath. Parameters are passed through to the
backend; numeric values are sent as numbers.

Examples:
  cellconsole dxf draw --param scale=1.5 --param z=120 --out draw.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaths(cmd, action.New(action.DXFDraw, drawParams(params)), &out)
		},
	}
	out.bind(cmd)
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "Draw parameter key=value (repeatable)")
	return cmd
}

func drawParams(raw map[string]string) models.DrawParams {
	params := models.DrawParams{}
	for k, v := range raw {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params[k] = f
			continue
		}
		if b, err := strconv.ParseBool(v); err == nil {
			params[k] = b
			continue
		}
		params[k] = v
	}
	return params
}
