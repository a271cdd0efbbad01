package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/diag"
	"github.com/chazu/brushgen/pkg/generate"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/graph"
	"github.com/chazu/brushgen/pkg/texture"
	"github.com/spf13/cobra"
)

var (
	shapeMin      []float32
	shapeMax      []float32
	shapeSides    int
	shapePower    int
	shapeTopScale float32
	shapeMaterial string
	shapeJSON     bool
)

var shapeCmd = &cobra.Command{
	Use:   "shape [kind]",
	Short: "Build a single shape and print its sides",
	Long: `Build one shape inside the box given by --min and --max and print every
side as three plane points, material and texture axes. Kinds are cube,
wedge, spike, cylinder, frustum, sphere-globe and sphere. Prisms need
ellipses and are only available from scripts.`,
	Args: cobra.ExactArgs(1),
	RunE: runShape,
}

func init() {
	addShapeFlags(shapeCmd)
	rootCmd.AddCommand(shapeCmd)
}

// addShapeFlags registers the shape flags and sets them to their defaults.
func addShapeFlags(cmd *cobra.Command) {
	cmd.Flags().Float32SliceVar(&shapeMin, "min", []float32{0, 0, 0}, "minimum corner x,y,z")
	cmd.Flags().Float32SliceVar(&shapeMax, "max", []float32{64, 64, 64}, "maximum corner x,y,z")
	cmd.Flags().IntVar(&shapeSides, "sides", 0, "side count for round shapes (0 uses the config default)")
	cmd.Flags().IntVar(&shapePower, "power", 0, "displacement power for spheres (0 uses the config default)")
	cmd.Flags().Float32Var(&shapeTopScale, "top-scale", 0, "frustum top size relative to the base")
	cmd.Flags().StringVar(&shapeMaterial, "material", "", "material name or path")
	cmd.Flags().BoolVar(&shapeJSON, "json", false, "print the solids as JSON")
}

func vecFlag(name string, v []float32) (geom.Vec3, error) {
	if len(v) != 3 {
		return geom.Vec3{}, fmt.Errorf("--%s needs 3 numbers x,y,z, got %d", name, len(v))
	}
	return geom.V3(v[0], v[1], v[2]), nil
}

func runShape(cmd *cobra.Command, args []string) error {
	kind, err := graph.ParseShapeKind(args[0])
	if err != nil {
		return err
	}
	if kind == graph.ShapePrism {
		return fmt.Errorf("prisms need top and bottom ellipses; use a script")
	}
	lo, err := vecFlag("min", shapeMin)
	if err != nil {
		return err
	}
	hi, err := vecFlag("max", shapeMax)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sd := graph.ShapeData{
		Kind:     kind,
		Bounds:   geom.NewBounds(lo, hi),
		Sides:    shapeSides,
		Power:    shapePower,
		TopScale: shapeTopScale,
	}
	if shapeMaterial != "" {
		m, err := cfg.Catalog().Resolve(shapeMaterial)
		if err != nil {
			return err
		}
		sd.Materials = []texture.Material{m}
	}
	if err := validateShape(sd); err != nil {
		return err
	}

	solids, err := generate.Build(sd, cfg.GraphDefaults(), diag.LogSink{Logger: newLogger()})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if shapeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(solids)
	}
	printSolids(out, solids)
	return nil
}

// validateShape runs the graph checks on a one-shape design.
func validateShape(sd graph.ShapeData) error {
	g := graph.New()
	id := graph.NewNodeID("shape/cli")
	g.AddNode(&graph.Node{ID: id, Kind: graph.NodeShape, Name: "cli", Data: sd})
	g.AddRoot(id)
	if vr := graph.ValidateAll(g); len(vr.Errors) > 0 {
		return vr.Errors[0]
	}
	return nil
}

func printSolids(w io.Writer, solids []brush.Solid) {
	for i, s := range solids {
		fmt.Fprintf(w, "solid %d (%d sides)\n", i, len(s.Sides))
		for _, side := range s.Sides {
			t := side.Texture
			fmt.Fprintf(w, "  %s %s %s %s %d", side.Plane, t.Material, t.U, t.V, t.LightScale)
			if side.Disp != nil {
				fmt.Fprintf(w, " disp power %d", side.Disp.Power)
			}
			fmt.Fprintln(w)
		}
	}
}
