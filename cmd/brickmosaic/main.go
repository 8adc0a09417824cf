// BrickMosaic turns pixel-art images into a brick mosaic plan.
//
// It loads a YAML configuration, places every configured design on the
// canvas, fills the rest with generic pieces and writes a priced summary
// together with PNG, PDF, label, XLSX and DXF exports.
//
// Build:
//   go build -o brickmosaic ./cmd/brickmosaic
//
// Run:
//   brickmosaic -config mosaic.yaml -out build/

package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/piwi3910/BrickMosaic/internal/engine"
	"github.com/piwi3910/BrickMosaic/internal/export"
	"github.com/piwi3910/BrickMosaic/internal/importer"
	"github.com/piwi3910/BrickMosaic/internal/model"
	"github.com/piwi3910/BrickMosaic/internal/project"
)

func main() {
	configPath := flag.String("config", project.DefaultConfigPath(), "mosaic configuration (YAML or JSON)")
	palettePath := flag.String("palette", project.DefaultPalettePath(), "palette file merged under the configured colors (empty to skip)")
	importPalette := flag.String("import-palette", "", "merge the colors of another palette file into -palette and exit")
	initConfig := flag.Bool("init", false, "write a default configuration to -config and exit")
	outDir := flag.String("out", "mosaic-out", "output directory")
	seed := flag.Int64("seed", 0, "random seed (overrides the configuration when non-zero)")
	labels := flag.Bool("labels", true, "write the QR bag label sheet")
	flag.Parse()

	if *initConfig {
		if err := project.SaveConfig(*configPath, model.DefaultConfig()); err != nil {
			log.Fatalf("init: %v", err)
		}
		log.Printf("default configuration written to %s", *configPath)
		return
	}

	if *importPalette != "" {
		if *palettePath == "" {
			log.Fatalf("import-palette: -palette must name the palette to update")
		}
		existing, err := project.LoadPalette(*palettePath)
		if err != nil {
			log.Fatalf("palette: %v", err)
		}
		merged, err := project.ImportPalette(*importPalette, existing)
		if err != nil {
			log.Fatalf("import-palette: %v", err)
		}
		if err := project.SavePalette(*palettePath, merged); err != nil {
			log.Fatalf("palette: %v", err)
		}
		log.Printf("palette %s now holds %d colors (%d imported)", *palettePath, len(merged), len(merged)-len(existing))
		return
	}

	cfg, warnings, err := project.LoadConfigOrDefault(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}

	if *palettePath != "" {
		palette, err := project.LoadPalette(*palettePath)
		if err != nil {
			log.Fatalf("palette: %v", err)
		}
		project.ApplyPalette(&cfg, palette)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	w, h := cfg.Canvas.BlocksPerRow, cfg.Canvas.BlocksPerCol
	canvas := export.NewCanvas(w, h, cfg.Canvas.PieceSizePx)
	layout := export.NewLayout(w, h)

	session, err := engine.NewSession(cfg, engine.Options{
		Seed:     cfg.Seed,
		Renderer: engine.MultiRenderer{canvas, layout},
	})
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	if !session.HasFallback() {
		log.Printf("warning: no 1x1 piece configured, the canvas may keep holes")
	}

	for _, dc := range cfg.Designs {
		design, err := importer.LoadDesign(dc)
		if err != nil {
			log.Fatalf("%v", err)
		}
		rep, err := session.ImportDesign(design)
		if err != nil {
			log.Fatalf("design %q: %v", dc.Name, err)
		}
		log.Printf("design %q: %d pieces placed, %d white cells filled with %d generic pieces",
			rep.Design, rep.Placed, rep.Skipped, rep.Fill.Placed)
		if n := rep.Fill.UnfilledCount(); n > 0 {
			log.Printf("warning: design %q left %d anchors unfilled", dc.Name, n)
		}
	}

	fill, err := session.FillAll()
	if err != nil {
		log.Fatalf("fill: %v", err)
	}
	log.Printf("background fill: %d pieces placed", fill.Placed)
	if n := fill.UnfilledCount(); n > 0 {
		log.Printf("warning: %d anchors left unfilled: %v", n, fill.Unfilled)
	}

	summary := session.Summarize()
	estimate := model.CalculatePurchaseEstimate(summary, cfg.SparePercent)
	byType := summary.PiecesByType()
	for _, pt := range model.PiecePriority {
		if n := byType[pt]; n > 0 {
			log.Printf("%s: %d pieces", pt, n)
		}
	}
	if !summary.HasPricing() {
		log.Printf("warning: no placed piece has a price, reports show counts only")
	}

	doc := project.NewSummaryDocument(summary)
	doc.Purchase = &estimate
	doc.Holes = session.Holes()
	if err := project.SaveSummary(filepath.Join(*outDir, "summary.json"), doc); err != nil {
		log.Fatalf("%v", err)
	}

	if err := canvas.SavePNG(filepath.Join(*outDir, "mosaic.png")); err != nil {
		log.Fatalf("%v", err)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatalf("%v", err)
	}
	report := export.Report{
		Title:    "Brick Mosaic",
		Layout:   layout,
		Summary:  summary,
		Palette:  catalog.Colors(),
		Purchase: &estimate,
		Preview:  canvas.Thumbnail(600),
	}
	if err := export.ExportPDF(filepath.Join(*outDir, "mosaic.pdf"), report); err != nil {
		log.Fatalf("pdf export: %v", err)
	}

	if *labels && summary.TotalPieces > 0 {
		if err := export.ExportLabels(filepath.Join(*outDir, "labels.pdf"), summary, &estimate); err != nil {
			log.Fatalf("label export: %v", err)
		}
	}
	if err := export.ExportXLSX(filepath.Join(*outDir, "mosaic.xlsx"), layout, summary, &estimate); err != nil {
		log.Fatalf("xlsx export: %v", err)
	}
	if err := export.ExportDXF(filepath.Join(*outDir, "baseplate.dxf"), layout); err != nil {
		log.Fatalf("dxf export: %v", err)
	}

	log.Printf("%d pieces, total price %.2f (order %d pieces, %.2f), written to %s",
		summary.TotalPieces, summary.TotalPrice, estimate.TotalPieces, estimate.TotalCost, *outDir)
}
