package project

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/BrickMosaic/internal/importer"
	"github.com/piwi3910/BrickMosaic/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.brickmosaic/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".brickmosaic")
}

// DefaultConfigPath returns the default path for the session config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// fileConfig mirrors the config file. Mappings whose key order matters are
// kept as nodes and walked by hand.
type fileConfig struct {
	Canvas struct {
		BlocksPerRow int       `yaml:"blocks_per_row"`
		BlocksPerCol int       `yaml:"blocks_per_col"`
		PieceSizePx  int       `yaml:"piece_size_px"`
		ValidPieces  yaml.Node `yaml:"valid_pieces"`
	} `yaml:"canvas_config"`
	Colors       yaml.Node `yaml:"colors"`
	PriceList    string    `yaml:"price_list"`
	Seed         int64     `yaml:"seed"`
	SparePercent float64   `yaml:"spare_percent"`
	Designs      yaml.Node `yaml:"designs"`
}

type fileDesign struct {
	Path      string `yaml:"path"`
	Size      []int  `yaml:"size"`
	Position  []int  `yaml:"position"`
	KeepWhite bool   `yaml:"keep_white"`
	Crop      []int  `yaml:"crop"`
}

// LoadConfig reads a YAML or JSON session config. Relative design and price
// list paths are resolved against the config file's directory. A configured
// price list is imported and merged into the piece prices; its row warnings
// are returned alongside the config.
func LoadConfig(path string) (model.Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Config{}, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return model.Config{}, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range cfg.Designs {
		cfg.Designs[i].Path = resolvePath(base, cfg.Designs[i].Path)
	}

	var warnings []string
	if cfg.PriceList != "" {
		cfg.PriceList = resolvePath(base, cfg.PriceList)
		result := importer.ImportPriceList(cfg.PriceList)
		if !result.OK() {
			return model.Config{}, nil, fmt.Errorf("%w: price list %s: %s",
				model.ErrInvalidConfig, cfg.PriceList, strings.Join(result.Errors, "; "))
		}
		warnings = append(warnings, result.Warnings...)
		warnings = append(warnings, importer.ApplyPrices(cfg.Canvas.ValidPieces, result.Rows)...)
	}

	if err := cfg.Validate(); err != nil {
		return model.Config{}, nil, err
	}
	return cfg, warnings, nil
}

// LoadConfigOrDefault reads the config at path. If the file does not exist,
// it returns DefaultConfig with no error.
func LoadConfigOrDefault(path string) (model.Config, []string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return model.DefaultConfig(), nil, nil
	}
	return LoadConfig(path)
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// ParseConfig decodes config data without touching the file system. Unknown
// top-level keys and duplicate keys are rejected.
func ParseConfig(data []byte) (model.Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return model.Config{}, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
	}

	cfg := model.Config{
		Canvas: model.CanvasConfig{
			BlocksPerRow: fc.Canvas.BlocksPerRow,
			BlocksPerCol: fc.Canvas.BlocksPerCol,
			PieceSizePx:  fc.Canvas.PieceSizePx,
		},
		PriceList:    fc.PriceList,
		Seed:         fc.Seed,
		SparePercent: fc.SparePercent,
	}

	var err error
	if cfg.Canvas.ValidPieces, err = parseValidPieces(&fc.Canvas.ValidPieces); err != nil {
		return model.Config{}, err
	}
	if cfg.Colors, err = parseColors(&fc.Colors); err != nil {
		return model.Config{}, err
	}
	if cfg.Designs, err = parseDesigns(&fc.Designs); err != nil {
		return model.Config{}, err
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// mappingPairs returns the key/value nodes of a mapping in file order. An
// absent key yields no pairs.
func mappingPairs(n *yaml.Node, what string) ([][2]*yaml.Node, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s must be a mapping (line %d)", model.ErrInvalidConfig, what, n.Line)
	}
	seen := make(map[string]bool, len(n.Content)/2)
	pairs := make([][2]*yaml.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if seen[k.Value] {
			return nil, fmt.Errorf("%w: duplicate key %q in %s (line %d)", model.ErrInvalidConfig, k.Value, what, k.Line)
		}
		seen[k.Value] = true
		pairs = append(pairs, [2]*yaml.Node{k, v})
	}
	return pairs, nil
}

func parseValidPieces(n *yaml.Node) ([]model.PieceSpec, error) {
	pieces, err := mappingPairs(n, "valid_pieces")
	if err != nil {
		return nil, err
	}
	var specs []model.PieceSpec
	for _, p := range pieces {
		pt, err := model.NormalizePieceType(p[0].Value)
		if err != nil {
			return nil, err
		}
		colors, err := mappingPairs(p[1], "valid_pieces."+p[0].Value)
		if err != nil {
			return nil, err
		}
		spec := model.PieceSpec{Type: pt}
		for _, c := range colors {
			var price float64
			if err := c[1].Decode(&price); err != nil {
				return nil, fmt.Errorf("%w: price of %s %s (line %d): %v",
					model.ErrInvalidConfig, pt, c[0].Value, c[1].Line, err)
			}
			spec.Colors = append(spec.Colors, model.PriceEntry{Color: c[0].Value, Price: price})
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseColors(n *yaml.Node) ([]model.CatalogColor, error) {
	pairs, err := mappingPairs(n, "colors")
	if err != nil {
		return nil, err
	}
	var colors []model.CatalogColor
	for _, p := range pairs {
		rgb, err := parseColorValue(p[1])
		if err != nil {
			return nil, fmt.Errorf("color %q (line %d): %w", p[0].Value, p[1].Line, err)
		}
		colors = append(colors, model.CatalogColor{Name: p[0].Value, RGB: rgb})
	}
	return colors, nil
}

// parseColorValue accepts "#rrggbb" or an [r, g, b] triple.
func parseColorValue(n *yaml.Node) (model.RGB, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return model.ParseHexColor(n.Value)
	case yaml.SequenceNode:
		var ch []int
		if err := n.Decode(&ch); err != nil {
			return model.RGB{}, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
		}
		if len(ch) != 3 {
			return model.RGB{}, fmt.Errorf("%w: want [r, g, b], got %d values", model.ErrInvalidConfig, len(ch))
		}
		for _, v := range ch {
			if v < 0 || v > 255 {
				return model.RGB{}, fmt.Errorf("%w: channel %d out of range 0-255", model.ErrInvalidConfig, v)
			}
		}
		return model.RGB{R: uint8(ch[0]), G: uint8(ch[1]), B: uint8(ch[2])}, nil
	default:
		return model.RGB{}, fmt.Errorf("%w: want \"#rrggbb\" or [r, g, b]", model.ErrInvalidConfig)
	}
}

func parseDesigns(n *yaml.Node) ([]model.DesignConfig, error) {
	pairs, err := mappingPairs(n, "designs")
	if err != nil {
		return nil, err
	}
	var designs []model.DesignConfig
	for _, p := range pairs {
		var fd fileDesign
		if err := p[1].Decode(&fd); err != nil {
			return nil, fmt.Errorf("%w: design %q: %v", model.ErrInvalidConfig, p[0].Value, err)
		}
		dc := model.DesignConfig{
			Name:      p[0].Value,
			Path:      fd.Path,
			KeepWhite: fd.KeepWhite,
		}
		if dc.Size, err = point(fd.Size, "size", p[0].Value); err != nil {
			return nil, err
		}
		if fd.Position != nil {
			if dc.Position, err = point(fd.Position, "position", p[0].Value); err != nil {
				return nil, err
			}
		}
		if fd.Crop != nil {
			if len(fd.Crop) != 4 {
				return nil, fmt.Errorf("%w: design %q crop wants [x0, y0, x1, y1]", model.ErrInvalidConfig, p[0].Value)
			}
			dc.Crop = image.Rect(fd.Crop[0], fd.Crop[1], fd.Crop[2], fd.Crop[3])
		}
		designs = append(designs, dc)
	}
	return designs, nil
}

func point(v []int, field, design string) (image.Point, error) {
	if len(v) != 2 {
		return image.Point{}, fmt.Errorf("%w: design %q %s wants [x, y]", model.ErrInvalidConfig, design, field)
	}
	return image.Pt(v[0], v[1]), nil
}

// SaveConfig writes cfg as YAML in the layout LoadConfig reads. It creates
// any missing parent directories automatically.
func SaveConfig(path string, cfg model.Config) error {
	data, err := MarshalConfig(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MarshalConfig encodes cfg as YAML, keeping piece, color and design order.
func MarshalConfig(cfg model.Config) ([]byte, error) {
	str := func(s string) *yaml.Node { return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s} }
	scalar := func(tag, v string) *yaml.Node { return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v} }
	integer := func(v int64) *yaml.Node { return scalar("!!int", strconv.FormatInt(v, 10)) }
	float := func(v float64) *yaml.Node { return scalar("!!float", strconv.FormatFloat(v, 'g', -1, 64)) }
	boolean := func(v bool) *yaml.Node { return scalar("!!bool", strconv.FormatBool(v)) }
	mapping := func(kv ...*yaml.Node) *yaml.Node {
		return &yaml.Node{Kind: yaml.MappingNode, Content: kv}
	}
	flow := func(vs ...int) *yaml.Node {
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, v := range vs {
			n.Content = append(n.Content, integer(int64(v)))
		}
		return n
	}

	pieces := mapping()
	for _, spec := range cfg.Canvas.ValidPieces {
		colors := mapping()
		for _, c := range spec.Colors {
			colors.Content = append(colors.Content, str(c.Color), float(c.Price))
		}
		pieces.Content = append(pieces.Content, str(string(spec.Type)), colors)
	}

	root := mapping(
		str("canvas_config"), mapping(
			str("blocks_per_row"), integer(int64(cfg.Canvas.BlocksPerRow)),
			str("blocks_per_col"), integer(int64(cfg.Canvas.BlocksPerCol)),
			str("piece_size_px"), integer(int64(cfg.Canvas.PieceSizePx)),
			str("valid_pieces"), pieces,
		),
	)
	if len(cfg.Colors) > 0 {
		colors := mapping()
		for _, c := range cfg.Colors {
			colors.Content = append(colors.Content, str(c.Name), str(c.Hex()))
		}
		root.Content = append(root.Content, str("colors"), colors)
	}
	if cfg.PriceList != "" {
		root.Content = append(root.Content, str("price_list"), str(cfg.PriceList))
	}
	if cfg.Seed != 0 {
		root.Content = append(root.Content, str("seed"), integer(cfg.Seed))
	}
	if cfg.SparePercent != 0 {
		root.Content = append(root.Content, str("spare_percent"), float(cfg.SparePercent))
	}
	if len(cfg.Designs) > 0 {
		designs := mapping()
		for _, d := range cfg.Designs {
			dn := mapping(
				str("path"), str(d.Path),
				str("size"), flow(d.Size.X, d.Size.Y),
				str("position"), flow(d.Position.X, d.Position.Y),
				str("keep_white"), boolean(d.KeepWhite),
			)
			if !d.Crop.Empty() {
				dn.Content = append(dn.Content, str("crop"),
					flow(d.Crop.Min.X, d.Crop.Min.Y, d.Crop.Max.X, d.Crop.Max.Y))
			}
			designs.Content = append(designs.Content, str(d.Name), dn)
		}
		root.Content = append(root.Content, str("designs"), designs)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
