package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/railmap/railmap/internal/feature"
	"github.com/railmap/railmap/internal/geom"
	"github.com/railmap/railmap/internal/style"
)

const (
	testZoom = uint32(13)
	testX    = uint32(4096)
	testY    = uint32(4096)
)

// testScene assembles a small scene with one feature of every point and
// line kind inside the test tile.
func testScene(t *testing.T, layerName string) feature.Scene {
	t.Helper()
	b := geom.TileBound(testZoom, testX, testY)
	span := b.Max[0] - b.Min[0]
	cy := (b.Min[1] + b.Max[1]) / 2
	line := geom.Polyline{
		{b.Min[0] + 0.1*span, cy},
		{b.Min[0] + 0.5*span, cy},
		{b.Max[0] - 0.1*span, cy},
	}
	mid := orb.Point{b.Min[0] + 0.5*span, cy}
	detail := style.Detail(testZoom)
	pad := 0.01 * span

	set := feature.NewSet()
	set.Add(feature.NewLine(
		style.KindTrack, style.NewSymbolSet("first", "double", "cat"),
		line, detail, style.KindTrack.DefaultZ(), pad))
	set.Add(feature.NewLine(
		style.KindGuide, style.NewSymbolSet(),
		line.Offset(0.2*span), detail, style.KindGuide.DefaultZ(), pad))

	m := feature.NewPoint(
		style.KindMarker, style.NewSymbolSet("de_bf"),
		mid, 0, detail, style.KindMarker.DefaultZ(), pad)
	m.Marker = "de_bf"
	set.Add(m)

	s := feature.NewPoint(
		style.KindStation, style.NewSymbolSet("first"),
		mid, 0, detail, style.KindStation.DefaultZ(), pad)
	s.Texts = feature.Texts{Name: "Naumburg", Latin: "Naumburg", Aux: "48,3"}
	set.Add(s)

	bdg := feature.NewPoint(
		style.KindLineBadge, style.NewSymbolSet("blue"),
		mid, 0, detail, style.KindLineBadge.DefaultZ(), pad)
	bdg.Texts = feature.Texts{Name: "3950"}
	set.Add(bdg)

	set.Freeze()
	ix := feature.BuildIndex(set)
	layer, ok := style.LayerByName(layerName)
	if !ok {
		t.Fatalf("unknown layer %q", layerName)
	}
	return feature.Assemble(set, ix, style.New(), layer, testZoom, testX, testY)
}

func TestRasterDeterministic(t *testing.T) {
	scene := testScene(t, "el")
	first, err := Tile(scene, FormatPNG)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := Tile(scene, FormatPNG)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two renders of the same scene differ")
	}
}

func TestRasterSizeAndEmptyTile(t *testing.T) {
	scene := feature.Scene{
		Zoom:  testZoom,
		Bound: geom.TileBound(testZoom, testX, testY),
		Units: style.New().UnitsAt(testZoom),
	}
	data, err := Tile(scene, FormatPNG)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if w := img.Bounds().Dx(); w != 512 {
		t.Errorf("tile width = %d, want 512", w)
	}
	for y := 0; y < 512; y += 64 {
		for x := 0; x < 512; x += 64 {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				t.Fatalf("pixel (%d, %d) not transparent", x, y)
			}
		}
	}
}

func TestRasterDrawsSomething(t *testing.T) {
	scene := testScene(t, "el")
	data, err := Tile(scene, FormatPNG)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	opaque := 0
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				opaque++
			}
		}
	}
	if opaque == 0 {
		t.Error("scene rendered to a fully transparent tile")
	}
}

func TestVectorOutput(t *testing.T) {
	scene := testScene(t, "el")
	data, err := Tile(scene, FormatSVG)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatal("output is not an SVG document")
	}
	// An electrified first-rank track strokes in the high-voltage AC color.
	if !strings.Contains(out, "#990000") {
		t.Error("track stroke color missing from SVG")
	}
	if !strings.Contains(out, "Naumburg") {
		t.Error("station label missing from SVG")
	}
}

func TestBadgeLayer(t *testing.T) {
	scene := testScene(t, "el-num")
	if len(scene.Features) != 1 {
		t.Fatalf("badge layer scene has %d features, want 1", len(scene.Features))
	}
	data, err := Tile(scene, FormatSVG)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(data), ">3950<") {
		t.Error("badge number missing from SVG")
	}
}

func TestFormats(t *testing.T) {
	tests := []struct {
		ext  string
		ok   bool
		mime string
	}{
		{"png", true, "image/png"},
		{"svg", true, "image/svg+xml"},
		{"jpg", false, ""},
		{"", false, ""},
	}
	for _, tc := range tests {
		f, ok := ParseFormat(tc.ext)
		if ok != tc.ok {
			t.Errorf("ParseFormat(%q) ok = %v, want %v", tc.ext, ok, tc.ok)
			continue
		}
		if ok && f.ContentType() != tc.mime {
			t.Errorf("ContentType(%q) = %q, want %q", tc.ext, f.ContentType(), tc.mime)
		}
	}
}
