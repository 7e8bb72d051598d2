// Package colormap provides the cyclic color table used to shade particles.
//
// A [Map] is an immutable, fixed-length sequence of RGBA entries indexed by
// a normalized scalar. The default table, [Twilight], is a cyclic map whose
// first and last entries meet, which suits angle-like observables.
//
// The table is stored as CSV (columns r,g,b,a in [0,1]) embedded in the
// binary and parsed once on first use.
package colormap

import (
	"bytes"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/gocarina/gocsv"
)

// EntrySize is the size in bytes of one entry in GPU memory (vec4<f32>).
const EntrySize = 16

// ErrEmpty is returned when a table has no entries.
var ErrEmpty = errors.New("colormap: empty table")

//go:embed twilight.csv
var twilightCSV []byte

// Color is one table entry with float32 components in [0,1].
type Color struct {
	R float32 `csv:"r"`
	G float32 `csv:"g"`
	B float32 `csv:"b"`
	A float32 `csv:"a"`
}

// RGBA converts c to 8-bit components, rounding to nearest. This is the
// same conversion a GPU applies when storing into an rgba8unorm texture.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: unorm8(c.R), G: unorm8(c.G), B: unorm8(c.B), A: unorm8(c.A)}
}

func unorm8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

// Map is an immutable color lookup table.
type Map struct {
	entries []Color
}

// New returns a Map holding a copy of entries.
func New(entries []Color) (*Map, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	return &Map{entries: append([]Color(nil), entries...)}, nil
}

// Parse reads a CSV table with an r,g,b,a header.
func Parse(r io.Reader) (*Map, error) {
	var entries []Color
	if err := gocsv.Unmarshal(r, &entries); err != nil {
		return nil, fmt.Errorf("colormap: parse: %w", err)
	}
	return New(entries)
}

var twilight = sync.OnceValue(func() *Map {
	m, err := Parse(bytes.NewReader(twilightCSV))
	if err != nil {
		panic(fmt.Sprintf("colormap: embedded twilight table: %v", err))
	}
	return m
})

// Twilight returns the default cyclic table. The table is parsed on the
// first call and shared afterwards.
func Twilight() *Map {
	return twilight()
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// At returns entry i.
func (m *Map) At(i int) Color {
	return m.entries[i]
}

// Index maps t in [0,1] to an entry index. Values outside the interval are
// clamped and NaN maps to 0.
func (m *Map) Index(t float32) int {
	n := len(m.entries)
	if !(t > 0) {
		return 0
	}
	if t >= 1 {
		return n - 1
	}
	return min(int(t*float32(n)), n-1)
}

// Lookup returns the entry for t in [0,1].
func (m *Map) Lookup(t float32) Color {
	return m.entries[m.Index(t)]
}

// Bytes returns the table as consecutive little-endian vec4<f32> values,
// ready to upload into a storage buffer.
func (m *Map) Bytes() []byte {
	buf := make([]byte, len(m.entries)*EntrySize)
	le := binary.LittleEndian
	for i, c := range m.entries {
		b := buf[i*EntrySize:]
		le.PutUint32(b[0:], math.Float32bits(c.R))
		le.PutUint32(b[4:], math.Float32bits(c.G))
		le.PutUint32(b[8:], math.Float32bits(c.B))
		le.PutUint32(b[12:], math.Float32bits(c.A))
	}
	return buf
}
