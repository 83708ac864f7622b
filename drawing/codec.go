// Package drawing encodes canvas save data for transport inside room
// snapshots. Point coordinates are rounded to 4 decimal places before
// compression; that loss is accepted and documented, everything else
// round-trips exactly.
package drawing

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/flate"
)

// Point is one sampled pen position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is a single brush stroke.
type Line struct {
	Points      []Point `json:"points"`
	BrushColor  string  `json:"brushColor"`
	BrushRadius float64 `json:"brushRadius"`
}

// SaveData is the canvas serialization format.
type SaveData struct {
	Lines  []Line  `json:"lines"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// compact is the wire shape: points collapse to [x, y] pairs.
type compactLine struct {
	Points      [][2]float64 `json:"points"`
	BrushColor  string       `json:"brushColor"`
	BrushRadius float64      `json:"brushRadius"`
}

type compactSaveData struct {
	Lines  []compactLine `json:"lines"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Compress turns save data into a compact, DEFLATE-compressed, base64
// string suitable for embedding in a player state.
func Compress(data SaveData) (string, error) {
	compact := compactSaveData{
		Lines:  make([]compactLine, 0, len(data.Lines)),
		Width:  data.Width,
		Height: data.Height,
	}
	for _, line := range data.Lines {
		points := make([][2]float64, 0, len(line.Points))
		for _, pt := range line.Points {
			points = append(points, [2]float64{round4(pt.X), round4(pt.Y)})
		}
		compact.Lines = append(compact.Lines, compactLine{
			Points:      points,
			BrushColor:  line.BrushColor,
			BrushRadius: line.BrushRadius,
		})
	}

	raw, err := json.Marshal(compact)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(raw); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return base64.RawStdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decompress reverses Compress. It fails on payloads that are not valid
// base64, DEFLATE or save-data JSON.
func Decompress(payload string) (SaveData, error) {
	compressed, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil {
		return SaveData{}, fmt.Errorf("decoding drawing payload: %w", err)
	}

	r := flate.NewReader(bytes.NewReader(compressed))
	raw, err := io.ReadAll(r)
	if err != nil {
		return SaveData{}, fmt.Errorf("inflating drawing payload: %w", err)
	}
	if err := r.Close(); err != nil {
		return SaveData{}, err
	}

	var compact compactSaveData
	if err := json.Unmarshal(raw, &compact); err != nil {
		return SaveData{}, fmt.Errorf("decoding drawing payload: %w", err)
	}

	data := SaveData{
		Lines:  make([]Line, 0, len(compact.Lines)),
		Width:  compact.Width,
		Height: compact.Height,
	}
	for _, line := range compact.Lines {
		points := make([]Point, 0, len(line.Points))
		for _, pt := range line.Points {
			points = append(points, Point{X: pt[0], Y: pt[1]})
		}
		data.Lines = append(data.Lines, Line{
			Points:      points,
			BrushColor:  line.BrushColor,
			BrushRadius: line.BrushRadius,
		})
	}
	return data, nil
}
