package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Point is a 2D coordinate. The backend sends points as [x, y] arrays;
// {"x":..,"y":..} objects are accepted as well.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes [x, y] or {"x":..,"y":..}.
func (p *Point) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) < 2 {
			return fmt.Errorf("point needs 2 coordinates, got %d", len(arr))
		}
		p.X, p.Y = arr[0], arr[1]
		return nil
	}
	var obj struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("point must be [x, y] or {x, y}: %w", err)
	}
	p.X, p.Y = obj.X, obj.Y
	return nil
}

// ID is an identifier the backend may send as either a number or a string.
type ID string

// UnmarshalJSON accepts "7" and 7 alike.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// IDFromInt formats an integer identifier.
func IDFromInt(n int) ID {
	return ID(strconv.Itoa(n))
}
