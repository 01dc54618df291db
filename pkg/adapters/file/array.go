package file

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/skelly/pkg/domain"
)

// LoadTrackedPoints reads a (frames × landmarks × dims) array from a JSON file.
// The file is either a nested [frame][landmark][dim] array or an object
// with frames, landmarks, dims and flat row-major data.
func LoadTrackedPoints(path string) (domain.TrackedPoints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.TrackedPoints{}, fmt.Errorf("failed to read points file: %w", err)
	}
	return ParseTrackedPoints(data)
}

// ParseTrackedPoints decodes either array form. See LoadTrackedPoints.
// A nested array cannot express zero frames since an empty list carries no
// landmark or dims axis; use the object form for empty batches.
func ParseTrackedPoints(data []byte) (domain.TrackedPoints, error) {
	if isObject(data) {
		var p domain.TrackedPoints
		if err := json.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("failed to parse points: %w", err)
		}
		return p, p.Validate()
	}

	var nested [][][]float64
	if err := json.Unmarshal(data, &nested); err != nil {
		return domain.TrackedPoints{}, fmt.Errorf("failed to parse points: %w", err)
	}
	if len(nested) == 0 {
		return domain.TrackedPoints{}, fmt.Errorf("%w: points file has no frames", domain.ErrShapeMismatch)
	}
	landmarks := len(nested[0])
	dims := 0
	if landmarks > 0 {
		dims = len(nested[0][0])
	}

	p := domain.NewTrackedPoints(len(nested), landmarks, dims)
	for f, frame := range nested {
		if len(frame) != landmarks {
			return domain.TrackedPoints{}, &domain.ShapeMismatchError{Axis: "landmarks", Got: len(frame), Want: landmarks}
		}
		for l, point := range frame {
			if len(point) != dims {
				return domain.TrackedPoints{}, &domain.ShapeMismatchError{Axis: "dims", Got: len(point), Want: dims}
			}
			for d, v := range point {
				p.Set(f, l, d, v)
			}
		}
	}
	return p, p.Validate()
}

// LoadReprojectionError reads a (frames × landmarks) error array from a JSON
// file, as a nested [frame][landmark] array or an object with flat data.
func LoadReprojectionError(path string) (domain.ReprojectionError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ReprojectionError{}, fmt.Errorf("failed to read error file: %w", err)
	}
	return ParseReprojectionError(data)
}

// ParseReprojectionError decodes either array form. See LoadReprojectionError.
// As with points, zero frames requires the object form.
func ParseReprojectionError(data []byte) (domain.ReprojectionError, error) {
	if isObject(data) {
		var e domain.ReprojectionError
		if err := json.Unmarshal(data, &e); err != nil {
			return e, fmt.Errorf("failed to parse reprojection error: %w", err)
		}
		return e, e.Validate()
	}

	var nested [][]float64
	if err := json.Unmarshal(data, &nested); err != nil {
		return domain.ReprojectionError{}, fmt.Errorf("failed to parse reprojection error: %w", err)
	}
	if len(nested) == 0 {
		return domain.ReprojectionError{}, fmt.Errorf("%w: error file has no frames", domain.ErrShapeMismatch)
	}
	landmarks := len(nested[0])
	e := domain.NewReprojectionError(len(nested), landmarks)
	for f, frame := range nested {
		if len(frame) != landmarks {
			return domain.ReprojectionError{}, &domain.ShapeMismatchError{Axis: "landmarks", Got: len(frame), Want: landmarks}
		}
		for l, v := range frame {
			e.Set(f, l, v)
		}
	}
	return e, e.Validate()
}

// WriteTrackedPoints writes p in the object form.
func WriteTrackedPoints(path string, p domain.TrackedPoints) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal points: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func isObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
