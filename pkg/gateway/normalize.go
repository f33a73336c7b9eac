package gateway

import (
	"encoding/json"
	"strconv"

	"github.com/grovetools/cellconsole/pkg/models"
)

type rawObject struct {
	ID         *models.ID         `json:"id"`
	CenterPx   *models.Point      `json:"center_px"`
	ContourPx  []models.Point     `json:"contour_px"`
	BoxPx      []models.Point     `json:"box_px"`
	EdgesPx    []models.Point     `json:"edges_px"`
	Inspection *models.Inspection `json:"inspection"`
	Target     *rawTarget         `json:"target"`
	DistanceMM float64            `json:"distance_mm"`
	ThetaRect  float64            `json:"theta_rect"`
	ThetaPCA   float64            `json:"theta_pca"`
	OCR        string             `json:"ocr"`
}

// rawTarget accepts both {x, y, rz} and the older {target_X, target_Y, Rz}.
type rawTarget struct {
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	RZ      *float64 `json:"rz"`
	TargetX *float64 `json:"target_X"`
	TargetY *float64 `json:"target_Y"`
	LegRZ   *float64 `json:"Rz"`
}

type rawAnalysis struct {
	rawObject
	Success        *bool          `json:"success"`
	Reason         string         `json:"reason"`
	StaticCenterPx *models.Point  `json:"static_center_px"`
	Objects        []rawObject    `json:"objects"`
	Groups         []models.Group `json:"groups"`
}

// NormalizeAnalysis turns a single-object or multi-object analysis body into
// the uniform list-of-objects shape. Objects without an id are numbered
// from 1 in the order received.
func NormalizeAnalysis(data []byte) (*models.AnalysisResult, error) {
	var raw rawAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{
		Success:        raw.Success == nil || *raw.Success,
		Reason:         raw.Reason,
		StaticCenterPx: raw.StaticCenterPx,
		Groups:         raw.Groups,
		Objects:        []models.DetectedObject{},
	}

	objects := raw.Objects
	if len(objects) == 0 && raw.rawObject.hasGeometry() {
		objects = []rawObject{raw.rawObject}
	}
	for i, o := range objects {
		result.Objects = append(result.Objects, o.normalize(i+1))
	}
	return result, nil
}

func (o rawObject) hasGeometry() bool {
	return o.CenterPx != nil || len(o.ContourPx) > 0 || len(o.BoxPx) > 0 || len(o.EdgesPx) > 0
}

func (o rawObject) normalize(fallbackID int) models.DetectedObject {
	obj := models.DetectedObject{
		ID:         fallbackID,
		CenterPx:   o.CenterPx,
		ContourPx:  o.ContourPx,
		BoxPx:      o.BoxPx,
		EdgesPx:    o.EdgesPx,
		Inspection: o.Inspection,
		DistanceMM: o.DistanceMM,
		ThetaRect:  o.ThetaRect,
		ThetaPCA:   o.ThetaPCA,
		OCR:        o.OCR,
	}
	if o.ID != nil {
		if n, err := strconv.Atoi(string(*o.ID)); err == nil {
			obj.ID = n
		}
	}
	if o.Target != nil {
		obj.Target = o.Target.normalize()
	}
	return obj
}

func (t rawTarget) normalize() *models.Target {
	pick := func(a, b *float64) float64 {
		if a != nil {
			return *a
		}
		if b != nil {
			return *b
		}
		return 0
	}
	return &models.Target{
		X:  pick(t.X, t.TargetX),
		Y:  pick(t.Y, t.TargetY),
		RZ: pick(t.RZ, t.LegRZ),
	}
}

func jsonBytes(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
