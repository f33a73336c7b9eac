package models

// CameraCapture is the camera/trigger answer.
type CameraCapture struct {
	ImageBase64   string                 `json:"image_base64"`
	ScaleXPxPerMM float64                `json:"scale_x_px_per_mm,omitempty"`
	ScaleYPxPerMM float64                `json:"scale_y_px_per_mm,omitempty"`
	Fields        map[string]interface{} `json:"fields,omitempty"`
}

// AnalyzeRequest is the camera/analyze body.
type AnalyzeRequest struct {
	ImageBase64 string    `json:"image_base64"`
	TCP         []float64 `json:"tcp"`
	WhiteThresh int       `json:"white_thresh"`
	AutoThresh  bool      `json:"auto_thresh"`
	EnableEdges bool      `json:"enable_edges"`
}

// AnalysisResult is the normalized analysis: the backend's single-object
// and multi-object answers both become a list of objects.
type AnalysisResult struct {
	Success        bool             `json:"success"`
	Reason         string           `json:"reason,omitempty"`
	StaticCenterPx *Point           `json:"static_center_px,omitempty"`
	Objects        []DetectedObject `json:"objects"`
	Groups         []Group          `json:"groups,omitempty"`
}

// DetectedObject holds pixel-space geometry and physical measurements for
// one object. Geometry is in the image's native pixel space.
type DetectedObject struct {
	ID         int         `json:"id"`
	CenterPx   *Point      `json:"center_px,omitempty"`
	ContourPx  []Point     `json:"contour_px,omitempty"`
	BoxPx      []Point     `json:"box_px,omitempty"`
	EdgesPx    []Point     `json:"edges_px,omitempty"`
	Inspection *Inspection `json:"inspection,omitempty"`
	Target     *Target     `json:"target,omitempty"`
	DistanceMM float64     `json:"distance_mm,omitempty"`
	ThetaRect  float64     `json:"theta_rect,omitempty"`
	ThetaPCA   float64     `json:"theta_pca,omitempty"`
	OCR        string      `json:"ocr,omitempty"`
}

// HasHoles reports whether the object carries circular-hole measurements.
func (o DetectedObject) HasHoles() bool {
	return o.Inspection != nil && len(o.Inspection.Holes) > 0
}

// Inspection are the physical measurements. EdgesMM[i] is the length of the
// edge from EdgesPx[i] to EdgesPx[i+1] (wrapping).
type Inspection struct {
	EdgesMM     []float64 `json:"edges_mm,omitempty"`
	Holes       []Hole    `json:"holes,omitempty"`
	WidthMM     *float64  `json:"width_mm,omitempty"`
	HeightMM    *float64  `json:"height_mm,omitempty"`
	AreaMM2     *float64  `json:"area_mm2,omitempty"`
	PerimeterMM *float64  `json:"perimeter_mm,omitempty"`
}

// Hole is a circular feature.
type Hole struct {
	CenterPx   Point   `json:"center_px"`
	DiameterMM float64 `json:"diameter_mm"`
}

// Target is the robot pose computed for picking the object.
type Target struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	RZ float64 `json:"rz"`
}

// Group is a backend cluster of objects picked together.
type Group struct {
	GroupID   ID   `json:"group_id"`
	ObjectIDs []ID `json:"object_ids"`
}
