package action

// Kind names an action. The set is closed: every Kind is declared here and
// registered in families or plain.
type Kind string

// Auth
const (
	GetUser        Kind = "GET_USER"
	GetUserSuccess Kind = "GET_USER_SUCCESS"
	GetUserFailure Kind = "GET_USER_FAILURE"
)

// Camera
const (
	CameraPing        Kind = "CAMERA_PING"
	CameraPingSuccess Kind = "CAMERA_PING_SUCCESS"
	CameraPingFailure Kind = "CAMERA_PING_FAILURE"

	CameraTrigger        Kind = "CAMERA_TRIGGER"
	CameraTriggerSuccess Kind = "CAMERA_TRIGGER_SUCCESS"
	CameraTriggerFailure Kind = "CAMERA_TRIGGER_FAILURE"

	AnalyzeImage        Kind = "ANALYZE_IMAGE"
	AnalyzeImageSuccess Kind = "ANALYZE_IMAGE_SUCCESS"
	AnalyzeImageFailure Kind = "ANALYZE_IMAGE_FAILURE"

	RunAutosetup        Kind = "RUN_AUTOSETUP"
	RunAutosetupSuccess Kind = "RUN_AUTOSETUP_SUCCESS"
	RunAutosetupFailure Kind = "RUN_AUTOSETUP_FAILURE"

	CameraLocalImage Kind = "CAMERA_LOCAL_IMAGE"
	ResetAnalysis    Kind = "RESET_ANALYSIS"
	ResetAll         Kind = "RESET_ALL"
)

// Robot
const (
	GetTCP        Kind = "GET_TCP"
	GetTCPSuccess Kind = "GET_TCP_SUCCESS"
	GetTCPFailure Kind = "GET_TCP_FAILURE"

	RobotPing        Kind = "ROBOT_PING"
	RobotPingSuccess Kind = "ROBOT_PING_SUCCESS"
	RobotPingFailure Kind = "ROBOT_PING_FAILURE"

	RobotModeAuto    Kind = "ROBOT_MODE_AUTO"
	RobotModeManual  Kind = "ROBOT_MODE_MANUAL"
	RobotModeSuccess Kind = "ROBOT_MODE_SUCCESS"
	RobotModeFailure Kind = "ROBOT_MODE_FAILURE"

	RobotEnable        Kind = "ROBOT_ENABLE"
	RobotDisable       Kind = "ROBOT_DISABLE"
	RobotEnableSuccess Kind = "ROBOT_ENABLE_SUCCESS"
	RobotEnableFailure Kind = "ROBOT_ENABLE_FAILURE"

	RobotStop          Kind = "ROBOT_STOP"
	RobotReset         Kind = "ROBOT_RESET"
	RobotSafetySuccess Kind = "ROBOT_SAFETY_SUCCESS"
	RobotSafetyFailure Kind = "ROBOT_SAFETY_FAILURE"

	RobotMoveL        Kind = "ROBOT_MOVEL"
	RobotMoveLSuccess Kind = "ROBOT_MOVEL_SUCCESS"
	RobotMoveLFailure Kind = "ROBOT_MOVEL_FAILURE"

	RobotPickUnpick        Kind = "ROBOT_PICK_UNPICK"
	RobotPickUnpickSuccess Kind = "ROBOT_PICK_UNPICK_SUCCESS"
	RobotPickUnpickFailure Kind = "ROBOT_PICK_UNPICK_FAILURE"

	GetMotionParams        Kind = "ROBOT_GET_MOTION_PARAMS"
	GetMotionParamsSuccess Kind = "ROBOT_GET_MOTION_PARAMS_SUCCESS"
	GetMotionParamsFailure Kind = "ROBOT_GET_MOTION_PARAMS_FAILURE"

	SetMotionParams        Kind = "ROBOT_SET_MOTION_PARAMS"
	SetMotionParamsSuccess Kind = "ROBOT_SET_MOTION_PARAMS_SUCCESS"
	SetMotionParamsFailure Kind = "ROBOT_SET_MOTION_PARAMS_FAILURE"
)

// Application
const (
	JobStart        Kind = "JOB_START"
	JobStartSuccess Kind = "JOB_START_SUCCESS"
	JobStartFailure Kind = "JOB_START_FAILURE"

	JobStop        Kind = "JOB_STOP"
	JobStopSuccess Kind = "JOB_STOP_SUCCESS"
	JobStopFailure Kind = "JOB_STOP_FAILURE"

	// Dispatched only by the status poller.
	JobStatusSuccess Kind = "JOB_STATUS_SUCCESS"
	JobStatusFailure Kind = "JOB_STATUS_FAILURE"

	DXFPreview        Kind = "DXF_PREVIEW"
	DXFPreviewSuccess Kind = "DXF_PREVIEW_SUCCESS"
	DXFPreviewFailure Kind = "DXF_PREVIEW_FAILURE"

	DXFDraw        Kind = "DXF_DRAW"
	DXFDrawSuccess Kind = "DXF_DRAW_SUCCESS"
	DXFDrawFailure Kind = "DXF_DRAW_FAILURE"

	DXFReset         Kind = "DXF_RESET"
	SetPriorityOrder Kind = "SET_PRIORITY_ORDER"
)

// Notification and UI
const (
	ShowNotification Kind = "SHOW_NOTIFICATION"
	HideNotification Kind = "HIDE_NOTIFICATION"
	SetUIMode        Kind = "SET_UI_MODE"
)

// Family groups the request kinds of one intent with their outcomes. Some
// intents share outcomes, e.g. enable and disable both end in
// ROBOT_ENABLE_SUCCESS or ROBOT_ENABLE_FAILURE.
type Family struct {
	Name     string
	Requests []Kind
	Success  Kind
	Failure  Kind
}

var families = []Family{
	{"user", []Kind{GetUser}, GetUserSuccess, GetUserFailure},
	{"camera-ping", []Kind{CameraPing}, CameraPingSuccess, CameraPingFailure},
	{"camera-trigger", []Kind{CameraTrigger}, CameraTriggerSuccess, CameraTriggerFailure},
	{"analyze", []Kind{AnalyzeImage}, AnalyzeImageSuccess, AnalyzeImageFailure},
	{"autosetup", []Kind{RunAutosetup}, RunAutosetupSuccess, RunAutosetupFailure},
	{"tcp", []Kind{GetTCP}, GetTCPSuccess, GetTCPFailure},
	{"robot-ping", []Kind{RobotPing}, RobotPingSuccess, RobotPingFailure},
	{"robot-mode", []Kind{RobotModeAuto, RobotModeManual}, RobotModeSuccess, RobotModeFailure},
	{"robot-enable", []Kind{RobotEnable, RobotDisable}, RobotEnableSuccess, RobotEnableFailure},
	{"robot-safety", []Kind{RobotStop, RobotReset}, RobotSafetySuccess, RobotSafetyFailure},
	{"movel", []Kind{RobotMoveL}, RobotMoveLSuccess, RobotMoveLFailure},
	{"pick-unpick", []Kind{RobotPickUnpick}, RobotPickUnpickSuccess, RobotPickUnpickFailure},
	{"motion-params-get", []Kind{GetMotionParams}, GetMotionParamsSuccess, GetMotionParamsFailure},
	{"motion-params-set", []Kind{SetMotionParams}, SetMotionParamsSuccess, SetMotionParamsFailure},
	{"job-start", []Kind{JobStart}, JobStartSuccess, JobStartFailure},
	{"job-stop", []Kind{JobStop}, JobStopSuccess, JobStopFailure},
	{"job-status", nil, JobStatusSuccess, JobStatusFailure},
	{"dxf-preview", []Kind{DXFPreview}, DXFPreviewSuccess, DXFPreviewFailure},
	{"dxf-draw", []Kind{DXFDraw}, DXFDrawSuccess, DXFDrawFailure},
}

// plain kinds carry no request/response cycle.
var plain = []Kind{
	CameraLocalImage, ResetAnalysis, ResetAll,
	DXFReset, SetPriorityOrder,
	ShowNotification, HideNotification, SetUIMode,
}

// Role classifies a Kind within its family.
type Role int

const (
	RoleUnknown Role = iota
	RoleRequest
	RoleSuccess
	RoleFailure
	RolePlain
)

var (
	roles    = map[Kind]Role{}
	familyOf = map[Kind]*Family{}
)

func init() {
	for i := range families {
		f := &families[i]
		for _, k := range f.Requests {
			roles[k] = RoleRequest
			familyOf[k] = f
		}
		roles[f.Success] = RoleSuccess
		roles[f.Failure] = RoleFailure
		familyOf[f.Success] = f
		familyOf[f.Failure] = f
	}
	for _, k := range plain {
		roles[k] = RolePlain
	}
}

// Role returns how k participates in its family.
func (k Kind) Role() Role {
	return roles[k]
}

// Known reports whether k is part of the vocabulary.
func (k Kind) Known() bool {
	return roles[k] != RoleUnknown
}

// Family returns the family of a request or outcome kind.
func (k Kind) Family() (Family, bool) {
	f, ok := familyOf[k]
	if !ok {
		return Family{}, false
	}
	return *f, true
}

// Families returns a copy of the family table.
func Families() []Family {
	out := make([]Family, len(families))
	copy(out, families)
	return out
}

// All returns every declared kind.
func All() []Kind {
	kinds := make([]Kind, 0, len(roles))
	for _, f := range families {
		kinds = append(kinds, f.Requests...)
		kinds = append(kinds, f.Success, f.Failure)
	}
	return append(kinds, plain...)
}
