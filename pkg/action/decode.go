package action

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/grovetools/cellconsole/pkg/models"
)

// payloadTypes maps externally dispatchable kinds to their payload type.
// A nil entry means the kind takes no payload.
var payloadTypes = map[Kind]reflect.Type{
	GetUser:          nil,
	CameraPing:       nil,
	CameraTrigger:    reflect.TypeOf(TriggerCamera{}),
	AnalyzeImage:     reflect.TypeOf(Analyze{}),
	RunAutosetup:     nil,
	CameraLocalImage: reflect.TypeOf(LocalImage{}),
	ResetAnalysis:    nil,
	ResetAll:         nil,
	GetTCP:           nil,
	RobotPing:        nil,
	RobotModeAuto:    nil,
	RobotModeManual:  nil,
	RobotEnable:      nil,
	RobotDisable:     nil,
	RobotStop:        nil,
	RobotReset:       nil,
	RobotMoveL:       reflect.TypeOf(MoveL{}),
	RobotPickUnpick:  nil,
	GetMotionParams:  nil,
	SetMotionParams:  reflect.TypeOf(models.MotionParams{}),
	JobStart:         reflect.TypeOf(Job{}),
	JobStop:          reflect.TypeOf(Job{}),
	DXFPreview:       reflect.TypeOf(DXFFile{}),
	DXFDraw:          reflect.TypeOf(models.DrawParams{}),
	DXFReset:         nil,
	SetPriorityOrder: reflect.TypeOf(PriorityOrder{}),
	ShowNotification: reflect.TypeOf(Notification{}),
	HideNotification: reflect.TypeOf(Hide{}),
	SetUIMode:        reflect.TypeOf(models.UIMode("")),
}

type envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode parses {"kind": ..., "payload": ...} from an external client.
// Only request and plain kinds are accepted; outcomes are produced by the
// engine alone.
func Decode(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Action{}, fmt.Errorf("malformed action: %w", err)
	}
	if !env.Kind.Known() {
		return Action{}, fmt.Errorf("unknown action kind %q", env.Kind)
	}
	typ, ok := payloadTypes[env.Kind]
	if !ok {
		return Action{}, fmt.Errorf("%s cannot be dispatched externally", env.Kind)
	}
	if typ == nil {
		return Of(env.Kind), nil
	}

	ptr := reflect.New(typ)
	if len(env.Payload) > 0 && string(env.Payload) != "null" {
		if err := json.Unmarshal(env.Payload, ptr.Interface()); err != nil {
			return Action{}, fmt.Errorf("invalid %s payload: %w", env.Kind, err)
		}
	}
	payload := ptr.Elem().Interface()

	switch p := payload.(type) {
	case Notification:
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		payload = p
	case models.UIMode:
		if !p.Valid() {
			return Action{}, fmt.Errorf("unknown ui mode %q", string(p))
		}
	case Job:
		if _, err := p.Job.Slot(); err != nil {
			return Action{}, err
		}
	}
	return New(env.Kind, payload), nil
}
