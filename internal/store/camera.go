package store

import (
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

// ReduceCamera handles capture, analysis and autosetup. Failures set Error
// and leave the last image and analysis in place.
func ReduceCamera(s CameraState, a action.Action) CameraState {
	switch a.Kind {
	case action.CameraPingSuccess:
		if res, ok := a.Payload.(models.PingResult); ok {
			s.Connected = res.Connected
		}
	case action.CameraPingFailure:
		s.Connected = false
		s.Error = failureOf(a)

	case action.CameraTrigger:
		s.Capturing = true
		s.Error = nil
	case action.CameraTriggerSuccess:
		capture, ok := a.Payload.(models.CameraCapture)
		if !ok {
			return s
		}
		s.Capturing = false
		s.Capture = &capture
		s.ImageBase64 = capture.ImageBase64
		s.ImageName = ""
	case action.CameraTriggerFailure:
		s.Capturing = false
		s.Error = failureOf(a)

	case action.CameraLocalImage:
		img, ok := a.Payload.(action.LocalImage)
		if !ok {
			return s
		}
		s.Capturing = false
		s.ImageBase64 = img.ImageBase64
		s.ImageName = img.Name
		if s.Capture != nil {
			capture := *s.Capture
			capture.ImageBase64 = img.ImageBase64
			s.Capture = &capture
		} else {
			s.Capture = &models.CameraCapture{ImageBase64: img.ImageBase64}
		}

	case action.AnalyzeImage:
		s.Analyzing = true
		s.Error = nil
	case action.AnalyzeImageSuccess:
		res, ok := a.Payload.(*models.AnalysisResult)
		if !ok {
			return s
		}
		s.Analyzing = false
		s.Analysis = res
	case action.AnalyzeImageFailure:
		s.Analyzing = false
		s.Error = failureOf(a)

	case action.RunAutosetup:
		s.AutosetupRunning = true
		s.Error = nil
	case action.RunAutosetupSuccess:
		s.AutosetupRunning = false
		if res, ok := a.Payload.(map[string]interface{}); ok {
			s.Autosetup = res
		}
	case action.RunAutosetupFailure:
		s.AutosetupRunning = false
		s.Error = failureOf(a)

	case action.ResetAnalysis:
		s.Analyzing = false
		s.Analysis = nil
		s.Error = nil
	}
	return s
}
