package store

import (
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

// ReduceApp handles jobs, DXF paths and the committed priority order.
func ReduceApp(s AppState, a action.Action) AppState {
	switch a.Kind {
	case action.JobStart:
		s.Loading = true
		s.Error = nil
	case action.JobStartSuccess:
		ack, ok := a.Payload.(action.JobAck)
		if !ok {
			return s
		}
		s.Loading = false
		s.Running = true
		s.Job = ack.Job
		s.Message = ack.Ack.Message
	case action.JobStartFailure:
		s.Loading = false
		s.Running = false
		s.Error = failureOf(a)

	case action.JobStop:
		s.Loading = true
	case action.JobStopSuccess:
		ack, ok := a.Payload.(action.JobAck)
		if !ok {
			return s
		}
		s.Loading = false
		s.Running = false
		s.Message = ack.Ack.Message
	case action.JobStopFailure:
		s.Loading = false
		s.Error = failureOf(a)

	case action.JobStatusSuccess:
		p, ok := a.Payload.(action.JobStatus)
		if !ok {
			return s
		}
		return mergeStatus(s, p)
	case action.JobStatusFailure:
		s.Error = failureOf(a)

	case action.DXFPreview, action.DXFDraw:
		s.Loading = true
		s.Error = nil
	case action.DXFPreviewSuccess:
		set, ok := a.Payload.(models.PathSet)
		if !ok {
			return s
		}
		s.Loading = false
		s.PreviewPaths = set.Paths
		if set.Origin != nil {
			s.Origin = set.Origin
		}
	case action.DXFDrawSuccess:
		set, ok := a.Payload.(models.PathSet)
		if !ok {
			return s
		}
		s.Loading = false
		s.DrawPaths = set.Paths
		s.Origin = set.Origin
		s.Params = set.Params
		s.PathCount = set.PathCount
	case action.DXFPreviewFailure, action.DXFDrawFailure:
		s.Loading = false
		s.Error = failureOf(a)
	case action.DXFReset:
		s.Loading = false
		s.PreviewPaths = nil
		s.DrawPaths = nil
		s.Origin = nil
		s.Params = nil
		s.PathCount = 0
		s.Error = nil

	case action.SetPriorityOrder:
		if p, ok := a.Payload.(action.PriorityOrder); ok {
			s.PriorityOrder = p.Order
		}

	case action.ResetAnalysis:
		s.ImageBase64 = ""
		s.Analysis = nil
		s.TargetPose = nil
		s.Error = nil
	}
	return s
}

// mergeStatus folds one status poll into the job state. The raw payload is
// merged key by key; the known fields are lifted when present.
func mergeStatus(s AppState, p action.JobStatus) AppState {
	st := p.Status

	merged := make(map[string]interface{}, len(s.Status)+len(st.Fields))
	for k, v := range s.Status {
		merged[k] = v
	}
	for k, v := range st.Fields {
		merged[k] = v
	}
	s.Status = merged
	s.Job = p.Job

	if st.AutoRun != nil {
		s.Running = *st.AutoRun
	}
	if st.Stage != "" {
		s.Stage = st.Stage
	}
	if st.ImageBase64 != "" {
		s.ImageBase64 = st.ImageBase64
	}
	if st.Analysis != nil {
		s.Analysis = st.Analysis
	}
	if st.TargetPose != nil {
		s.TargetPose = st.TargetPose
	}
	if st.TCP != nil {
		s.TCP = st.TCP
	}
	s.Error = nil
	return s
}
