package exporter

// ProgressEvent one step of a workbook export
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
}

// reportProgress calls progress, if set, with percent clamped to 0..100
func reportProgress(progress func(ProgressEvent), percent int, stage string) {
	if progress != nil {
		progress(ProgressEvent{Percent: max(0, min(percent, 100)), Stage: stage})
	}
}
