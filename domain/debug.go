package domain

// StepFailure captures one failed pipeline step for forensics. Trace carries
// a goroutine stack when the failure came out of a recovered panic.
type StepFailure struct {
	Step  string `json:"step"`
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Trace string `json:"trace,omitempty"`
}

type ProbeInfo struct {
	DurationSeconds *float64 `json:"duration_sec,omitempty"`
}

type UploadInfo struct {
	Filename            string   `json:"filename,omitempty"`
	Size                int64    `json:"size,omitempty"`
	ContentType         string   `json:"content_type,omitempty"`
	MaxBytes            int64    `json:"max_bytes,omitempty"`
	AllowedContentTypes []string `json:"allowed_content_types,omitempty"`
	Note                string   `json:"note,omitempty"`
}

type ProviderInfo struct {
	Name   string `json:"name,omitempty"`
	Status string `json:"status,omitempty"`
	Effect string `json:"effect,omitempty"`
	Error  string `json:"error,omitempty"`
}

type StandardizeInfo struct {
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type ResolutionInfo struct {
	RequestedVoiceID string `json:"requested_voice_id,omitempty"`
	ResolvedVoiceID  string `json:"resolved_voice_id,omitempty"`
	Source           string `json:"source,omitempty"`
}

type DemoInfo struct {
	Enabled          bool   `json:"enabled"`
	Strategy         string `json:"strategy,omitempty"`
	MappedVoiceID    string `json:"mapped_voice_id,omitempty"`
	ForcePassthrough bool   `json:"force_passthrough,omitempty"`
}

// Debug accumulates per-concern diagnostic records over the life of one task.
// Entries are additive: sub-records are merged field by field, never replaced
// wholesale, and the error list only ever grows.
type Debug struct {
	Probe           *ProbeInfo         `json:"probe,omitempty"`
	Upload          *UploadInfo        `json:"upload,omitempty"`
	Provider        *ProviderInfo      `json:"provider,omitempty"`
	Standardize     *StandardizeInfo   `json:"standardize,omitempty"`
	Timing          map[string]float64 `json:"timing,omitempty"`
	Errors          []StepFailure      `json:"errors,omitempty"`
	VoiceResolution *ResolutionInfo    `json:"voice_resolution,omitempty"`
	Demo            *DemoInfo          `json:"demo,omitempty"`
}

func (d *Debug) SetProbeDuration(seconds float64) {
	if d.Probe == nil {
		d.Probe = &ProbeInfo{}
	}
	d.Probe.DurationSeconds = &seconds
}

func (d *Debug) SetUpload(info UploadInfo) {
	if d.Upload == nil {
		d.Upload = &UploadInfo{}
	}
	if info.Filename != "" {
		d.Upload.Filename = info.Filename
	}
	if info.Size != 0 {
		d.Upload.Size = info.Size
	}
	if info.ContentType != "" {
		d.Upload.ContentType = info.ContentType
	}
	if info.MaxBytes != 0 {
		d.Upload.MaxBytes = info.MaxBytes
	}
	if len(info.AllowedContentTypes) != 0 {
		d.Upload.AllowedContentTypes = info.AllowedContentTypes
	}
	if info.Note != "" {
		d.Upload.Note = info.Note
	}
}

// MergeProvider updates provider diagnostics field by field so consecutive
// updates within one request accumulate instead of clobbering each other.
func (d *Debug) MergeProvider(info ProviderInfo) {
	if d.Provider == nil {
		d.Provider = &ProviderInfo{}
	}
	if info.Name != "" {
		d.Provider.Name = info.Name
	}
	if info.Status != "" {
		d.Provider.Status = info.Status
	}
	if info.Effect != "" {
		d.Provider.Effect = info.Effect
	}
	if info.Error != "" {
		d.Provider.Error = info.Error
	}
}

func (d *Debug) SetStandardize(skipped bool, reason string) {
	if d.Standardize == nil {
		d.Standardize = &StandardizeInfo{}
	}
	d.Standardize.Skipped = skipped
	if reason != "" {
		d.Standardize.Reason = reason
	}
}

func (d *Debug) AddTiming(step string, seconds float64) {
	if d.Timing == nil {
		d.Timing = map[string]float64{}
	}
	d.Timing[step] = seconds
}

func (d *Debug) AppendError(failure StepFailure) {
	d.Errors = append(d.Errors, failure)
}

func (d *Debug) SetResolution(info ResolutionInfo) {
	d.VoiceResolution = &info
}

func (d *Debug) SetDemo(info DemoInfo) {
	d.Demo = &info
}
