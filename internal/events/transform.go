package events

import "time"

// TransformStart is emitted before a schema transformation pass.
type TransformStart struct {
	Sources      int
	Transformers []string
}

// DirectiveApplied is emitted after a transformer hook handles a directive.
type DirectiveApplied struct {
	Transformer string
	Directive   string
	Kind        string
	Parent      string
	Field       string
	Err         error
}

// TransformFinish is emitted when a transformation pass completes or fails.
type TransformFinish struct {
	Types    int
	Err      error
	Duration time.Duration
}
