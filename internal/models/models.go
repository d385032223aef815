package models

// PageState is a point-in-time copy of a visitor's landing page state.
type PageState struct {
	Email       string `json:"email"`
	IsSubmitted bool   `json:"isSubmitted"`
	IsPlaying   bool   `json:"isPlaying"`
	IsLocked    bool   `json:"isLocked"`
	IsLoading   bool   `json:"isLoading"`
	Alert       string `json:"alert,omitempty"`
}

// FormDisabled reports whether the email input and the submit control are locked.
func (s PageState) FormDisabled() bool {
	return s.IsLoading || s.IsSubmitted
}

// SubmitLabel returns the text shown on the submit button.
func (s PageState) SubmitLabel() string {
	switch {
	case s.IsLoading:
		return "Joining..."
	case s.IsSubmitted:
		return "Added"
	default:
		return "Join"
	}
}

// LockLabel returns the text shown on the privacy toggle.
func (s PageState) LockLabel() string {
	if s.IsLocked {
		return "Privacy Locked"
	}
	return "System Open"
}

// LockIcon returns the glyph shown next to the privacy label.
func (s PageState) LockIcon() string {
	if s.IsLocked {
		return "🔒"
	}
	return "🔓"
}

// VideoLabel returns the text shown on the video toggle.
func (s PageState) VideoLabel() string {
	if s.IsPlaying {
		return "Pause"
	}
	return "Play"
}
