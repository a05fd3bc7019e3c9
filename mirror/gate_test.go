package mirror

import "testing"

func TestGate_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
		want  State
	}{
		{"load incomplete prompts", StateUnknown, ProfileLoaded{Progress: 40, HasProfile: true}, StateShouldPrompt},
		{"load missing profile prompts", StateUnknown, ProfileLoaded{HasProfile: false}, StateShouldPrompt},
		{"load complete suppresses", StateUnknown, ProfileLoaded{Progress: 83, HasProfile: true}, StateSuppressed},
		{"load at threshold suppresses", StateUnknown, ProfileLoaded{Progress: 80, HasProfile: true}, StateSuppressed},
		{"load just below threshold prompts", StateUnknown, ProfileLoaded{Progress: 79, HasProfile: true}, StateShouldPrompt},

		// Re-navigation must not re-prompt once evaluated.
		{"reload after suppression ignored", StateSuppressed, ProfileLoaded{Progress: 40, HasProfile: true}, StateSuppressed},
		{"reload while prompting ignored", StateShouldPrompt, ProfileLoaded{Progress: 90, HasProfile: true}, StateShouldPrompt},

		{"dismissal suppresses", StateShouldPrompt, PromptDismissed{}, StateSuppressed},
		{"dismissal without prompt is a no-op", StateUnknown, PromptDismissed{}, StateUnknown},

		{"update crossing threshold suppresses", StateShouldPrompt, ProgressUpdated{Progress: 83}, StateSuppressed},
		{"update crossing threshold suppresses from unknown", StateUnknown, ProgressUpdated{Progress: 80}, StateSuppressed},
		{"update below threshold keeps prompting", StateShouldPrompt, ProgressUpdated{Progress: 68}, StateShouldPrompt},
		{"update below threshold keeps suppression", StateSuppressed, ProgressUpdated{Progress: 68}, StateSuppressed},

		{"logout resets from prompt", StateShouldPrompt, SessionReset{}, StateUnknown},
		{"logout resets from suppressed", StateSuppressed, SessionReset{}, StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(tt.state, tt.event); got != tt.want {
				t.Errorf("Next(%v, %#v) = %v, want %v", tt.state, tt.event, got, tt.want)
			}
		})
	}
}

// A full session: load below threshold, dismiss, update past the
// threshold, then logout.
func TestGate_SessionFlow(t *testing.T) {
	s := StateUnknown

	s = Next(s, ProfileLoaded{Progress: 25, HasProfile: true})
	if s != StateShouldPrompt {
		t.Fatalf("after load: %v", s)
	}

	s = Next(s, PromptDismissed{})
	if s != StateSuppressed {
		t.Fatalf("after dismissal: %v", s)
	}

	s = Next(s, ProgressUpdated{Progress: 50})
	if s != StateSuppressed {
		t.Fatalf("after partial update: %v", s)
	}

	s = Next(s, ProgressUpdated{Progress: 83})
	if s != StateSuppressed {
		t.Fatalf("after completion: %v", s)
	}

	s = Next(s, SessionReset{})
	if s != StateUnknown {
		t.Fatalf("after logout: %v", s)
	}
}
