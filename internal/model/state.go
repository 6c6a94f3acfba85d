package model

import "fyne.io/fyne/v2/data/binding"

// ApplicationState represents the centralized UI state with Fyne data
// bindings. All panels bind to these values for reactive updates; the
// workspace tree itself lives in the store, not here.
type ApplicationState struct {
	// Selection state
	SelectedActivityID binding.String

	// Request/Response state
	Request  *RequestState
	Response *ResponseState

	// AI assistant state
	AI *AIState

	// GitHub sync state
	Sync *SyncState
}

// NewApplicationState creates a new ApplicationState with initialized bindings.
func NewApplicationState() *ApplicationState {
	return &ApplicationState{
		SelectedActivityID: binding.NewString(),
		Request:            NewRequestState(),
		Response:           NewResponseState(),
		AI:                 NewAIState(),
		Sync:               NewSyncState(),
	}
}

// RequestState represents the state of the request panel.
type RequestState struct {
	Method binding.String
	URL    binding.String
	Body   binding.String
}

// NewRequestState creates a new RequestState with initialized bindings.
func NewRequestState() *RequestState {
	method := binding.NewString()
	_ = method.Set("GET") // Default method

	return &RequestState{
		Method: method,
		URL:    binding.NewString(),
		Body:   binding.NewString(),
	}
}

// ResponseState represents the state of the response panel.
type ResponseState struct {
	StatusLine binding.String // e.g. "200 OK"
	TextData   binding.String // Response body
	Loading    binding.Bool   // Whether a request is in flight
	Error      binding.String // Error message if the request failed
	Duration   binding.String // e.g. "123ms"
	Size       binding.String // e.g. "1.2 KB"
}

// NewResponseState creates a new ResponseState with initialized bindings.
func NewResponseState() *ResponseState {
	loading := binding.NewBool()
	_ = loading.Set(false)

	return &ResponseState{
		StatusLine: binding.NewString(),
		TextData:   binding.NewString(),
		Loading:    loading,
		Error:      binding.NewString(),
		Duration:   binding.NewString(),
		Size:       binding.NewString(),
	}
}

// AIState represents the state of the AI assistant panel.
type AIState struct {
	Explanation binding.String
	Thinking    binding.Bool
}

// NewAIState creates a new AIState with initialized bindings.
func NewAIState() *AIState {
	thinking := binding.NewBool()
	_ = thinking.Set(false)

	return &AIState{
		Explanation: binding.NewString(),
		Thinking:    thinking,
	}
}

// SyncState represents the UI state for GitHub sync status display.
// States: "idle", "pulling", "pushing", "error"
type SyncState struct {
	State   binding.String
	Message binding.String
}

// NewSyncState creates a new SyncState with initialized bindings.
func NewSyncState() *SyncState {
	state := binding.NewString()
	_ = state.Set("idle")

	return &SyncState{
		State:   state,
		Message: binding.NewString(),
	}
}
