package events

const (
	// KindToolCallRequested identifies the model requesting an action.
	KindToolCallRequested Kind = "tool_call.requested"
	// KindToolConfirmationRequired identifies a confirmation-gated action.
	KindToolConfirmationRequired Kind = "tool_call.confirmation_required"
	// KindToolCallExecuted identifies successful action execution.
	KindToolCallExecuted Kind = "tool_call.executed"
	// KindToolCallFailed identifies action executor failure.
	KindToolCallFailed Kind = "tool_call.failed"
	// KindToolCallDenied identifies user cancellation of a gated action.
	KindToolCallDenied Kind = "tool_call.denied"
	// KindToolCallSuperseded identifies replacement of a pending action.
	KindToolCallSuperseded Kind = "tool_call.superseded"
)

// ToolCallRequested marks the model requesting an action.
type ToolCallRequested struct {
	Base
	CallID    string
	Name      string
	Arguments string
}

// NewToolCallRequested creates a tool call requested event.
func NewToolCallRequested(callID, name, arguments string) ToolCallRequested {
	return ToolCallRequested{Base: NewBase(KindToolCallRequested), CallID: callID, Name: name, Arguments: arguments}
}

// ToolConfirmationRequired marks an action waiting on user confirmation.
type ToolConfirmationRequired struct {
	Base
	CallID  string
	Name    string
	Preview string
}

// NewToolConfirmationRequired creates a confirmation required event.
func NewToolConfirmationRequired(callID, name, preview string) ToolConfirmationRequired {
	return ToolConfirmationRequired{Base: NewBase(KindToolConfirmationRequired), CallID: callID, Name: name, Preview: preview}
}

// ToolCallExecuted marks successful action execution.
type ToolCallExecuted struct {
	Base
	CallID string
	Name   string
	Output string
}

// NewToolCallExecuted creates a tool call executed event.
func NewToolCallExecuted(callID, name, output string) ToolCallExecuted {
	return ToolCallExecuted{Base: NewBase(KindToolCallExecuted), CallID: callID, Name: name, Output: output}
}

// ToolCallFailed marks failed action execution.
type ToolCallFailed struct {
	Base
	CallID string
	Name   string
	Error  string
}

// NewToolCallFailed creates a tool call failed event.
func NewToolCallFailed(callID, name, err string) ToolCallFailed {
	return ToolCallFailed{Base: NewBase(KindToolCallFailed), CallID: callID, Name: name, Error: err}
}

// ToolCallDenied marks user cancellation of a gated action.
type ToolCallDenied struct {
	Base
	CallID string
	Name   string
}

// NewToolCallDenied creates a tool call denied event.
func NewToolCallDenied(callID, name string) ToolCallDenied {
	return ToolCallDenied{Base: NewBase(KindToolCallDenied), CallID: callID, Name: name}
}

// ToolCallSuperseded marks a pending action replaced by a newer request.
type ToolCallSuperseded struct {
	Base
	CallID string
	Name   string
}

// NewToolCallSuperseded creates a tool call superseded event.
func NewToolCallSuperseded(callID, name string) ToolCallSuperseded {
	return ToolCallSuperseded{Base: NewBase(KindToolCallSuperseded), CallID: callID, Name: name}
}
