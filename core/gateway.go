package voicesession

import (
	"encoding/json"
	"fmt"

	"github.com/songbird-voice/songbird-core/core/events"
	"github.com/songbird-voice/songbird-core/core/tools"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// deniedOutput is the function-call output sent for a cancelled action. The
// model treats it as the action's result and explains the denial to the user.
const deniedOutput = "User denied this action."

// supersededOutput resolves a pending action that was replaced before the
// user answered. Every function call gets exactly one output, including ones
// that never ran.
const supersededOutput = "This action was superseded by a newer action request and was not executed."

// pendingConfirmation is the single action waiting on user approval. A newer
// gated request replaces it; there is never more than one.
type pendingConfirmation struct {
	callID    string
	name      string
	arguments string
}

// handleFunctionCall routes a model function call: reserved names resolve
// the pending confirmation, auto-execute actions run immediately, and gated
// actions wait for the user. It runs synchronously on the socket dispatch
// path so back-to-back calls classify and gate in arrival order; only the
// executor run itself is pushed onto a goroutine.
func (e *Engine) handleFunctionCall(callID, name, arguments string) {
	e.emit(events.NewToolCallRequested(callID, name, arguments))

	switch name {
	case tools.NameConfirmAction:
		e.Confirm(referencedCallID(arguments, e.pendingCallID()))
		e.sendActionOutput(callID, "ok")
		return
	case tools.NameCancelAction:
		e.Cancel(referencedCallID(arguments, e.pendingCallID()))
		e.sendActionOutput(callID, "ok")
		return
	}

	spec, ok := e.registry.Lookup(name)
	if !ok {
		e.sendActionOutput(callID, fmt.Sprintf("Unknown action: %s", name))
		e.emit(events.NewToolCallFailed(callID, name, "unknown action"))
		return
	}

	if spec.Mode == tools.RequiresConfirmation {
		e.gate(callID, spec, arguments)
		return
	}

	e.runAction(callID, spec.Name, arguments)
}

// runAction executes off the calling goroutine so a slow executor never
// stalls socket dispatch.
func (e *Engine) runAction(callID, name, arguments string) {
	e.actionWG.Add(1)
	go func() {
		defer e.actionWG.Done()
		e.execute(callID, name, arguments)
	}()
}

// gate parks a confirmation-required action and asks the user. Any action
// already waiting is resolved as superseded first.
func (e *Engine) gate(callID string, spec tools.Spec, arguments string) {
	preview := spec.PreviewText(arguments)

	e.mu.Lock()
	superseded := e.pending
	e.pending = &pendingConfirmation{callID: callID, name: spec.Name, arguments: arguments}
	ctx := e.baseContext
	e.mu.Unlock()

	if superseded != nil {
		e.sendActionOutput(superseded.callID, supersededOutput)
		e.gateOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "superseded")))
		e.emit(events.NewToolCallSuperseded(superseded.callID, superseded.name))
	}

	e.emit(events.NewToolConfirmationRequired(callID, spec.Name, preview))
}

// Confirm approves the pending action. A callID that does not match the
// pending action is stale and ignored.
func (e *Engine) Confirm(callID string) {
	e.mu.Lock()
	if e.pending == nil || e.pending.callID != callID {
		e.mu.Unlock()
		return
	}
	pending := e.pending
	e.pending = nil
	ctx := e.baseContext
	e.mu.Unlock()

	e.gateOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "confirmed")))
	e.runAction(pending.callID, pending.name, pending.arguments)
}

// Cancel denies the pending action. The action never runs; the model is told
// the user denied it. A callID that does not match is stale and ignored.
func (e *Engine) Cancel(callID string) {
	e.mu.Lock()
	if e.pending == nil || e.pending.callID != callID {
		e.mu.Unlock()
		return
	}
	pending := e.pending
	e.pending = nil
	ctx := e.baseContext
	e.mu.Unlock()

	e.gateOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "denied")))
	e.sendActionOutput(pending.callID, deniedOutput)
	if err := e.session.CreateResponse(); err != nil {
		logger.Warn("failed to request response after denial", "error", err)
	}
	e.emit(events.NewToolCallDenied(pending.callID, pending.name))
}

// Pending returns the call id of the action waiting on confirmation, or ""
// when there is none.
func (e *Engine) Pending() string {
	return e.pendingCallID()
}

func (e *Engine) pendingCallID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return ""
	}
	return e.pending.callID
}

func (e *Engine) execute(callID, name, arguments string) {
	e.mu.Lock()
	ctx := e.baseContext
	e.mu.Unlock()

	ctx, span := tracer.Start(ctx, "execute action")
	span.SetAttributes(attribute.String("action.name", name))
	defer span.End()

	if e.executor == nil {
		e.sendActionOutput(callID, fmt.Sprintf("No executor is configured to run %s.", name))
		e.emit(events.NewToolCallFailed(callID, name, "no executor configured"))
		return
	}

	output, err := e.executor.Execute(ctx, name, arguments)
	if err != nil {
		recordedErr := fmt.Errorf("failed to execute %s: %w", name, err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())

		e.sendActionOutput(callID, fmt.Sprintf("Action failed: %v", err))
		if err := e.session.CreateResponse(); err != nil {
			logger.Warn("failed to request response after action failure", "error", err)
		}
		e.emit(events.NewToolCallFailed(callID, name, err.Error()))
		return
	}

	e.sendActionOutput(callID, output)
	if err := e.session.CreateResponse(); err != nil {
		logger.Warn("failed to request response after action", "error", err)
	}
	e.emit(events.NewToolCallExecuted(callID, name, output))
}

func (e *Engine) sendActionOutput(callID, output string) {
	if err := e.session.SendToolOutput(callID, output); err != nil {
		logger.Warn("failed to send action output", "call_id", callID, "error", err)
	}
}

// referencedCallID extracts the call id the model passed to a reserved
// action; models sometimes omit it, in which case the pending action is
// assumed.
func referencedCallID(arguments string, fallback string) string {
	var args struct {
		CallID string `json:"call_id"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err == nil && args.CallID != "" {
		return args.CallID
	}
	return fallback
}
