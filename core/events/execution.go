package events

const (
	// KindExecutionStarted identifies the start of an executor's work.
	KindExecutionStarted Kind = "execution.started"
	// KindExecutionFinished identifies the end of an executor's work.
	KindExecutionFinished Kind = "execution.finished"
	// KindNotification identifies a user-facing notification message.
	KindNotification Kind = "notification"
)

// ExecutionStarted marks that the named executor began work for this turn.
type ExecutionStarted struct {
	Base
	Name string
}

// NewExecutionStarted creates an execution started event.
func NewExecutionStarted(name string) ExecutionStarted {
	return ExecutionStarted{Base: NewBase(KindExecutionStarted), Name: name}
}

// ExecutionFinished marks that the named executor finished its work. Detached
// background work (a timer, for example) emits this independently of the turn
// that spawned it.
type ExecutionFinished struct {
	Base
	Name string
}

// NewExecutionFinished creates an execution finished event.
func NewExecutionFinished(name string) ExecutionFinished {
	return ExecutionFinished{Base: NewBase(KindExecutionFinished), Name: name}
}

// Notification carries a user-facing message outside the spoken response,
// such as a timer completion.
type Notification struct {
	Base
	Message string
}

// NewNotification creates a notification event.
func NewNotification(message string) Notification {
	return Notification{Base: NewBase(KindNotification), Message: message}
}
