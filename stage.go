package bconduit

// Stage is a step in the lifecycle of one request. Every path ends in [StageSent].
type Stage int

const (
	StageReceived Stage = iota
	StageBodyBuffering
	StageDispatched
	StageHandlerRunning
	StageHandlerSucceeded
	StageHandlerFailed
	StageHandlerReturnedError
	StageResponseBuilt
	StageSent
)

var stageNames = [...]string{
	StageReceived:             "received",
	StageBodyBuffering:        "body_buffering",
	StageDispatched:           "dispatched",
	StageHandlerRunning:       "handler_running",
	StageHandlerSucceeded:     "handler_succeeded",
	StageHandlerFailed:        "handler_failed",
	StageHandlerReturnedError: "handler_returned_error",
	StageResponseBuilt:        "response_built",
	StageSent:                 "sent",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}

	return stageNames[s]
}
