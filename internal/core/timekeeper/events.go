package timekeeper

// RequestKind names a message sent to the TimeKeeper.
type RequestKind string

const (
	RequestStart RequestKind = "start"
	RequestStop  RequestKind = "stop"
	RequestCheck RequestKind = "check"
)

// NotificationKind names a message emitted by the TimeKeeper.
type NotificationKind string

const (
	NotificationTick     NotificationKind = "tick"
	NotificationComplete NotificationKind = "complete"
)

// Request is the controller-to-keeper message. EndTimestamp is epoch
// milliseconds and is only meaningful for RequestStart. Generation
// identifies the start lifecycle and is echoed on every notification it
// produces.
type Request struct {
	Kind         RequestKind `json:"kind"`
	EndTimestamp int64       `json:"endTimestamp,omitempty"`
	Generation   uint64      `json:"generation,omitempty"`
}

// Valid reports whether the request can be acted on.
func (request Request) Valid() bool {
	switch request.Kind {
	case RequestStart:
		return request.EndTimestamp >= 0
	case RequestStop, RequestCheck:
		return true
	}
	return false
}

// Notification is the keeper-to-controller message.
type Notification struct {
	Kind             NotificationKind `json:"kind"`
	RemainingSeconds int              `json:"remainingSeconds"`
	Generation       uint64           `json:"generation,omitempty"`
}

// Valid reports whether the notification is well formed.
func (notification Notification) Valid() bool {
	switch notification.Kind {
	case NotificationTick:
		return notification.RemainingSeconds >= 0
	case NotificationComplete:
		return true
	}
	return false
}

// Remaining returns the whole seconds left until endTimestamp at nowMillis,
// rounded up and never negative.
func Remaining(endTimestamp, nowMillis int64) int {
	diff := endTimestamp - nowMillis
	if diff <= 0 {
		return 0
	}
	return int((diff + 999) / 1000)
}
