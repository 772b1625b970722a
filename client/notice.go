package client

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// User-facing notice texts
const (
	MsgLoadFailed      = "Error loading cities. Using fallback list."
	MsgFetchFailed     = "Error fetching predictions. Please try again."
	MsgSelectCity      = "Please select a city first"
	MsgUnknownCity     = "Please pick a city from the list"
	MsgPanelArea       = "Please enter a valid panel area"
	MsgTurbineCount    = "Please enter a valid turbine count"
	MsgRotorDiameter   = "Please enter a valid rotor diameter"
	MsgUnsupportedMode = "Please choose a forecast mode"
)

// NoticeKind tells validation notices from failures
type NoticeKind string

const (
	NoticeValidation NoticeKind = "validation"
	NoticeError      NoticeKind = "error"
)

// Notice is a short message shown to the user, like a toast
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Notifier receives user-visible notices
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// NoticeLog collects notices until they are drained
type NoticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (l *NoticeLog) Notify(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

// Drain returns the collected notices and clears the log
func (l *NoticeLog) Drain() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.notices
	l.notices = nil
	return out
}

func logNotifier(logger *zap.Logger) Notifier {
	return NotifierFunc(func(n Notice) {
		logger.Info("notice", zap.String("kind", string(n.Kind)), zap.String("message", n.Message))
	})
}

type noticeKey struct{}

// CollectNotices returns a context under which client calls also record their
// notices in the returned log. Calls made under other contexts do not see them.
func CollectNotices(ctx context.Context) (context.Context, *NoticeLog) {
	log := &NoticeLog{}
	return context.WithValue(ctx, noticeKey{}, log), log
}

// notify sends n to the client's notifier and to any log collecting on ctx
func (c *Client) notify(ctx context.Context, n Notice) {
	c.notifier.Notify(n)
	if log, ok := ctx.Value(noticeKey{}).(*NoticeLog); ok {
		log.Notify(n)
	}
}
