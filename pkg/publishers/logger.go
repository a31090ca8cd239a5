package publishers

// Logger is the structured logging surface publishers write to.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type discardLogger struct{}

func (discardLogger) InfoObj(string, string, interface{})  {}
func (discardLogger) DebugObj(string, string, interface{}) {}
func (discardLogger) WarnObj(string, string, interface{})  {}
func (discardLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return discardLogger{}
	}
	return log
}

// deliveryFields is the log payload every publisher attaches to a delivery
// attempt; extra keys are merged in.
func deliveryFields(p Publisher, evt Event, extra map[string]any) map[string]any {
	out := map[string]any{
		"publisher_id":    p.ID(),
		"publisher_type":  p.Type(),
		"notification_id": evt.NotificationID,
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
