package usecase

// TraceSink collects structured trace records during a report run. Passing
// nil disables tracing. The sink replaces the ad-hoc process-global debug
// state the dashboard used to accumulate.
type TraceSink interface {
	Record(event string, fields map[string]any)
}

// TraceRecord is one collected trace entry.
type TraceRecord struct {
	Event  string         `json:"event"`
	Fields map[string]any `json:"fields"`
}

// TraceCollector is a TraceSink that retains records in order.
type TraceCollector struct {
	records []TraceRecord
}

func NewTraceCollector() *TraceCollector {
	return &TraceCollector{}
}

func (c *TraceCollector) Record(event string, fields map[string]any) {
	c.records = append(c.records, TraceRecord{Event: event, Fields: fields})
}

// Records returns the collected records in arrival order.
func (c *TraceCollector) Records() []TraceRecord {
	return c.records
}

func trace(sink TraceSink, event string, fields map[string]any) {
	if sink != nil {
		sink.Record(event, fields)
	}
}
