package analytics

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"
const NOOP_DATA_COLLECTOR DataCollectorType = "NOOP_DATA_COLLECTOR"

// FlowDataCollector receives the lifecycle events of flow executions.
type FlowDataCollector interface {
	RecordLaunched(flowId string, input map[string]any)
	RecordPaused(flowId string, executionKey string)
	RecordEnded(flowId string, outcome string, output map[string]any)
	RecordFailed(flowId string, reason string)
}

func NewDataCollector(config DataCollectorConfig) (FlowDataCollector, error) {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		return NewLogFileDataCollector(config.FileName)
	}
	return NoopDataCollector{}, nil
}

type NoopDataCollector struct{}

func (NoopDataCollector) RecordLaunched(string, map[string]any)      {}
func (NoopDataCollector) RecordPaused(string, string)                {}
func (NoopDataCollector) RecordEnded(string, string, map[string]any) {}
func (NoopDataCollector) RecordFailed(string, string)                {}
