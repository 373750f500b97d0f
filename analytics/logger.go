package analytics

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ FlowDataCollector = new(LogFileDataCollector)

type LogFileDataCollector struct {
	fileName string
	logger   *zap.Logger
}

func NewLogFileDataCollector(fileName string) (*LogFileDataCollector, error) {
	enccoderConfig := zap.NewProductionEncoderConfig()
	enccoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	enccoderConfig.StacktraceKey = ""
	fileEncoder := zapcore.NewJSONEncoder(enccoderConfig)
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(fileEncoder, zapcore.AddSync(logFile), zapcore.InfoLevel)
	return &LogFileDataCollector{
		fileName: fileName,
		logger:   zap.New(core),
	}, nil
}

func (lc *LogFileDataCollector) RecordLaunched(flowId string, input map[string]any) {
	lc.logger.Info("launched", zap.String("flowId", flowId), zap.Any("input", input))
}

func (lc *LogFileDataCollector) RecordPaused(flowId string, executionKey string) {
	lc.logger.Info("paused", zap.String("flowId", flowId), zap.String("execution", executionKey))
}

func (lc *LogFileDataCollector) RecordEnded(flowId string, outcome string, output map[string]any) {
	lc.logger.Info("ended", zap.String("flowId", flowId), zap.String("outcome", outcome), zap.Any("output", output))
}

func (lc *LogFileDataCollector) RecordFailed(flowId string, reason string) {
	lc.logger.Info("failed", zap.String("flowId", flowId), zap.String("reason", reason))
}

func (lc *LogFileDataCollector) Sync() error {
	return lc.logger.Sync()
}
