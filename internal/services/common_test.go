package services

import (
	"go.uber.org/zap"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}
