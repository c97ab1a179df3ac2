package worker

import (
	"shopwise-web/internal/service"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

func RegisterHandlers(mux *asynq.ServeMux, importService *service.ImportService, logger *logrus.Logger) {
	importHandler := NewImportTaskHandler(importService, logger)

	mux.HandleFunc(service.TaskProductImport, importHandler.Handle)
}
