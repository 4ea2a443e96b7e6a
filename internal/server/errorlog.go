package server

import (
	"log"

	"github.com/sirupsen/logrus"
)

func newErrorLog(logger *logrus.Logger) *log.Logger {
	return log.New(logger.WriterLevel(logrus.WarnLevel), "", 0)
}
