// Package logger provides structured logging for httptargets using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with map-based structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("httpclient")
//	log.Info("client built", logger.Fields(logger.FieldTarget, "billing"))
package logger
