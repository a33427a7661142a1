package di

import (
	"shutter/infras/kafka"
	"shutter/infras/otel"
	kafkaTransport "shutter/transport/kafka"
	"shutter/transport/worker"
)

// Worker bundles the background processes run by cmd/worker.
type Worker struct {
	Scheduler *worker.Scheduler
	Consumer  *kafkaTransport.Consumer
	Kafka     kafka.Client
	Otel      otel.Otel
}
