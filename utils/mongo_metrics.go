package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/event"
)

var (
	MongoOpenConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mongo_open_connections",
		Help: "Connections currently held by the MongoDB pool",
	})

	MongoActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mongo_active_connections",
		Help: "Connections currently checked out of the MongoDB pool",
	})
)

// MongoPoolMonitor feeds pool events into the connection gauges.
func MongoPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.ConnectionCreated:
				MongoOpenConnections.Inc()
			case event.ConnectionClosed:
				MongoOpenConnections.Dec()
			case event.GetSucceeded:
				MongoActiveConnections.Inc()
			case event.ConnectionReturned:
				MongoActiveConnections.Dec()
			}
		},
	}
}
