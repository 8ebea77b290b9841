// Package messaging holds the broker-backed integration event publishers.
//
// Every publisher sends the same JSON envelope produced by event.Marshal:
//
//	{"eventName": "bill.created", "occurredAtUtc": "...", "payload": {...}}
//
// Subpackages:
//   - rabbitmq: durable queue on RabbitMQ via amqp091-go
//   - redisstream: Redis stream via go-redis
package messaging
