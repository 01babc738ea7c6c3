package constants

// NATS Subjects
const (
	// Payment events
	SubjectPaymentCompleted = "payment.completed"
	SubjectPaymentFailed    = "payment.failed"

	// Order events
	SubjectOrderCreated = "order.created"
)

// NATS queue groups
const (
	QueueGroupOrders = "orders-service"
)
