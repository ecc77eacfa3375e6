package events

// Topics emitted by the payment webhook dispatcher. Real deployments hang
// fulfillment off these; here the only subscriber logs.
const (
	TopicCheckoutCompleted = "checkout.completed"
	TopicPaymentSucceeded  = "payment.succeeded"
)
