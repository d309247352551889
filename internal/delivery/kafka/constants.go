package kafka

const (
	TopicCheckoutConfirmed    = "checkout.confirmed"
	TopicConfirmationRecorded = "checkout.confirmation.recorded"
	TopicConfirmationFailed   = "checkout.confirmation.failed"
)
