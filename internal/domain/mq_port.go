package domain

type Message struct {
	Key 	[]byte
	Value 	[]byte
}

type SubscriberPort interface {
	Subscribe(topic, groupID string) (<-chan Message, error)
}
