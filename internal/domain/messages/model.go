package messages

import "time"

// Message es inmutable después de creado, salvo ReadAt,
// que solo setea la lectura del receptor.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Content    string
	CreatedAt  time.Time
	ReadAt     *time.Time
}

// PeerSummary es la contraparte expandida en hilos y conversaciones.
type PeerSummary struct {
	ID   string
	Name *string
	City *string
}

// Relation etiqueta el vínculo con la contraparte de una conversación.
type Relation string

const (
	RelationFriend       Relation = "friend"
	RelationSharedMeetup Relation = "shared-meetup"
	RelationNone         Relation = "none"
)

// LastMessage resume el mensaje más reciente con un peer.
type LastMessage struct {
	Content   string
	CreatedAt time.Time
	ReadAt    *time.Time
	FromMe    bool
}

// Conversation es una vista derivada, no una entidad almacenada:
// agrupa mensajes por contraparte.
type Conversation struct {
	User        PeerSummary
	LastMessage *LastMessage
	Relation    Relation
}

// ThreadMessage expande el sender para el hilo.
type ThreadMessage struct {
	Message
	Sender PeerSummary
}
