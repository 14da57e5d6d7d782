package domain

// Update is the inbound event envelope as delivered by the chat-platform
// adapter. The platform owns the bit-exact shape; this core only relies on
// the fields below being present.
type Update struct {
	ID      int64    `json:"update_id"`
	Message *Message `json:"message"`
}

// Message carries one user-originated event: either a text body or an
// attachment descriptor.
type Message struct {
	Chat     Chat        `json:"chat"`
	From     *Sender     `json:"from"`
	Text     string      `json:"text,omitempty"`
	Document *FileMeta   `json:"document,omitempty"`
	Photos   []PhotoSize `json:"photo,omitempty"`
}

// Chat identifies the conversation replies are addressed to.
type Chat struct {
	ID int64 `json:"id"`
}

// Sender is the platform-supplied identity of the human who sent the event.
type Sender struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// FileMeta describes an attached document: the platform file reference plus
// the metadata the sender's client declared.
type FileMeta struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// PhotoSize is one size variant of an attached photo.
type PhotoSize struct {
	FileID   string `json:"file_id"`
	FileSize int64  `json:"file_size,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// HasText reports whether the message carries a text body.
func (m *Message) HasText() bool { return m != nil && m.Text != "" }

// HasDocument reports whether the message carries a document descriptor.
func (m *Message) HasDocument() bool { return m != nil && m.Document != nil }

// HasPhoto reports whether the message carries at least one photo size.
func (m *Message) HasPhoto() bool { return m != nil && len(m.Photos) > 0 }

// LargestPhoto returns the photo size variant with the biggest declared
// byte size, or nil if the message has no photo.
func (m *Message) LargestPhoto() *PhotoSize {
	if !m.HasPhoto() {
		return nil
	}
	best := &m.Photos[0]
	for i := 1; i < len(m.Photos); i++ {
		if m.Photos[i].FileSize > best.FileSize {
			best = &m.Photos[i]
		}
	}
	return best
}

// Answer is the single outbound reply produced for a processed event.
// It is a transient value: composed once, handed to the producer, never
// persisted.
type Answer struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}
