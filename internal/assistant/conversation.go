package assistant

// Conversation is the ordered message log sent to the model on every turn.
// It only grows, except that Trim drops the message at index 1 once the log
// is over its bound. Index 0, the original prompt, is never dropped.
type Conversation struct {
	messages []Message
	limit    int
}

// NewConversation starts a log holding the user prompt.
func NewConversation(prompt string, limit int) *Conversation {
	return &Conversation{
		messages: []Message{{Role: RoleUser, Content: prompt}},
		limit:    limit,
	}
}

// Append adds messages to the end of the log.
func (c *Conversation) Append(msgs ...Message) {
	c.messages = append(c.messages, msgs...)
}

// Trim evicts the message at index 1 when the log is over its bound and
// reports whether it did. It removes at most one message per call, so a
// turn that appends several tool results can leave the log over the bound
// until the next turn.
func (c *Conversation) Trim() bool {
	if len(c.messages) <= c.limit || len(c.messages) < 2 {
		return false
	}
	c.messages = append(c.messages[:1], c.messages[2:]...)
	return true
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
