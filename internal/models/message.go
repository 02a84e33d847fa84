package models

// MessageKind discriminates the transcript message variants. Exactly one
// kind applies per message, so a message can never simultaneously be
// "generating" and "showing count options".
type MessageKind string

const (
	// MessagePlain is a bare text bubble with no affordances
	MessagePlain MessageKind = "plain"
	// MessageSurpriseMe offers the "surprise me" shortcut below the text
	MessageSurpriseMe MessageKind = "surprise_me"
	// MessageCountOptions shows the 2x-5x recipe count buttons
	MessageCountOptions MessageKind = "count_options"
	// MessageServingsOptions shows the 2x/3x/4x/custom servings buttons
	MessageServingsOptions MessageKind = "servings_options"
	// MessageGenerating is the single in-flight progress message; it is
	// the only transcript entry that mutates after being appended
	MessageGenerating MessageKind = "generating"
	// MessageAction surfaces a post-generation follow-up button
	MessageAction MessageKind = "action"
)

// ActionKind names the follow-up button carried by a MessageAction message
type ActionKind string

const (
	ActionAddToShoppingList ActionKind = "add_to_shopping_list"
	ActionGoToShoppingList  ActionKind = "go_to_shopping_list"
	ActionAddToWeekPlan     ActionKind = "add_to_week_plan"
	ActionStartCooking      ActionKind = "start_cooking"
)

// Progress is the payload of a MessageGenerating message
type Progress struct {
	Stage   string `json:"stage"`
	Percent int    `json:"percent"`
	Done    bool   `json:"done"`
	Failed  bool   `json:"failed"`
}

// Message is one transcript entry. The transcript is append-only; only the
// in-flight generating message is replaced in place while progress updates.
type Message struct {
	ID       string      `json:"id"`
	Text     string      `json:"text"`
	IsUser   bool        `json:"isUser"`
	Kind     MessageKind `json:"kind"`
	Action   ActionKind  `json:"action,omitempty"`   // set when Kind == MessageAction
	Progress *Progress   `json:"progress,omitempty"` // set when Kind == MessageGenerating
}

// NewPlainMessage builds a bare text message
func NewPlainMessage(id, text string, isUser bool) Message {
	return Message{ID: id, Text: text, IsUser: isUser, Kind: MessagePlain}
}
