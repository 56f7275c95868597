package dto

// SubmitCommandRequest represents a command submission for one bot.
// Pointer fields tell an absent key apart from an empty string.
type SubmitCommandRequest struct {
	BotID   *string                `json:"bot_id" validate:"required,notblank"`
	Command *string                `json:"command" validate:"required,notblank"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// RegisterRequest is the registration body. Every key other than bot_id is an attribute.
type RegisterRequest struct {
	BotID      string
	Attributes map[string]interface{}
}

// NewRegisterRequest builds a registration request from a decoded JSON body
func NewRegisterRequest(botID string, body map[string]interface{}) RegisterRequest {
	attrs := make(map[string]interface{}, len(body))
	for k, v := range body {
		if k == "bot_id" {
			continue
		}
		attrs[k] = v
	}
	return RegisterRequest{BotID: botID, Attributes: attrs}
}
