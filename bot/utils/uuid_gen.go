package utils

import "github.com/google/uuid"

// GenerateBotID generates a new random bot id
func GenerateBotID() string {
	return "bot-" + uuid.NewString()
}
