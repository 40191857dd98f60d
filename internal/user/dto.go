package user

import "github.com/google/uuid"

// NOTE: commands travel from handler to usecase
// Note: DTO travels from usecase to handler
// Input commands
type RegisterCommand struct {
	Name     string `json:"name"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginCommand struct {
	Username string
	Password string
}

type SavePublicKeyCommand struct {
	Username string `json:"username"`
	PubKey   string `json:"pubkey"`
}

// Output DTOs
type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

type ContactDTO struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}
