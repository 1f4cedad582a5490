package response

import "github.com/votaciones-campus/api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type Message struct {
	Message string `json:"message"`
}

type VoteResponse struct {
	Message string      `json:"message"`
	Vote    domain.Vote `json:"vote"`
}
