package dto

import (
	"github.com/google/uuid"
)

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email,omitempty"`
	Issue       string    `json:"issue"`
	Address     string    `json:"address"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
}
