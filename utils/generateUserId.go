package utils

import (
	"fmt"

	"github.com/google/uuid"
)

func GenerateUserID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate user id: %w", err)
	}
	return id.String(), nil
}
