package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 32 位无连字符 uuid，作为各表主键
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
