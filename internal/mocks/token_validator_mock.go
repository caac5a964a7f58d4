package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

type TokenValidator struct{ mock.Mock }

func (m *TokenValidator) Validate(token string, now time.Time) (string, error) {
	args := m.Called(token, now)
	return args.String(0), args.Error(1)
}
