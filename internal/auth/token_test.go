package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

func TestTokenRoundTrip(t *testing.T) {
	id := uuid.New()
	token, err := IssueToken("test-secret", id, programs.RoleFinanceMMK, "Farah", time.Hour)
	assert.NoError(t, err)

	actor, err := ParseToken("test-secret", token)
	assert.NoError(t, err)
	assert.Equal(t, id, actor.ID)
	assert.Equal(t, programs.RoleFinanceMMK, actor.Role)
	assert.Equal(t, "Farah", actor.Name)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("test-secret", uuid.New(), programs.RoleUser, "Amir", time.Hour)
	assert.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := IssueToken("test-secret", uuid.New(), programs.RoleUser, "Amir", -time.Minute)
	assert.NoError(t, err)

	_, err = ParseToken("test-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("test-secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
