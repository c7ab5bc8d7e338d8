package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewUpiLink(t *testing.T) {
	now := time.Now()

	t.Run("vpa supplied verifies the link", func(t *testing.T) {
		link := newUpiLink("chat-1", strPtr("a@b"), nil, now)
		assert.Equal(t, "a@b", link.VPA)
		assert.True(t, link.IsVerified)
		require.NotNil(t, link.LinkedAt)
		assert.Equal(t, now, *link.LinkedAt)
	})

	t.Run("bank name alone stays unverified", func(t *testing.T) {
		link := newUpiLink("chat-1", nil, strPtr("X Bank"), now)
		assert.Equal(t, "X Bank", link.BankName)
		assert.Empty(t, link.VPA)
		assert.False(t, link.IsVerified)
		assert.Nil(t, link.LinkedAt)
	})
}

func TestUpiMergeAssignments(t *testing.T) {
	now := time.Now()

	t.Run("absent fields produce no assignment", func(t *testing.T) {
		a := upiMergeAssignments(nil, strPtr("X Bank"), now)
		assert.Equal(t, "X Bank", a["bank_name"])
		assert.NotContains(t, a, "vpa")
		assert.NotContains(t, a, "is_verified")
		assert.NotContains(t, a, "linked_at")
	})

	t.Run("vpa re-verifies and refreshes linked_at", func(t *testing.T) {
		a := upiMergeAssignments(strPtr("a@b"), nil, now)
		assert.Equal(t, "a@b", a["vpa"])
		assert.Equal(t, true, a["is_verified"])
		assert.Equal(t, now, a["linked_at"])
		assert.NotContains(t, a, "bank_name")
	})
}
