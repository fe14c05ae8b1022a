package utils_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/boiiloat/pos-api/pkg/utils"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	invoice := utils.GenerateInvoiceNumber(now)

	assert.True(t, strings.HasPrefix(invoice, "INV-20250314-"), "got %s", invoice)

	token := strings.TrimPrefix(invoice, "INV-20250314-")
	assert.Len(t, token, 12)
	assert.Equal(t, strings.ToUpper(token), token)
}

func TestGenerateInvoiceNumber_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		invoice := utils.GenerateInvoiceNumber(now)
		assert.False(t, seen[invoice], "duplicate invoice number %s", invoice)
		seen[invoice] = true
	}
}
