package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fraudshield-lab/pkg/logger"
)

func TestEntityExtractor_Extract(t *testing.T) {
	e := NewEntityExtractor(logger.NewDevelopment())

	text := "Send the fee to winner99@upi or call 9876543210. Complete KYC at http://fake-bank.example/login"
	entities := e.Extract(text)

	assert.Equal(t, []string{"winner99@upi"}, entities.PaymentHandles)
	assert.Equal(t, []string{"http://fake-bank.example/login"}, entities.Links)
	assert.Equal(t, []string{"9876543210"}, entities.PhoneNumbers)
	assert.Equal(t, []string{"KYC"}, entities.BankMentions)
}

func TestEntityExtractor_WorksOnRawText(t *testing.T) {
	e := NewEntityExtractor(logger.NewDevelopment())

	// Artifacts that normalization would destroy must still be harvested
	entities := e.Extract("pay scammer.one@upi NOW, link: https://trap.example/x?id=42")

	assert.Equal(t, []string{"scammer.one@upi"}, entities.PaymentHandles)
	assert.Equal(t, []string{"https://trap.example/x?id=42"}, entities.Links)
}

func TestEntityExtractor_Empty(t *testing.T) {
	e := NewEntityExtractor(logger.NewDevelopment())

	tests := []struct {
		name string
		text string
	}{
		{name: "empty text", text: ""},
		{name: "benign text", text: "see you at dinner tonight"},
		{name: "nine digit number is not a phone", text: "ticket 123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := e.Extract(tt.text)

			assert.NotNil(t, entities.PaymentHandles)
			assert.NotNil(t, entities.Links)
			assert.NotNil(t, entities.PhoneNumbers)
			assert.NotNil(t, entities.BankMentions)
			assert.Empty(t, entities.PaymentHandles)
			assert.Empty(t, entities.Links)
			assert.Empty(t, entities.PhoneNumbers)
			assert.Empty(t, entities.BankMentions)
		})
	}
}

func TestEntityExtractor_MultipleMatches(t *testing.T) {
	e := NewEntityExtractor(logger.NewDevelopment())

	entities := e.Extract("a@upi b@upi account ACCOUNT ifsc 1112223334 4445556667")

	assert.Len(t, entities.PaymentHandles, 2)
	assert.Len(t, entities.PhoneNumbers, 2)
	assert.Equal(t, []string{"account", "ACCOUNT", "ifsc"}, entities.BankMentions)
}
