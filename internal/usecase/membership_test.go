package usecase_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"membership-server/internal/usecase"
)

func TestCouncilAbbreviation(t *testing.T) {
	tests := []struct {
		council  string
		expected string
	}{
		{"FCT Scout Council", "FSC"},
		{"Kano Scout Council", "KSC"},
		{"Lagos", "LAG"},
		{"Oyo", "OYO"},
		{"Ed", "EDX"},
		{"", "GEN"},
		{"  ", "GEN"},
		{"123 456", "GEN"},
		{"Abia State Scout Council", "ASS"},
	}

	for _, tt := range tests {
		t.Run(tt.council, func(t *testing.T) {
			assert.Equal(t, tt.expected, usecase.CouncilAbbreviation(tt.council))
		})
	}
}

func TestNewMembershipID(t *testing.T) {
	narrow := regexp.MustCompile(`^TSAN-[A-Z]{3}-\d{7}$`)
	wide := regexp.MustCompile(`^TSAN-[A-Z]{3}-\d{8}$`)

	t.Run("default format", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			id := usecase.NewMembershipID("Kano Scout Council", false)
			assert.Regexp(t, narrow, id)
			assert.Contains(t, id, "-KSC-")
		}
	})

	t.Run("wide format adds a digit", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			assert.Regexp(t, wide, usecase.NewMembershipID("Kano Scout Council", true))
		}
	})
}
