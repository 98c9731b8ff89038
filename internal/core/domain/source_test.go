package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"atomic_habits.txt", "atomic habits"},
		{"Deep-Work.v2.docx", "Deep Work v2"},
		{"/books/the__power  of-now.md", "the power of now"},
		{"1AbCdEf", "1AbCdEf"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromName(tt.in))
		})
	}
}
