package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no variables",
			text: "Hey, hast du kurz Zeit?",
			want: nil,
		},
		{
			name: "single variable",
			text: "Hey [Name]! Hast du 5 Minuten?",
			want: []string{"Name"},
		},
		{
			name: "duplicates collapse, order preserved",
			text: "Hey [Name], ich bin [Absender]. [Name], hast du Zeit?",
			want: []string{"Name", "Absender"},
		},
		{
			name: "variable with spaces",
			text: "Unser Produkt [Produkt Name] passt zu dir.",
			want: []string{"Produkt Name"},
		},
		{
			name: "unclosed bracket ignored",
			text: "Hey [Name, wie geht's?",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractVariables(tc.text))
		})
	}
}

func TestRender(t *testing.T) {
	text := "Hey [Name]! [Absender] hier. [Name], hast du Zeit?"

	got := Render(text, map[string]string{"Name": "Lisa", "Absender": "Tom"})
	assert.Equal(t, "Hey Lisa! Tom hier. Lisa, hast du Zeit?", got)
}

func TestRenderKeepsUnfilledVariables(t *testing.T) {
	text := "Hey [Name]! [Absender] hier."

	got := Render(text, map[string]string{"Name": "Lisa"})
	assert.Equal(t, "Hey Lisa! [Absender] hier.", got)

	// Пустое значение трактуется как незаполненное
	got = Render(text, map[string]string{"Name": "Lisa", "Absender": ""})
	assert.Equal(t, "Hey Lisa! [Absender] hier.", got)
}

func TestRenderNoVariables(t *testing.T) {
	text := "Plain text without placeholders."
	assert.Equal(t, text, Render(text, map[string]string{"Name": "Lisa"}))
}

func TestHasVariables(t *testing.T) {
	assert.True(t, HasVariables("Hey [Name]!"))
	assert.False(t, HasVariables("Hey Name!"))
}
