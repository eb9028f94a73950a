package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_Ask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{
			name:  "trims whitespace",
			input: "  6hESxBrhZ9ThDDsB1kGWpzj1jc3RMeb6QTGuHx6cb3F4YH2S  \n",
			want:  "6hESxBrhZ9ThDDsB1kGWpzj1jc3RMeb6QTGuHx6cb3F4YH2S",
		},
		{
			name:  "last line without newline",
			input: "bottom drive obey",
			want:  "bottom drive obey",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: "failed to read answer: EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := new(bytes.Buffer)
			p := NewTerminal(strings.NewReader(tt.input), out)

			got, err := p.Ask(t.Context(), "Enter the address of the sudo signatory: ")
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Enter the address of the sudo signatory: ", out.String())
		})
	}
}

func TestTerminal_AskSecret_NonTerminalFallsBackToLine(t *testing.T) {
	t.Parallel()

	p := NewTerminal(strings.NewReader("bottom drive obey lake\n"), new(bytes.Buffer))

	got, err := p.AskSecret(t.Context(), "secret: ")
	require.NoError(t, err)
	assert.Equal(t, "bottom drive obey lake", got)
}

func TestTerminal_ClosedAndCancelled(t *testing.T) {
	t.Parallel()

	p := NewTerminal(strings.NewReader("a\nb\n"), new(bytes.Buffer))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := p.Ask(ctx, "q")
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, p.Close())
	_, err = p.Ask(t.Context(), "q")
	require.EqualError(t, err, "prompt: closed")
}

func TestScripted(t *testing.T) {
	t.Parallel()

	p := NewScripted(" first ", "second")

	got, err := p.Ask(t.Context(), "one")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = p.AskSecret(t.Context(), "two")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	_, err = p.Ask(t.Context(), "three")
	require.ErrorIs(t, err, ErrNoMoreAnswers)

	assert.Equal(t, []string{"one", "two", "three"}, p.Questions)
}
