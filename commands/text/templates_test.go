package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LongDesc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give string
		want string
	}{
		{name: "empty", give: "", want: ""},
		{
			name: "trims source indentation",
			give: `
				Dispatches a call.

				Prints the payload first.
			`,
			want: "Dispatches a call.\n\nPrints the payload first.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, LongDesc(tt.give))
		})
	}
}

func Test_Examples(t *testing.T) {
	t.Parallel()

	got := Examples(`
		# Print a call
		pendulum-ops submit local 0x0a00
	`)

	assert.Equal(t, "  # Print a call\n  pendulum-ops submit local 0x0a00", got)
	assert.Empty(t, Examples(""))
}
